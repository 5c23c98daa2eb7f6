package quiz

import "testing"

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
		passed             bool
	}{
		{3, 5, 60, false},
		{4, 5, 80, true},
		{2, 3, 66, true},
		{1, 3, 33, false},
		{0, 0, 0, false},
		{2, 2, 100, true},
	}
	for _, tc := range cases {
		got := Percentage(tc.score, tc.total)
		if got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
		if Passed(got) != tc.passed {
			t.Errorf("Passed(%d) = %v, want %v", got, !tc.passed, tc.passed)
		}
	}
}

func TestResultTexts(t *testing.T) {
	if ResultTitle(true) != "Congratulations! You Passed" {
		t.Errorf("pass title = %q", ResultTitle(true))
	}
	if ResultTitle(false) != "Oops! You Failed" {
		t.Errorf("fail title = %q", ResultTitle(false))
	}
	if got := ResultSubtitle(3, 5); got != "3 out of 5 are correct" {
		t.Errorf("subtitle = %q", got)
	}
}
