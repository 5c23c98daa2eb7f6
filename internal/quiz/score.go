package quiz

import "fmt"

// PassThreshold is the percentage a session must exceed to pass.
const PassThreshold = 60

// Percentage returns floor(score/total*100). An empty quiz scores 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return score * 100 / total
}

// Passed reports whether a percentage passes. 60% exactly is a fail.
func Passed(percentage int) bool {
	return percentage > PassThreshold
}

// ResultTitle is the headline of the result dialog.
func ResultTitle(passed bool) string {
	if passed {
		return "Congratulations! You Passed"
	}
	return "Oops! You Failed"
}

// ResultSubtitle is the raw score line of the result dialog.
func ResultSubtitle(score, total int) string {
	return fmt.Sprintf("%d out of %d are correct", score, total)
}
