package quiz

import (
	"context"
	"testing"
	"time"
)

func TestCountdownExpires(t *testing.T) {
	c := StartCountdown(context.Background(), 50*time.Millisecond, 10*time.Millisecond)
	defer c.Stop()

	select {
	case remaining := <-c.Ticks():
		if remaining <= 0 || remaining > 50*time.Millisecond {
			t.Fatalf("first tick remaining = %v", remaining)
		}
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}

	select {
	case <-c.Expired():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}
}

func TestCountdownZeroExpiresImmediately(t *testing.T) {
	c := StartCountdown(context.Background(), 0, time.Second)
	defer c.Stop()

	select {
	case <-c.Expired():
	case <-time.After(time.Second):
		t.Fatal("zero countdown did not expire")
	}
}

func TestCountdownStop(t *testing.T) {
	c := StartCountdown(context.Background(), time.Hour, 10*time.Millisecond)
	c.Stop()
	c.Stop()

	select {
	case <-c.Expired():
		t.Fatal("stopped countdown must not expire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := StartCountdown(ctx, time.Hour, 10*time.Millisecond)
	cancel()
	c.Stop()

	select {
	case <-c.Expired():
		t.Fatal("cancelled countdown must not expire")
	default:
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "05:00"},
		{90*time.Second + 999*time.Millisecond, "01:30"},
		{0, "00:00"},
		{-time.Second, "00:00"},
		{61 * time.Minute, "61:00"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.d); got != tc.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
