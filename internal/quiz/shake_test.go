package quiz

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDetector() (*ShakeDetector, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	d := NewShakeDetector(8.0, time.Second)
	d.now = clock.now
	return d, clock
}

func TestShakeDetectorDirections(t *testing.T) {
	d, clock := newTestDetector()

	if got := d.Detect(MotionSample{X: 9}); got != DirectionRight {
		t.Fatalf("x=9: got %v, want right", got)
	}
	clock.advance(1100 * time.Millisecond)
	if got := d.Detect(MotionSample{X: -9}); got != DirectionLeft {
		t.Fatalf("x=-9: got %v, want left", got)
	}
	clock.advance(1100 * time.Millisecond)
	if got := d.Detect(MotionSample{X: 8, Y: 30, Z: 30}); got != DirectionNone {
		t.Fatalf("x at threshold: got %v, want none", got)
	}
}

func TestShakeDetectorDebounce(t *testing.T) {
	d, clock := newTestDetector()

	if d.Detect(MotionSample{X: 12}) != DirectionRight {
		t.Fatal("first shake should register")
	}
	clock.advance(500 * time.Millisecond)
	if got := d.Detect(MotionSample{X: 12}); got != DirectionNone {
		t.Fatalf("shake inside debounce: got %v", got)
	}
	clock.advance(500 * time.Millisecond)
	if got := d.Detect(MotionSample{X: -12}); got != DirectionNone {
		t.Fatalf("shake at exactly 1s: got %v", got)
	}
	clock.advance(time.Millisecond)
	if got := d.Detect(MotionSample{X: -12}); got != DirectionLeft {
		t.Fatalf("shake after debounce: got %v", got)
	}
}

func TestShakeDetectorPaused(t *testing.T) {
	d, _ := newTestDetector()
	d.Pause()
	if got := d.Detect(MotionSample{X: 20}); got != DirectionNone {
		t.Fatalf("paused detector reported %v", got)
	}
	d.Resume()
	if got := d.Detect(MotionSample{X: 20}); got != DirectionRight {
		t.Fatalf("resumed detector reported %v", got)
	}
}
