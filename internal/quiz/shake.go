package quiz

import "time"

// Default shake tuning for a phone accelerometer reporting m/s².
const (
	DefaultShakeThreshold = 8.0
	DefaultShakeDebounce  = time.Second
)

// Direction is the navigation signal derived from a shake.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// MotionSample is one accelerometer reading. Only X (horizontal) is used.
type MotionSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ShakeDetector turns motion samples into left/right shakes. It only reports
// shakes while active (screen in the foreground) and ignores samples until
// the debounce window after the last accepted shake has passed.
type ShakeDetector struct {
	threshold float64
	debounce  time.Duration
	now       func() time.Time
	last      time.Time
	active    bool
}

// NewShakeDetector returns an active detector. Non-positive arguments fall
// back to the defaults.
func NewShakeDetector(threshold float64, debounce time.Duration) *ShakeDetector {
	if threshold <= 0 {
		threshold = DefaultShakeThreshold
	}
	if debounce <= 0 {
		debounce = DefaultShakeDebounce
	}
	return &ShakeDetector{
		threshold: threshold,
		debounce:  debounce,
		now:       time.Now,
		active:    true,
	}
}

// Pause unregisters the listener; samples are dropped until Resume.
func (d *ShakeDetector) Pause() { d.active = false }

// Resume registers the listener again.
func (d *ShakeDetector) Resume() { d.active = true }

func (d *ShakeDetector) Active() bool { return d.active }

// Detect classifies a sample.
func (d *ShakeDetector) Detect(s MotionSample) Direction {
	if !d.active {
		return DirectionNone
	}

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) <= d.debounce {
		return DirectionNone
	}

	var dir Direction
	switch {
	case s.X > d.threshold:
		dir = DirectionRight
	case s.X < -d.threshold:
		dir = DirectionLeft
	default:
		return DirectionNone
	}

	d.last = now
	return dir
}
