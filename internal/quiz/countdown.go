package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CountdownInterval is the tick granularity of the quiz timer.
const CountdownInterval = time.Second

// Countdown is a quiz timer bound to a context. It publishes the remaining
// time on every tick (the first one immediately) and closes Expired when it
// reaches zero. Stop releases it; after Stop neither channel fires again.
type Countdown struct {
	ticks    chan time.Duration
	expired  chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// StartCountdown starts a timer for total, ticking every interval.
func StartCountdown(ctx context.Context, total, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = CountdownInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Countdown{
		ticks:   make(chan time.Duration, 1),
		expired: make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go c.run(ctx, time.Now().Add(total), interval)
	return c
}

// Ticks delivers the latest remaining time. Stale values are replaced, so a
// slow reader always sees the most recent one.
func (c *Countdown) Ticks() <-chan time.Duration { return c.ticks }

// Expired is closed when the timer reaches zero.
func (c *Countdown) Expired() <-chan struct{} { return c.expired }

// Stop cancels the timer and waits for its goroutine to exit.
func (c *Countdown) Stop() {
	c.stopOnce.Do(c.cancel)
	<-c.done
}

func (c *Countdown) run(ctx context.Context, deadline time.Time, interval time.Duration) {
	defer close(c.done)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if ctx.Err() == nil {
				close(c.expired)
			}
			return
		}
		c.publish(remaining)

		wait := interval
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *Countdown) publish(remaining time.Duration) {
	select {
	case c.ticks <- remaining:
		return
	default:
	}
	select {
	case <-c.ticks:
	default:
	}
	select {
	case c.ticks <- remaining:
	default:
	}
}

// FormatRemaining renders a remaining duration as MM:SS, truncating to whole
// seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
