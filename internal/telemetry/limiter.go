package telemetry

import "time"

const (
	CollisionInterval = 50 * time.Millisecond  // 20 Hz
	PositionInterval  = 100 * time.Millisecond // 10 Hz
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Limiter admits at most one event per interval of wall-clock time. The first
// call is always admitted. It is not safe for concurrent use.
type Limiter struct {
	interval time.Duration
	now      Clock
	last     time.Time
	primed   bool
}

func NewLimiter(interval time.Duration, now Clock) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{interval: interval, now: now}
}

// Allow reports whether strictly more than the interval has elapsed since the
// last admitted event, and if so records now as the new window start.
func (l *Limiter) Allow() bool {
	t := l.now()
	if l.primed && t.Sub(l.last) <= l.interval {
		return false
	}
	l.last = t
	l.primed = true
	return true
}

func (l *Limiter) Interval() time.Duration { return l.interval }
