// Package clock lets the refresh loop and the renderers take time as a dependency.
// Production code uses Real(); tests use Fake() and move time by hand.
package clock

import "time"

type Clock interface {
	Now() time.Time

	// NewTicker behaves like time.NewTicker: C has capacity 1 and ticks are
	// dropped while the consumer is busy.
	NewTicker(d time.Duration) *Ticker
}

type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop does not close C.
func (t *Ticker) Stop() { t.stopFunc() }

func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) *Ticker {
	ticker := time.NewTicker(d)
	return &Ticker{C: ticker.C, stopFunc: ticker.Stop}
}
