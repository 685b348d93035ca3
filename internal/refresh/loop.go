// Package refresh polls the backend on a fixed period and installs every
// snapshot it gets into the live model.
//
// Fetches are serialised: the loop goroutine performs each fetch inline, and a
// tick that comes due while a fetch is pending is dropped by the ticker. So at
// most one fetch is in flight and snapshots are installed in the order they
// were requested. Failed fetches change nothing; the next tick is the retry.
package refresh

import (
	"context"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/clock"
	"github.com/DoyleJ11/library-dashboard/internal/fetch"
	"github.com/DoyleJ11/library-dashboard/pkg/types"
	"go.uber.org/zap"
)

const DefaultPeriod = 5000 * time.Millisecond

// Replacer is the write side of the live model.
type Replacer interface {
	Replace(s types.Snapshot) int
}

type Loop struct {
	fetcher fetch.Fetcher
	model   Replacer
	clock   clock.Clock
	period  time.Duration
	status  *Status
	log     *zap.Logger
}

type Option func(*Loop)

func WithClock(c clock.Clock) Option { return func(l *Loop) { l.clock = c } }

func WithPeriod(d time.Duration) Option { return func(l *Loop) { l.period = d } }

func WithLogger(log *zap.Logger) Option { return func(l *Loop) { l.log = log } }

func New(f fetch.Fetcher, model Replacer, opts ...Option) *Loop {
	l := &Loop{
		fetcher: f,
		model:   model,
		clock:   clock.Real(),
		period:  DefaultPeriod,
		status:  &Status{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.period <= 0 {
		l.period = DefaultPeriod
	}

	endpoint := ""
	if u, ok := f.(interface{ URL() string }); ok {
		endpoint = u.URL()
	}
	l.status.describe(endpoint, l.period)
	l.log = l.log.With(zap.String("endpoint", endpoint))
	return l
}

func (l *Loop) Status() *Status { return l.status }

// Run does the initial load and then polls until ctx is done. Fetch errors
// never stop it; it returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	_ = l.InitialLoad(ctx)
	return l.Poll(ctx)
}

// InitialLoad fetches once so the first render does not wait for a tick. On
// failure the model keeps its empty snapshot. The error is informational.
func (l *Loop) InitialLoad(ctx context.Context) error {
	return l.refresh(ctx, "initial")
}

// Poll runs the periodic part only.
func (l *Loop) Poll(ctx context.Context) error {
	ticker := l.clock.NewTicker(l.period)
	defer ticker.Stop()

	l.log.Info("polling library", zap.Duration("period", l.period))
	for {
		select {
		case <-ctx.Done():
			l.log.Info("polling stopped")
			return nil
		case <-ticker.C:
			_ = l.refresh(ctx, "tick")
		}
	}
}

func (l *Loop) refresh(ctx context.Context, trigger string) error {
	start := l.clock.Now()
	snap, err := l.fetcher.Fetch(ctx)
	latency := l.clock.Now().Sub(start)

	if err != nil {
		if ctx.Err() != nil {
			// shutting down; not a backend problem
			return err
		}
		if l.status.recordFailure(start, latency, err) {
			l.log.Warn("library fetch failed", zap.String("trigger", trigger), zap.Error(err))
		} else {
			l.log.Debug("library fetch still failing", zap.String("trigger", trigger))
		}
		return err
	}

	version := l.model.Replace(snap)
	if l.status.recordSuccess(start, latency, version) {
		l.log.Info("library fetch recovered", zap.Int("version", version))
	}
	l.log.Debug("installed snapshot",
		zap.String("trigger", trigger),
		zap.Int("version", version),
		zap.Int("projects", len(snap.Library)),
		zap.Duration("latency", latency),
	)
	return nil
}
