package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Ticker runs a job function at a fixed interval until stopped. Each tick gets
// a bounded timeout so a hung job cannot stall the loop.
type Ticker struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	job      func(ctx context.Context)
	log      *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker constructs a ticker job. If interval <= 0 it defaults to 1 minute.
func NewTicker(name string, interval time.Duration, job func(ctx context.Context), logger *zerolog.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Minute
	}
	tickLog := logger.With().Str("component", "Ticker").Str("job", name).Logger()
	return &Ticker{
		name:     name,
		interval: interval,
		timeout:  30 * time.Second,
		job:      job,
		log:      &tickLog,
		done:     make(chan struct{}),
	}
}

// Start begins the loop in a background goroutine. Calling Start on a running
// ticker has no effect.
func (t *Ticker) Start(parentCtx context.Context) {
	if t.ctx != nil {
		// already started
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	t.ctx = ctx
	t.cancel = cancel

	go t.loop()
}

func (t *Ticker) loop() {
	ticker := time.NewTicker(t.interval)
	defer func() {
		ticker.Stop()
		close(t.done)
	}()

	t.log.Info().Dur("interval", t.interval).Msg("ticker started")
	for {
		select {
		case <-t.ctx.Done():
			t.log.Info().Msg("ticker stopping")
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(t.ctx, t.timeout)
			t.job(runCtx)
			cancel()
		}
	}
}

// Stop cancels the loop and waits for it to finish. It is idempotent.
func (t *Ticker) Stop() {
	if t.cancel == nil {
		// not started
		return
	}
	t.cancel()
	<-t.done
	// reset for potential restart
	t.ctx = nil
	t.cancel = nil
	t.done = make(chan struct{})
}
