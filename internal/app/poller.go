package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/pulsar/internal/remote"
	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/internal/store"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
	pollBatchLimit      = 500
)

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Poller copies entities from a relay into a store.
type Poller struct {
	client   remote.Fetcher
	writer   store.Writer
	link     *state.Store
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller builds a poller. A non-positive interval uses the default.
func NewPoller(client remote.Fetcher, w store.Writer, link *state.Store, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{client: client, writer: w, link: link, interval: interval, logger: logger}
}

// Start launches a background goroutine that polls until ctx is cancelled.
// It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			p.poll(ctx)
			timer.Reset(calculateBackoff(p.link.Snapshot().ConsecutiveFailures, p.interval))
		}
	}()
}

// poll drains every batch the relay has ready.
func (p *Poller) poll(ctx context.Context) {
	for {
		since := p.link.Snapshot().Next
		batch, err := p.client.FetchEntities(ctx, remote.EntityQuery{Since: since, Limit: pollBatchLimit})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.link.Update(since, 0, err)
			p.logger.Warn("relay poll failed", "since", since, "error", err)
			return
		}

		inserted := 0
		var last uint64
		for _, rec := range batch.Entities {
			e := rec.Entity()
			e.ID = 0
			if _, err := p.writer.Insert(ctx, e); err != nil {
				// Resume after the last stored record.
				p.link.Advance(last, inserted)
				p.link.Update(since, 0, err)
				p.logger.Warn("relay insert failed", "seq", rec.Sequence, "inserted", inserted, "error", err)
				return
			}
			inserted++
			last = max(last, rec.Sequence)
		}
		p.link.Update(batch.Next, inserted, nil)
		if inserted > 0 {
			p.logger.Debug("relay poll", "since", since, "next", batch.Next, "entities", inserted)
		}
		if len(batch.Entities) < pollBatchLimit || batch.Next <= since {
			return
		}
	}
}
