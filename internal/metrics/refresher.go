package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultStaleTimeSec       = 30
	defaultRefreshIntervalSec = 30
)

var timeNowFunc = time.Now

// Fetcher is the metrics source the refresher polls. Service satisfies it.
type Fetcher interface {
	Get(ctx context.Context) (StaffMetrics, error)
}

// Refresher keeps a cached copy of the staff metrics and refreshes it in
// the background. Reads within the stale window are served from cache.
type Refresher struct {
	fetcher   Fetcher
	staleTime time.Duration
	interval  time.Duration

	mu        sync.RWMutex
	cached    StaffMetrics
	fetchedAt time.Time

	ticker *time.Ticker
	done   chan bool
}

func NewRefresher(fetcher Fetcher, config Config) *Refresher {
	staleSec := config.StaleTimeSec
	if staleSec <= 0 {
		staleSec = defaultStaleTimeSec
	}
	intervalSec := config.RefreshIntervalSec
	if intervalSec <= 0 {
		intervalSec = defaultRefreshIntervalSec
	}

	return &Refresher{
		fetcher:   fetcher,
		staleTime: time.Duration(staleSec) * time.Second,
		interval:  time.Duration(intervalSec) * time.Second,
		done:      make(chan bool),
	}
}

// Current returns the cached metrics while they are fresh and refetches
// once they go stale. A failed refetch keeps serving the last good copy.
func (r *Refresher) Current(ctx context.Context) StaffMetrics {
	r.mu.RLock()
	fresh := !r.fetchedAt.IsZero() && timeNowFunc().Sub(r.fetchedAt) < r.staleTime
	cached := r.cached
	r.mu.RUnlock()

	if fresh {
		return cached
	}
	return r.refresh(ctx)
}

// Start begins the background refresh loop.
func (r *Refresher) Start() {
	log.Info().Dur("interval", r.interval).Msg("Staff metrics refresher started")
	r.ticker = time.NewTicker(r.interval)
	go r.loop()
}

func (r *Refresher) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.refresh(context.Background())
		case <-r.done:
			r.ticker.Stop()
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) StaffMetrics {
	metrics, err := r.fetcher.Get(ctx)
	if err != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.cached
	}

	r.mu.Lock()
	r.cached = metrics
	r.fetchedAt = timeNowFunc()
	r.mu.Unlock()
	return metrics
}

// Stop stops the background refresh loop.
func (r *Refresher) Stop() {
	log.Info().Msg("Stopping staff metrics refresher")
	if r.ticker != nil {
		r.done <- true
	}
}
