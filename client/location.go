package client

import (
	"context"
	"sync"
	"time"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// LocationSource abstracts the device's position capability.
type LocationSource interface {
	// Current returns one position fix, bounded by ctx.
	Current(ctx context.Context) (models.LocationSample, error)
	// Watch streams fixes until ctx is cancelled. The returned channel is
	// closed when the watch ends.
	Watch(ctx context.Context) (<-chan models.LocationSample, error)
}

// ReporterOptions tune the freshness rules of the Location Reporter.
type ReporterOptions struct {
	// MaxSampleAge is the staleness window: a fix older than this is
	// dropped instead of forwarded.
	MaxSampleAge time.Duration
	// FixTimeout bounds how long the reporter waits for a single fix
	// before giving up on that sample (not on the watch).
	FixTimeout time.Duration
}

func (o *ReporterOptions) defaults() {
	if o.MaxSampleAge <= 0 {
		o.MaxSampleAge = 30 * time.Second
	}
	if o.FixTimeout <= 0 {
		o.FixTimeout = 20 * time.Second
	}
}

// Reporter samples device position and forwards it to the remote store.
// There is exactly one underlying watch at a time; Start is idempotent for
// the same token and atomically swaps the watch for a new token. Each
// successful update publishes EventLocationUpdated so the feed can refresh.
type Reporter struct {
	api  *API
	bus  *Bus
	src  LocationSource
	opts ReporterOptions
	log  zerolog.Logger

	mu     sync.Mutex
	token  string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReporter(api *API, bus *Bus, src LocationSource, opts ReporterOptions, logger zerolog.Logger) *Reporter {
	opts.defaults()
	return &Reporter{api: api, bus: bus, src: src, opts: opts, log: logger}
}

// Start begins continuous position observation under token. Calling Start
// again with the same token while running is a no-op; a different token
// tears down the old watch first. No source or no token makes Start a
// no-op rather than an error.
func (r *Reporter) Start(token string) {
	if token == "" || r.src == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		if r.token == token {
			return
		}
		r.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.token = token
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
}

// Stop cancels the position subscription immediately. Idempotent; safe
// when never started.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Running reports whether a watch is active.
func (r *Reporter) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Reporter) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.token = ""
}

func (r *Reporter) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// Immediate fix so the pool scopes to a fresh position right away,
	// without waiting for the first watch callback.
	fixCtx, cancel := context.WithTimeout(ctx, r.opts.FixTimeout)
	sample, err := r.src.Current(fixCtx)
	cancel()
	if err != nil {
		r.log.Warn().Err(err).Msg("initial location fix failed")
	} else {
		r.forward(ctx, sample)
	}

	samples, err := r.src.Watch(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("location watch unavailable")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-samples:
			if !ok {
				return
			}
			r.forward(ctx, sample)
		}
	}
}

// forward pushes one fix to the remote endpoint, fire-and-forget. A failed
// update never stops subsequent fixes.
func (r *Reporter) forward(ctx context.Context, sample models.LocationSample) {
	if age := sample.Age(time.Now()); age > r.opts.MaxSampleAge {
		r.log.Debug().Dur("age", age).Msg("dropping stale location fix")
		return
	}

	body := map[string]float64{
		"latitude":  sample.Latitude,
		"longitude": sample.Longitude,
	}
	if err := r.api.post(ctx, "/location/update", body, nil); err != nil {
		r.log.Warn().Err(err).Msg("location update failed")
		return
	}

	r.log.Debug().
		Float64("latitude", sample.Latitude).
		Float64("longitude", sample.Longitude).
		Msg("location updated")
	r.bus.Publish(EventLocationUpdated)
}
