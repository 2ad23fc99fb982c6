package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource feeds scripted fixes to the reporter.
type stubSource struct {
	current models.LocationSample
	samples chan models.LocationSample
	watches atomic.Int64
}

func newStubSource() *stubSource {
	return &stubSource{
		current: models.LocationSample{Latitude: 40.0, Longitude: -73.9, CapturedAt: time.Now()},
		samples: make(chan models.LocationSample, 8),
	}
}

func (s *stubSource) Current(ctx context.Context) (models.LocationSample, error) {
	return s.current, nil
}

func (s *stubSource) Watch(ctx context.Context) (<-chan models.LocationSample, error) {
	s.watches.Add(1)
	return s.samples, nil
}

type reporterFixture struct {
	reporter *Reporter
	bus      *Bus
	src      *stubSource
	updates  atomic.Int64
	events   atomic.Int64
}

func newReporterFixture(t *testing.T) *reporterFixture {
	t.Helper()
	f := &reporterFixture{src: newStubSource()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/location/update" {
			f.updates.Add(1)
		}
		w.Write([]byte(`{"status":"updated"}`))
	}))
	t.Cleanup(server.Close)

	session := NewSession(nil, zerolog.Nop())
	api := NewAPI(server.URL, session, nil, zerolog.Nop())
	f.bus = NewBus()
	f.bus.Subscribe(EventLocationUpdated, func() { f.events.Add(1) })
	f.reporter = NewReporter(api, f.bus, f.src, ReporterOptions{MaxSampleAge: time.Minute}, zerolog.Nop())
	t.Cleanup(f.reporter.Stop)
	return f
}

func TestReporterForwardsFixesAndPublishes(t *testing.T) {
	f := newReporterFixture(t)
	f.reporter.Start("tok-1")

	// The immediate fix goes out before any watch callback.
	require.Eventually(t, func() bool { return f.updates.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return f.events.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	f.src.samples <- models.LocationSample{Latitude: 40.1, Longitude: -73.8, CapturedAt: time.Now()}
	require.Eventually(t, func() bool { return f.updates.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestReporterDropsStaleFixes(t *testing.T) {
	f := newReporterFixture(t)
	f.reporter.Start("tok-1")
	require.Eventually(t, func() bool { return f.updates.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	f.src.samples <- models.LocationSample{Latitude: 1, Longitude: 1, CapturedAt: time.Now().Add(-2 * time.Minute)}
	f.src.samples <- models.LocationSample{Latitude: 2, Longitude: 2, CapturedAt: time.Now()}

	require.Eventually(t, func() bool { return f.updates.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	// Only the fresh fix made it; the stale one was dropped, not delayed.
	assert.Equal(t, int64(2), f.updates.Load())
}

func TestStartIsIdempotentPerToken(t *testing.T) {
	f := newReporterFixture(t)
	f.reporter.Start("tok-1")
	require.Eventually(t, func() bool { return f.src.watches.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.reporter.Start("tok-1")
	f.reporter.Start("tok-1")
	assert.Equal(t, int64(1), f.src.watches.Load(), "same token must not spawn a second watch")
	assert.True(t, f.reporter.Running())
}

func TestStartWithNewTokenSwapsWatch(t *testing.T) {
	f := newReporterFixture(t)
	f.reporter.Start("tok-1")
	require.Eventually(t, func() bool { return f.src.watches.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.reporter.Start("tok-2")
	require.Eventually(t, func() bool { return f.src.watches.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, f.reporter.Running())
}

func TestStopIsIdempotent(t *testing.T) {
	f := newReporterFixture(t)

	// Never started.
	f.reporter.Stop()
	assert.False(t, f.reporter.Running())

	f.reporter.Start("tok-1")
	require.Eventually(t, func() bool { return f.reporter.Running() }, 2*time.Second, 10*time.Millisecond)

	f.reporter.Stop()
	assert.False(t, f.reporter.Running())
	f.reporter.Stop()
	assert.False(t, f.reporter.Running())
}

func TestStartNoopWithoutTokenOrSource(t *testing.T) {
	f := newReporterFixture(t)
	f.reporter.Start("")
	assert.False(t, f.reporter.Running())

	noSource := NewReporter(nil, NewBus(), nil, ReporterOptions{}, zerolog.Nop())
	noSource.Start("tok-1")
	assert.False(t, noSource.Running())
}
