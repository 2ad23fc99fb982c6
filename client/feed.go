package client

import (
	"context"
	"fmt"
	"sync"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// Feed assembles the candidate pool for the current acting context and
// walks it with a cursor. The pool is server-ordered and preserved as
// returned; the cursor only ever moves forward, one step per decision,
// whether or not the decision's remote call succeeded.
type Feed struct {
	api *API
	log zerolog.Logger

	mu          sync.Mutex
	pool        []models.Candidate
	cursor      int
	generation  uint64
	cancelFetch context.CancelFunc
}

func NewFeed(api *API, bus *Bus, logger zerolog.Logger) *Feed {
	f := &Feed{api: api, log: logger}
	// A position or context change invalidates the pool: discard, refetch,
	// cursor back to zero. The fetch runs off the publisher's goroutine.
	bus.Subscribe(EventLocationUpdated, func() { go f.reload() })
	bus.Subscribe(EventContextChanged, func() { go f.reload() })
	return f
}

// LoadPool fetches the candidate pool and resets the cursor. If a newer
// load is issued while this one is in flight, the stale result is
// discarded instead of clobbering the fresh pool.
func (f *Feed) LoadPool(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	if f.cancelFetch != nil {
		f.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancelFetch = cancel
	f.mu.Unlock()

	var pool []models.Candidate
	err := f.api.get(fetchCtx, "/match/users_to_match", &pool)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// A newer load superseded this one; its result no longer applies.
		f.log.Debug().Msg("discarding stale candidate pool")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load candidate pool: %w", err)
	}
	f.pool = pool
	f.cursor = 0
	f.log.Debug().Int("candidates", len(pool)).Msg("candidate pool loaded")
	return nil
}

func (f *Feed) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := f.LoadPool(ctx); err != nil {
		f.log.Warn().Err(err).Msg("feed refresh failed")
	}
}

// Current returns the candidate under the cursor, or ErrNoMoreCandidates
// when the pool is exhausted.
func (f *Feed) Current() (models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor >= len(f.pool) {
		return models.Candidate{}, ErrNoMoreCandidates
	}
	return f.pool[f.cursor], nil
}

// Remaining returns how many candidates are left, including the current one.
func (f *Feed) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor >= len(f.pool) {
		return 0
	}
	return len(f.pool) - f.cursor
}

// Advance moves the cursor forward by one. It is the only cursor mutator.
// Returns ErrNoMoreCandidates once the pool is exhausted; never indexes out
// of bounds.
func (f *Feed) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor < len(f.pool) {
		f.cursor++
	}
	if f.cursor >= len(f.pool) {
		return ErrNoMoreCandidates
	}
	return nil
}

// Skip passes on the current candidate. Purely client-local.
func (f *Feed) Skip() error {
	if _, err := f.Current(); err != nil {
		return err
	}
	return f.Advance()
}

// Like records a like for the current candidate, then advances regardless
// of the remote outcome so the feed keeps moving. The remote failure, if
// any, is still reported.
func (f *Feed) Like(ctx context.Context) error {
	candidate, err := f.Current()
	if err != nil {
		return err
	}
	sendErr := f.api.post(ctx, "/match/like", map[string]string{"liked_user_id": candidate.ID}, nil)
	f.Advance()
	if sendErr != nil {
		return fmt.Errorf("like failed: %w", sendErr)
	}
	return nil
}

// BlindMatch creates a blind match between the acting dater and the current
// candidate. Matchmaker-only, and invalid when the linked dater already
// liked the candidate (that path is a plain like).
func (f *Feed) BlindMatch(ctx context.Context, role models.Role) error {
	if role != models.RoleMatchmaker {
		return ErrNotMatchmaker
	}
	candidate, err := f.Current()
	if err != nil {
		return err
	}
	if candidate.LikedLinkedDater {
		return fmt.Errorf("candidate already liked by the linked dater")
	}
	sendErr := f.api.post(ctx, "/match/blind_match", map[string]string{"liked_user_id": candidate.ID}, nil)
	f.Advance()
	if sendErr != nil {
		return fmt.Errorf("blind match failed: %w", sendErr)
	}
	return nil
}

// SendNote sends a note-carrying like to the current candidate. The note
// must be non-empty.
func (f *Feed) SendNote(ctx context.Context, note string) error {
	if note == "" {
		return ErrEmptyNote
	}
	candidate, err := f.Current()
	if err != nil {
		return err
	}
	body := map[string]string{"recipient_id": candidate.ID, "note": note}
	sendErr := f.api.post(ctx, "/match/send_note", body, nil)
	f.Advance()
	if sendErr != nil {
		return fmt.Errorf("send note failed: %w", sendErr)
	}
	return nil
}
