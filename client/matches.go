package client

import (
	"context"
	"fmt"
	"sync"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// Matches is the client half of the match relationship engine: the local
// view of the actor's matches, kept consistent with the server by adopting
// the updated entity each mutation returns.
type Matches struct {
	api     *API
	session *Session
	log     zerolog.Logger

	mu      sync.Mutex
	matched []models.Match
	pending []models.Match
}

func NewMatches(api *API, session *Session, bus *Bus, logger zerolog.Logger) *Matches {
	m := &Matches{api: api, session: session, log: logger}
	// The match list is keyed to the represented dater; a context switch
	// re-scopes it.
	bus.Subscribe(EventContextChanged, func() { go m.reload() })
	return m
}

// Refresh fetches the partitioned match list.
func (m *Matches) Refresh(ctx context.Context) error {
	var list models.MatchList
	if err := m.api.get(ctx, "/match/matches", &list); err != nil {
		return fmt.Errorf("failed to fetch matches: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.matched = list.Matched
	m.pending = list.PendingApproval
	return nil
}

func (m *Matches) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := m.Refresh(ctx); err != nil {
		m.log.Warn().Err(err).Msg("match list refresh failed")
	}
}

// Matched returns the active matches.
func (m *Matches) Matched() []models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Match(nil), m.matched...)
}

// PendingApproval returns the matches still gated behind approval.
func (m *Matches) PendingApproval() []models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Match(nil), m.pending...)
}

// Empty reports whether the actor has no matches at all. A dater with zero
// matches sees neither partition's toggle.
func (m *Matches) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matched) == 0 && len(m.pending) == 0
}

// Partition splits a dater's matches for the view toggle: direct matches
// (no matchmaker involvement, no linked dater) when direct is true,
// matchmaker-mediated ones otherwise. Exactly one partition is shown at a
// time.
func (m *Matches) Partition(direct bool) []models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Match
	for _, match := range m.matched {
		if match.Direct() == direct {
			out = append(out, match)
		}
	}
	for _, match := range m.pending {
		if match.Direct() == direct {
			out = append(out, match)
		}
	}
	return out
}

// Unmatch removes the match for good. Terminal: on success it disappears
// from the local list immediately; on failure the list is left unchanged.
func (m *Matches) Unmatch(ctx context.Context, matchID string) error {
	if err := m.api.delete(ctx, "/match/unmatch/"+matchID); err != nil {
		return fmt.Errorf("failed to unmatch: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.matched = removeMatch(m.matched, matchID)
	m.pending = removeMatch(m.pending, matchID)
	return nil
}

// Reveal transitions a blind match to Revealed. Matchmaker-only; a match
// that is already Revealed is a successful no-op.
func (m *Matches) Reveal(ctx context.Context, matchID string) error {
	return m.setVisibility(ctx, matchID, models.BlindMatchRevealed, "/match/reveal/")
}

// Hide transitions a revealed match back to Blind. Matchmaker-only; a match
// that is already Blind is a successful no-op.
func (m *Matches) Hide(ctx context.Context, matchID string) error {
	return m.setVisibility(ctx, matchID, models.BlindMatchBlind, "/match/hide/")
}

func (m *Matches) setVisibility(ctx context.Context, matchID, target, path string) error {
	if m.session.Role() != models.RoleMatchmaker {
		return ErrNotMatchmaker
	}

	m.mu.Lock()
	current, ok := findMatch(m.matched, m.pending, matchID)
	m.mu.Unlock()
	if ok && current.BlindMatch == target {
		return nil
	}

	var updated models.Match
	if err := m.api.patch(ctx, path+matchID, &updated); err != nil {
		return fmt.Errorf("failed to update visibility: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.matched = replaceMatch(m.matched, updated)
	m.pending = replaceMatch(m.pending, updated)
	return nil
}

// adopt replaces the local copy of a match with the server's updated one,
// moving it between partitions when its status changed.
func (m *Matches) adopt(updated models.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, known := findMatch(m.matched, m.pending, updated.MatchID)
	if !known {
		return
	}
	m.matched = removeMatch(m.matched, updated.MatchID)
	m.pending = removeMatch(m.pending, updated.MatchID)
	if updated.Status == models.MatchStatusPendingApproval {
		m.pending = append(m.pending, updated)
	} else {
		m.matched = append(m.matched, updated)
	}
}

func findMatch(matched, pending []models.Match, matchID string) (models.Match, bool) {
	for _, m := range matched {
		if m.MatchID == matchID {
			return m, true
		}
	}
	for _, m := range pending {
		if m.MatchID == matchID {
			return m, true
		}
	}
	return models.Match{}, false
}

func removeMatch(list []models.Match, matchID string) []models.Match {
	out := list[:0]
	for _, m := range list {
		if m.MatchID != matchID {
			out = append(out, m)
		}
	}
	return out
}

func replaceMatch(list []models.Match, updated models.Match) []models.Match {
	for i, m := range list {
		if m.MatchID == updated.MatchID {
			list[i] = updated
		}
	}
	return list
}
