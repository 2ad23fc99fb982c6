package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// Conversation is the per-match conversation gate. While the match is
// pending approval, a matchmaker may only send until the message quota is
// spent; daters are never quota-bound. All quota accounting
// comes from the server: every successful send refreshes the gating fields
// from the response instead of incrementing locally.
type Conversation struct {
	api     *API
	session *Session
	matches *Matches
	matchID string
	log     zerolog.Logger

	mu       sync.Mutex
	messages []models.Message
	match    *models.Match
	seq      uint64
	applied  uint64
}

func newConversation(api *API, session *Session, matches *Matches, matchID string, logger zerolog.Logger) *Conversation {
	c := &Conversation{
		api:     api,
		session: session,
		matches: matches,
		matchID: matchID,
		log:     logger.With().Str("matchId", matchID).Logger(),
	}
	if matches != nil {
		matches.mu.Lock()
		if seed, ok := findMatch(matches.matched, matches.pending, matchID); ok {
			c.match = &seed
		}
		matches.mu.Unlock()
	}
	return c
}

// MatchID returns the match this conversation belongs to.
func (c *Conversation) MatchID() string { return c.matchID }

// Refresh loads the message history and current gating state.
func (c *Conversation) Refresh(ctx context.Context) error {
	var page models.ConversationPage
	if err := c.api.get(ctx, "/conversation/"+c.matchID, &page); err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	c.mu.Lock()
	c.messages = page.Messages
	if page.Match != nil {
		c.match = page.Match
	}
	c.mu.Unlock()

	if page.Match != nil && c.matches != nil {
		c.matches.adopt(*page.Match)
	}
	return nil
}

// Messages returns the server-ordered message history.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.messages...)
}

// Match returns the last authoritative match state seen, or nil.
func (c *Conversation) Match() *models.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.match == nil {
		return nil
	}
	copied := *c.match
	return &copied
}

// Gated reports whether the quota/approval workflow applies. The status
// field is the only discriminant; message_count presence is never used as
// a signal.
func (c *Conversation) Gated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gatedLocked()
}

func (c *Conversation) gatedLocked() bool {
	return c.match != nil && c.match.Status == models.MatchStatusPendingApproval
}

// CanSend reports whether the acting actor may send right now. Daters are
// never quota-bound; matchmakers are blocked at the quota until approval.
func (c *Conversation) CanSend() bool {
	if c.session.Role() != models.RoleMatchmaker {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.gatedLocked() {
		return true
	}
	return c.match.MessageCount < models.MessageQuota
}

// Send posts a message carrying text, a puzzle, or both. Empty payloads and
// quota violations are rejected before any network call. On success the
// message list and gating fields are replaced with the server's response;
// when sends race, the last response observed wins.
func (c *Conversation) Send(ctx context.Context, text string, puzzle *models.Puzzle) error {
	text = strings.TrimSpace(text)
	if text == "" && puzzle == nil {
		return ErrEmptyMessage
	}
	if !c.CanSend() {
		return ErrMessageQuotaReached
	}

	body := map[string]string{}
	if text != "" {
		body["message"] = text
	}
	if puzzle != nil {
		body["puzzle_type"] = puzzle.Type
		body["puzzle_link"] = puzzle.Link
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	var page models.ConversationPage
	if err := c.api.post(ctx, "/conversation/"+c.matchID, body, &page); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.mu.Lock()
	if seq > c.applied {
		c.applied = seq
		c.messages = page.Messages
		if page.Match != nil {
			c.match = page.Match
		}
	}
	c.mu.Unlock()

	if page.Match != nil && c.matches != nil {
		c.matches.adopt(*page.Match)
	}
	return nil
}

// Approve records this side's approval. The response's status and
// waiting_for_other_approval fields are authoritative: the transition to
// active is complete only when the server says so.
func (c *Conversation) Approve(ctx context.Context) error {
	var result models.ApprovalResult
	if err := c.api.post(ctx, "/match/approve/"+c.matchID, nil, &result); err != nil {
		return fmt.Errorf("failed to approve match: %w", err)
	}

	c.mu.Lock()
	var updated *models.Match
	if c.match != nil {
		c.match.Status = result.Status
		c.match.WaitingForOtherApproval = result.WaitingForOtherApproval
		copied := *c.match
		updated = &copied
	}
	c.mu.Unlock()

	c.log.Info().
		Str("status", result.Status).
		Bool("waitingForOther", result.WaitingForOtherApproval).
		Msg("approval recorded")

	if updated != nil && c.matches != nil {
		c.matches.adopt(*updated)
	}
	return nil
}
