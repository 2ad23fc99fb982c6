package services

import (
	"time"

	"matchmaker_core/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConversationService reads and appends match conversations, enforcing the
// pre-approval message quota for matchmaker senders.
type ConversationService struct {
	Store   *Store
	Matches *MatchService
	Log     zerolog.Logger
}

// Get returns the conversation for a match the actor is a party to.
func (s *ConversationService) Get(userID, matchID string) (models.ConversationPage, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	rec, ok := s.Store.matches[matchID]
	if !ok {
		return models.ConversationPage{}, errNotFound("Match not found")
	}
	if _, serr := s.Matches.partySideLocked(userID, rec); serr != nil {
		return models.ConversationPage{}, serr
	}

	return s.pageLocked(userID, rec), nil
}

// Post appends a message to the conversation. A matchmaker may send at most
// models.MessageQuota messages while the match is pending approval; only
// messages a matchmaker sends advance the quota counter. Daters are never
// quota-bound, even when their side is mediated.
func (s *ConversationService) Post(userID, matchID, text string, puzzle *models.Puzzle) (models.ConversationPage, error) {
	if text == "" && puzzle == nil {
		return models.ConversationPage{}, errBadRequest("Message text is required")
	}

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return models.ConversationPage{}, errNotFound("User not found")
	}
	rec, ok := s.Store.matches[matchID]
	if !ok {
		return models.ConversationPage{}, errNotFound("Match not found")
	}
	side, serr := s.Matches.partySideLocked(userID, rec)
	if serr != nil {
		return models.ConversationPage{}, serr
	}

	matchmakerSender := user.Role == models.RoleMatchmaker
	if matchmakerSender &&
		rec.Status == models.MatchStatusPendingApproval &&
		rec.MessageCount >= models.MessageQuota {
		return models.ConversationPage{}, errQuotaReached()
	}

	msg := models.Message{
		ID:        uuid.New().String(),
		MatchID:   matchID,
		SenderID:  side,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if puzzle != nil {
		msg.PuzzleType = puzzle.Type
		msg.PuzzleLink = puzzle.Link
	}
	s.Store.conversations[matchID] = append(s.Store.conversations[matchID], msg)
	if matchmakerSender {
		rec.MessageCount++
	}

	s.Log.Debug().Str("matchId", matchID).Int("messageCount", rec.MessageCount).Msg("message stored")
	return s.pageLocked(userID, rec), nil
}

func (s *ConversationService) pageLocked(userID string, rec *matchRecord) models.ConversationPage {
	messages := s.Store.conversations[rec.ID]
	out := make([]models.Message, len(messages))
	copy(out, messages)

	view := s.Matches.viewForLocked(userID, rec)
	return models.ConversationPage{
		MatchID:  rec.ID,
		Messages: out,
		Match:    &view,
	}
}
