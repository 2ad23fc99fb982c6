package services

import (
	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// MatchService owns the match relationship state machine: likes, blind
// matches, notes, visibility, approval, and the candidate pool.
type MatchService struct {
	Store *Store
	Log   zerolog.Logger
}

// actingDaterLocked resolves the dater context an actor operates as: a
// dater acts as themself, a matchmaker as their selected linked dater
// (falling back to the first linked one). Caller holds the store lock.
func (s *MatchService) actingDaterLocked(userID string) (string, *Error) {
	user, ok := s.Store.user(userID)
	if !ok {
		return "", errNotFound("User not found")
	}
	if user.Role == models.RoleDater {
		return userID, nil
	}

	if selected := s.Store.selected[userID]; selected != "" {
		return selected, nil
	}
	if linked := s.Store.links[userID]; len(linked) > 0 {
		return linked[0], nil
	}
	return "", errBadRequest("No linked dater selected")
}

// Candidates assembles the pool for the actor's current context: every
// dater except the actor, the acting dater, anyone already mutually
// matched, and (for daters) anyone already liked. A matchmaker still
// sees candidates the linked dater liked one-sidedly, flagged so the
// blind path is disabled for them.
func (s *MatchService) Candidates(userID string) ([]models.Candidate, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return nil, errNotFound("User not found")
	}
	acting, serr := s.actingDaterLocked(userID)
	if serr != nil {
		return nil, serr
	}

	candidates := []models.Candidate{}
	for _, id := range s.Store.userOrder {
		other := s.Store.users[id]
		if other.Role != models.RoleDater || id == userID || id == acting {
			continue
		}

		rec := s.Store.pairRecord(acting, id)
		if rec != nil && rec.Mutual {
			continue
		}

		likedByActing := rec != nil && rec.LikedBy[acting]
		if likedByActing && user.Role == models.RoleDater {
			// Already decided; nothing left to do with this one.
			continue
		}

		c := models.Candidate{
			ID:                  id,
			FirstName:           other.FirstName,
			FirstImage:          other.FirstImage,
			AIScore:             other.AIScore,
			LikedLinkedDater:    likedByActing && user.Role == models.RoleMatchmaker,
			MatchedByMatchmaker: rec != nil && len(rec.MediatedBy) > 0,
		}
		if rec != nil && rec.LikedBy[id] {
			c.Note = rec.Note
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Like records a like from the acting dater toward likedID. When the likes
// cross, the pair becomes a mutual match: active/Revealed for a direct
// pair, pending_approval when any matchmaker mediated.
func (s *MatchService) Like(userID, likedID string) error {
	return s.like(userID, likedID, "")
}

// SendNote is a like that carries a note; the note must be non-empty.
func (s *MatchService) SendNote(userID, recipientID, note string) error {
	if note == "" {
		return errBadRequest("recipient_id and note are required")
	}
	return s.like(userID, recipientID, note)
}

func (s *MatchService) like(userID, targetID, note string) error {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return errNotFound("User not found")
	}
	target, ok := s.Store.user(targetID)
	if !ok || target.Role != models.RoleDater {
		return errBadRequest("Invalid target")
	}
	acting, serr := s.actingDaterLocked(userID)
	if serr != nil {
		return serr
	}
	if acting == targetID {
		return errBadRequest("Cannot like the represented dater")
	}

	rec := s.Store.pairRecord(acting, targetID)
	if rec == nil {
		rec = newMatchRecord(acting, targetID)
		s.Store.matches[rec.ID] = rec
	}
	rec.LikedBy[acting] = true
	if note != "" {
		rec.Note = note
	}
	if user.Role == models.RoleMatchmaker {
		rec.MediatedBy[acting] = userID
	}

	if !rec.Mutual && rec.LikedBy[rec.User1] && rec.LikedBy[rec.User2] {
		s.finalizeLocked(rec)
	}
	return nil
}

// BlindMatch creates an immediate mutual match between the acting dater
// and likedID with the counterpart identity hidden. Matchmaker-only;
// rejected when the linked dater already liked the target (that path is a
// plain like).
func (s *MatchService) BlindMatch(userID, likedID string) error {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return errNotFound("User not found")
	}
	if user.Role != models.RoleMatchmaker {
		return errForbidden("Only matchmakers can perform blind matches")
	}
	if _, ok := s.Store.user(likedID); !ok {
		return errBadRequest("liked_user_id is required")
	}
	acting, serr := s.actingDaterLocked(userID)
	if serr != nil {
		return serr
	}

	rec := s.Store.pairRecord(acting, likedID)
	if rec != nil && rec.LikedBy[acting] {
		return errBadRequest("Linked dater already liked this user")
	}
	if rec == nil {
		rec = newMatchRecord(acting, likedID)
		s.Store.matches[rec.ID] = rec
	}
	rec.LikedBy[acting] = true
	rec.LikedBy[likedID] = true
	rec.MediatedBy[acting] = userID
	rec.Blind = true
	s.finalizeLocked(rec)

	s.Log.Info().Str("matchId", rec.ID).Str("matchmakerId", userID).Msg("blind match created")
	return nil
}

// finalizeLocked promotes a record to a mutual match. Mediated matches
// start gated; direct ones are active immediately.
func (s *MatchService) finalizeLocked(rec *matchRecord) {
	rec.Mutual = true
	if len(rec.MediatedBy) > 0 {
		rec.Status = models.MatchStatusPendingApproval
	} else {
		rec.Status = models.MatchStatusActive
	}
}

// Matches returns the actor's partitioned match list. A matchmaker sees
// the matches they mediated for the acting dater; a dater sees all of
// their own.
func (s *MatchService) Matches(userID string) (models.MatchList, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	list := models.MatchList{Matched: []models.Match{}, PendingApproval: []models.Match{}}

	user, ok := s.Store.user(userID)
	if !ok {
		return list, errNotFound("User not found")
	}

	scope := userID
	if user.Role == models.RoleMatchmaker {
		acting, serr := s.actingDaterLocked(userID)
		if serr != nil {
			return list, serr
		}
		scope = acting
	}

	for _, rec := range s.Store.matches {
		if !rec.Mutual || !rec.involves(scope) {
			continue
		}
		if user.Role == models.RoleMatchmaker && rec.MediatedBy[scope] != userID {
			continue
		}
		view := s.viewForLocked(userID, rec)
		if view.Status == models.MatchStatusPendingApproval {
			list.PendingApproval = append(list.PendingApproval, view)
		} else {
			list.Matched = append(list.Matched, view)
		}
	}
	return list, nil
}

// Unmatch removes a match for good. Either party may do it; there is no
// resurrection.
func (s *MatchService) Unmatch(userID, matchID string) error {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	rec, ok := s.Store.matches[matchID]
	if !ok {
		return errNotFound("Match not found")
	}
	if _, serr := s.partySideLocked(userID, rec); serr != nil {
		return serr
	}

	delete(s.Store.matches, matchID)
	delete(s.Store.conversations, matchID)
	return nil
}

// Reveal flips a blind match to Revealed; already-revealed is a no-op
// success. Matchmaker parties only.
func (s *MatchService) Reveal(userID, matchID string) (models.Match, error) {
	return s.setVisibility(userID, matchID, false)
}

// Hide flips a revealed match back to Blind; already-blind is a no-op
// success. Matchmaker parties only.
func (s *MatchService) Hide(userID, matchID string) (models.Match, error) {
	return s.setVisibility(userID, matchID, true)
}

func (s *MatchService) setVisibility(userID, matchID string, blind bool) (models.Match, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	rec, ok := s.Store.matches[matchID]
	if !ok {
		return models.Match{}, errNotFound("Match not found")
	}
	if !s.mediatesLocked(userID, rec) {
		return models.Match{}, errForbidden("Only a matchmaker party may change visibility")
	}

	rec.Blind = blind
	return s.viewForLocked(userID, rec), nil
}

// Approve records the calling side's approval. Once both sides have
// approved, the match becomes active; the transition is one-way.
func (s *MatchService) Approve(userID, matchID string) (models.ApprovalResult, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	rec, ok := s.Store.matches[matchID]
	if !ok {
		return models.ApprovalResult{}, errNotFound("Match not found")
	}
	side, serr := s.partySideLocked(userID, rec)
	if serr != nil {
		return models.ApprovalResult{}, serr
	}

	if rec.Status == models.MatchStatusPendingApproval {
		rec.ApprovedBy[side] = true
		if rec.ApprovedBy[rec.User1] && rec.ApprovedBy[rec.User2] {
			rec.Status = models.MatchStatusActive
		}
	}

	return models.ApprovalResult{
		Status:                  rec.Status,
		WaitingForOtherApproval: rec.Status == models.MatchStatusPendingApproval && rec.ApprovedBy[side],
	}, nil
}

// partySideLocked returns the dater side the actor belongs to: the dater
// themself, or the side a matchmaker mediates.
func (s *MatchService) partySideLocked(userID string, rec *matchRecord) (string, *Error) {
	if rec.involves(userID) {
		return userID, nil
	}
	for side, mm := range rec.MediatedBy {
		if mm == userID {
			return side, nil
		}
	}
	return "", errForbidden("Unauthorized")
}

func (s *MatchService) mediatesLocked(userID string, rec *matchRecord) bool {
	for _, mm := range rec.MediatedBy {
		if mm == userID {
			return true
		}
	}
	return false
}

// viewForLocked projects a record into one party's wire view.
func (s *MatchService) viewForLocked(viewerID string, rec *matchRecord) models.Match {
	side, serr := s.partySideLocked(viewerID, rec)
	if serr != nil {
		side = rec.User1
	}
	other := rec.otherSide(side)

	view := models.Match{
		MatchID:                 rec.ID,
		MatchUser:               s.daterProfileLocked(other),
		Status:                  rec.Status,
		MessageCount:            rec.MessageCount,
		User1MatchmakerInvolved: rec.MediatedBy[rec.User1] != "",
		User2MatchmakerInvolved: rec.MediatedBy[rec.User2] != "",
		WaitingForOtherApproval: rec.Status == models.MatchStatusPendingApproval &&
			rec.ApprovedBy[side] && !rec.ApprovedBy[other],
	}
	view.BothMatchmakersInvolved = view.User1MatchmakerInvolved && view.User2MatchmakerInvolved

	if rec.Blind {
		view.BlindMatch = models.BlindMatchBlind
	} else {
		view.BlindMatch = models.BlindMatchRevealed
	}

	viewer, _ := s.Store.user(viewerID)
	if viewer != nil && viewer.Role == models.RoleMatchmaker {
		linked := s.daterProfileLocked(side)
		view.LinkedDater = &linked
	} else if len(rec.MediatedBy) > 0 {
		linked := s.daterProfileLocked(other)
		view.LinkedDater = &linked
	}
	return view
}

func (s *MatchService) daterProfileLocked(id string) models.Dater {
	u, ok := s.Store.user(id)
	if !ok {
		return models.Dater{ID: id}
	}
	return models.Dater{ID: u.ID, FirstName: u.FirstName, FirstImage: u.FirstImage}
}
