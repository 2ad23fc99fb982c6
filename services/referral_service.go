package services

import (
	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// ReferralService exposes a matchmaker's linked daters and the selected
// dater switch.
type ReferralService struct {
	Store *Store
	Log   zerolog.Logger
}

// LinkedDaters returns the daters linked to a matchmaker, in link order.
func (s *ReferralService) LinkedDaters(matchmakerID string) ([]models.Dater, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(matchmakerID)
	if !ok {
		return nil, errNotFound("User not found")
	}
	if user.Role != models.RoleMatchmaker {
		return nil, errForbidden("Only matchmakers have linked daters")
	}

	linked := []models.Dater{}
	for _, id := range s.Store.links[matchmakerID] {
		d, ok := s.Store.user(id)
		if !ok {
			continue
		}
		linked = append(linked, models.Dater{ID: d.ID, FirstName: d.FirstName, FirstImage: d.FirstImage})
	}
	return linked, nil
}

// SetSelectedDater switches the matchmaker's acting context to daterID.
// The dater must be in the matchmaker's linked set.
func (s *ReferralService) SetSelectedDater(matchmakerID, daterID string) error {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(matchmakerID)
	if !ok {
		return errNotFound("User not found")
	}
	if user.Role != models.RoleMatchmaker {
		return errForbidden("Only matchmakers select daters")
	}

	for _, id := range s.Store.links[matchmakerID] {
		if id == daterID {
			s.Store.selected[matchmakerID] = daterID
			s.Log.Info().Str("matchmakerId", matchmakerID).Str("daterId", daterID).Msg("selected dater changed")
			return nil
		}
	}
	return errBadRequest("Dater is not linked to this matchmaker")
}
