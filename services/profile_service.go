package services

import (
	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// ProfileService serves the session profile and accepts location reports.
type ProfileService struct {
	Store *Store
	Log   zerolog.Logger
}

// SessionProfile returns the actor's own profile plus, for matchmakers,
// the dater currently being represented.
func (s *ProfileService) SessionProfile(userID string) (models.SessionProfile, error) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return models.SessionProfile{}, errNotFound("User not found")
	}

	profile := models.SessionProfile{
		User: models.Profile{
			ID:         user.ID,
			Role:       user.Role,
			FirstName:  user.FirstName,
			FirstImage: user.FirstImage,
		},
	}
	if user.Role != models.RoleMatchmaker {
		return profile, nil
	}

	selected := s.Store.selected[userID]
	if selected == "" {
		if linked := s.Store.links[userID]; len(linked) > 0 {
			selected = linked[0]
		}
	}
	profile.User.SelectedDaterID = selected
	if d, ok := s.Store.user(selected); ok {
		profile.Referrer = &models.Profile{
			ID:         d.ID,
			Role:       d.Role,
			FirstName:  d.FirstName,
			FirstImage: d.FirstImage,
		}
	}
	return profile, nil
}

// UpdateLocation stores the actor's latest position fix.
func (s *ProfileService) UpdateLocation(userID string, latitude, longitude float64) error {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()

	user, ok := s.Store.user(userID)
	if !ok {
		return errNotFound("User not found")
	}
	user.Latitude = latitude
	user.Longitude = longitude
	user.HasLocation = true

	s.Log.Debug().Str("userId", userID).Float64("lat", latitude).Float64("lng", longitude).Msg("location updated")
	return nil
}
