package client

import (
	"sync"

	"matchmaker_core/models"
	"matchmaker_core/storage"

	"github.com/rs/zerolog"
)

// Session holds the authenticated actor's credential and identity. It is the
// single owner of the bearer token and of the "who am I acting as" state;
// every other component reads through it.
type Session struct {
	mu        sync.Mutex
	token     string
	actor     models.Actor
	referrer  *models.Profile
	cache     *storage.Cache
	onExpired func()
	log       zerolog.Logger
}

// NewSession builds a session backed by an optional local cache. When a
// cache is supplied and holds a token from a previous run, it is adopted.
func NewSession(cache *storage.Cache, logger zerolog.Logger) *Session {
	s := &Session{cache: cache, log: logger}
	if cache != nil {
		s.token = cache.Token()
	}
	return s
}

// SetToken installs a bearer credential and persists it to the local cache.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.cache != nil {
		if err := s.cache.SetToken(token); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist token to cache")
		}
	}
}

// Token returns the current bearer credential, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Actor returns the session's actor, or nil before LoadSession succeeded.
func (s *Session) Actor() models.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

// Referrer returns the dater the server reports as currently represented,
// or nil for daters and unloaded sessions.
func (s *Session) Referrer() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.referrer
}

// Role returns the actor's role, or "" before the session is loaded.
func (s *Session) Role() models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actor == nil {
		return ""
	}
	return s.actor.ActorRole()
}

// OnExpired registers the handler invoked when the server reports an
// expired credential. The handler runs after local credentials are cleared
// and should route the user back to the entry surface.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = fn
}

// Reset clears all session state. Idempotent; safe when never loaded.
func (s *Session) Reset() {
	s.mu.Lock()
	s.token = ""
	s.actor = nil
	s.referrer = nil
	cache := s.cache
	s.mu.Unlock()

	if cache != nil {
		if err := cache.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear session cache")
		}
	}
}

// expire clears credentials and fires the expiry handler. Called by the
// transport on TOKEN_EXPIRED; the uniform failure contract every operation
// honors.
func (s *Session) expire() {
	s.mu.Lock()
	s.token = ""
	s.actor = nil
	s.referrer = nil
	handler := s.onExpired
	cache := s.cache
	s.mu.Unlock()

	if cache != nil {
		if err := cache.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear session cache")
		}
	}
	s.log.Info().Msg("session expired, credentials cleared")
	if handler != nil {
		handler()
	}
}

// adoptProfile installs the freshly fetched identity.
func (s *Session) adoptProfile(p models.SessionProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = models.ActorFromProfile(p.User)
	s.referrer = p.Referrer
}

// updateLinkedDaters attaches the linked set to a matchmaker actor.
func (s *Session) updateLinkedDaters(daters []models.Dater) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mm, ok := s.actor.(models.Matchmaker); ok {
		mm.LinkedDaters = daters
		s.actor = mm
	}
}

// setSelectedDater records the selection on the matchmaker actor and in the
// local cache. Caller has already validated membership.
func (s *Session) setSelectedDater(daterID string) {
	s.mu.Lock()
	if mm, ok := s.actor.(models.Matchmaker); ok {
		mm.SelectedDaterID = daterID
		s.actor = mm
	}
	cache := s.cache
	s.mu.Unlock()

	if cache != nil {
		if err := cache.SetSelectedDaterID(daterID); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist selected dater")
		}
	}
}

// cachedSelectedDater returns the locally persisted selection, or "".
func (s *Session) cachedSelectedDater() string {
	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()
	if cache == nil {
		return ""
	}
	return cache.SelectedDaterID()
}
