package services

import (
	"errors"
	"sync"
	"time"

	"matchmaker_core/models"

	"github.com/google/uuid"
)

// ErrTokenExpired is returned by ResolveToken for unknown or expired
// credentials. The HTTP layer turns it into the distinguished expiry code.
var ErrTokenExpired = errors.New("token expired")

// User is a stored account.
type User struct {
	ID         string
	Role       models.Role
	FirstName  string
	FirstImage string
	AIScore    *int // optional compatibility score surfaced on candidates

	Latitude    float64
	Longitude   float64
	HasLocation bool
}

// matchRecord is the authoritative state of one pairing between two daters.
// It starts as a one-sided like and becomes a mutual match once both sides
// (or a blind match) cross.
type matchRecord struct {
	ID     string
	User1  string
	User2  string
	Note   string
	Blind  bool
	Mutual bool
	Status string // set once Mutual

	LikedBy map[string]bool
	// MediatedBy maps a dater side to the matchmaker that acted for it.
	MediatedBy map[string]string
	// ApprovedBy maps a dater side to whether that side approved.
	ApprovedBy map[string]bool
	// MessageCount counts messages sent by matchmaker accounts; retained
	// after approval.
	MessageCount int

	CreatedAt time.Time
}

func (r *matchRecord) involves(daterID string) bool {
	return r.User1 == daterID || r.User2 == daterID
}

func (r *matchRecord) otherSide(daterID string) string {
	if r.User1 == daterID {
		return r.User2
	}
	return r.User1
}

type token struct {
	UserID    string
	ExpiresAt time.Time
}

// Store is the in-memory source of truth behind every service. It fills
// the slot a remote database would in production; the API contract on top
// of it is what the SDK consumes.
type Store struct {
	mu sync.RWMutex

	users         map[string]*User
	userOrder     []string
	tokens        map[string]token
	matches       map[string]*matchRecord
	conversations map[string][]models.Message // keyed by match id
	links         map[string][]string         // matchmaker id -> linked dater ids
	selected      map[string]string           // matchmaker id -> selected dater id
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*User),
		tokens:        make(map[string]token),
		matches:       make(map[string]*matchRecord),
		conversations: make(map[string][]models.Message),
		links:         make(map[string][]string),
		selected:      make(map[string]string),
	}
}

// AddUser registers an account and returns its id.
func (s *Store) AddUser(u User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	s.users[u.ID] = &u
	s.userOrder = append(s.userOrder, u.ID)
	return u.ID
}

// IssueToken mints a bearer token for userID valid for ttl.
func (s *Store) IssueToken(userID string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := uuid.New().String()
	s.tokens[t] = token{UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	return t
}

// ResolveToken maps a bearer token to its user, rejecting unknown and
// expired credentials alike.
func (s *Store) ResolveToken(tok string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.tokens[tok]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return "", ErrTokenExpired
	}
	return entry.UserID, nil
}

// ExpireToken force-expires a token. Test and logout hook.
func (s *Store) ExpireToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tok)
}

// LinkDater attaches a dater to a matchmaker's linked set. At most ten
// daters may be linked.
func (s *Store) LinkDater(matchmakerID, daterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	linked := s.links[matchmakerID]
	for _, id := range linked {
		if id == daterID {
			return errBadRequest("Dater already linked")
		}
	}
	if len(linked) >= 10 {
		return errBadRequest("Maximum of 10 linked daters reached")
	}
	s.links[matchmakerID] = append(linked, daterID)
	return nil
}

func (s *Store) user(id string) (*User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// pairKeyed finds the record joining two daters, in either order.
func (s *Store) pairRecord(a, b string) *matchRecord {
	for _, rec := range s.matches {
		if (rec.User1 == a && rec.User2 == b) || (rec.User1 == b && rec.User2 == a) {
			return rec
		}
	}
	return nil
}

func newMatchRecord(user1, user2 string) *matchRecord {
	return &matchRecord{
		ID:         uuid.New().String(),
		User1:      user1,
		User2:      user2,
		LikedBy:    make(map[string]bool),
		MediatedBy: make(map[string]string),
		ApprovedBy: make(map[string]bool),
		CreatedAt:  time.Now(),
	}
}
