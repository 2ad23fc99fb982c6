package models

// Role discriminates the two account kinds.
type Role string

const (
	RoleDater      Role = "user"
	RoleMatchmaker Role = "matchmaker"
)

// Actor is the acting account behind a session. Role-specific fields live
// only on the concrete variant, so dater code can never touch a linked-dater
// list that does not exist.
type Actor interface {
	ActorID() string
	ActorRole() Role
}

// Dater is an end user seeking matches directly.
type Dater struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	FirstImage string `json:"first_image,omitempty"`
}

func (d Dater) ActorID() string { return d.ID }
func (d Dater) ActorRole() Role { return RoleDater }

// Matchmaker represents one or more linked daters and mediates on their
// behalf. SelectedDaterID is the current acting context and must be a member
// of LinkedDaters (or empty).
type Matchmaker struct {
	ID              string  `json:"id"`
	FirstName       string  `json:"first_name"`
	FirstImage      string  `json:"first_image,omitempty"`
	LinkedDaters    []Dater `json:"linked_daters,omitempty"`
	SelectedDaterID string  `json:"selected_dater_id,omitempty"`
}

func (m Matchmaker) ActorID() string { return m.ID }
func (m Matchmaker) ActorRole() Role { return RoleMatchmaker }

// HasLinkedDater reports whether id is in the matchmaker's linked set.
func (m Matchmaker) HasLinkedDater(id string) bool {
	for _, d := range m.LinkedDaters {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Profile is the wire form of an account as returned by GET /profile/.
type Profile struct {
	ID              string `json:"id"`
	Role            Role   `json:"role"`
	FirstName       string `json:"first_name"`
	FirstImage      string `json:"first_image,omitempty"`
	SelectedDaterID string `json:"selected_dater_id,omitempty"`
}

// SessionProfile is the full GET /profile/ response: the session's own
// account plus, for matchmakers, the dater currently being represented.
type SessionProfile struct {
	User     Profile  `json:"user"`
	Referrer *Profile `json:"referrer,omitempty"`
}

// ActorFromProfile narrows a wire profile into the right Actor variant.
func ActorFromProfile(p Profile) Actor {
	if p.Role == RoleMatchmaker {
		return Matchmaker{
			ID:              p.ID,
			FirstName:       p.FirstName,
			FirstImage:      p.FirstImage,
			SelectedDaterID: p.SelectedDaterID,
		}
	}
	return Dater{ID: p.ID, FirstName: p.FirstName, FirstImage: p.FirstImage}
}
