package session

import (
	"github.com/felixgeelhaar/courtdesk/internal/role"
)

// User is the signed-in account as returned by the backend. Role-specific
// fields are only populated for the matching role.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      role.Role `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`

	// Public
	CitizenID string `json:"citizenId,omitempty"`

	// Advocate
	BarCouncilID   string  `json:"barCouncilId,omitempty"`
	Specialization string  `json:"specialization,omitempty"`
	Experience     string  `json:"experience,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	ActiveCases    int     `json:"activeCases,omitempty"`

	// Court
	CourtName string `json:"courtName,omitempty"`
}

// Clone returns a copy that callers may mutate freely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// DisplayName returns the name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	User  *User  `json:"user"`
	Token string `json:"-"`
}

// IsAuthenticated is true iff both a user and a token are present.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Role returns the signed-in user's role.
func (s Snapshot) Role() (role.Role, bool) {
	if !s.IsAuthenticated() {
		return 0, false
	}
	return s.User.Role, true
}
