// Package role defines the three portals a user can belong to.
package role

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

// Role identifies which portal a user belongs to. The zero value is invalid.
type Role int

const (
	Public Role = iota + 1
	Advocate
	Court
)

// All returns every valid role in display order.
func All() []Role {
	return []Role{Public, Advocate, Court}
}

// Parse converts a wire value into a Role. Matching is case-insensitive.
func Parse(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "advocate":
		return Advocate, nil
	case "court":
		return Court, nil
	default:
		return 0, errors.NewRoleUnknownError(s)
	}
}

// MustParse is Parse for static tables; it panics on unknown input.
func MustParse(s string) Role {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case Public, Advocate, Court:
		return true
	default:
		return false
	}
}

// String returns the wire value ("public", "advocate", "court").
func (r Role) String() string {
	switch r {
	case Public:
		return "public"
	case Advocate:
		return "advocate"
	case Court:
		return "court"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Prefix returns the URL prefix of the role's portal.
func (r Role) Prefix() string {
	if !r.Valid() {
		return ""
	}
	return "/" + r.String()
}

// Home is the landing path after login. It is the portal prefix.
func (r Role) Home() string {
	return r.Prefix()
}

// Label is the human-readable portal name shown in headers.
func (r Role) Label() string {
	switch r {
	case Public:
		return "Public Portal"
	case Advocate:
		return "Advocate Portal"
	case Court:
		return "Court Portal"
	default:
		return "Unknown Portal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.NewRoleUnknownError(r.String())
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
