package guard

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/felixgeelhaar/courtdesk/internal/session"
)

// Outcome is what the guard tells the caller to do.
type Outcome int

const (
	Render Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "render"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "render":
		*o = Render
	case "redirect":
		*o = Redirect
	default:
		return fmt.Errorf("guard: unknown outcome %q", text)
	}
	return nil
}

// Reason explains a decision, for logs, metrics and the shell payload.
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonUnmatched       Reason = "unmatched"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong_role"
	ReasonGuestOnly       Reason = "guest_only"
)

// Decision is the result of evaluating a path against a session.
type Decision struct {
	Outcome Outcome           `json:"outcome"`
	Reason  Reason            `json:"reason"`
	Path    string            `json:"path"`
	Target  string            `json:"target,omitempty"`
	Route   *Route            `json:"route,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Rendered is shorthand for Outcome == Render.
func (d Decision) Rendered() bool {
	return d.Outcome == Render
}

func (d Decision) String() string {
	b, _ := json.Marshal(d)
	return string(b)
}

// Normalize reduces p to the canonical form routes are matched against:
// rooted, cleaned, without query, fragment or trailing slash.
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}

// Decide evaluates p against DefaultTable.
func Decide(snap session.Snapshot, p string) Decision {
	return DefaultTable.Decide(snap, p)
}

// Decide evaluates p against the table. It is pure and total: every input
// yields a decision and the redirect target is always a routable path.
func (t *Table) Decide(snap session.Snapshot, p string) Decision {
	p = Normalize(p)

	rt, params, ok := t.Match(p)
	if !ok {
		return redirect(p, LoginPath, ReasonUnmatched)
	}

	r, authed := snap.Role()
	switch rt.Access {
	case GuestOnly:
		if authed {
			return redirect(p, r.Home(), ReasonGuestOnly)
		}
	default:
		if !authed {
			return redirect(p, LoginPath, ReasonUnauthenticated)
		}
		if !rt.Allows(r) {
			return redirect(p, r.Home(), ReasonWrongRole)
		}
	}

	return Decision{
		Outcome: Render,
		Reason:  ReasonAllowed,
		Path:    p,
		Route:   &rt,
		Params:  params,
	}
}

func redirect(from, to string, reason Reason) Decision {
	return Decision{Outcome: Redirect, Reason: reason, Path: from, Target: to}
}
