package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/role"
	"github.com/felixgeelhaar/courtdesk/internal/session"
)

func signedIn(r role.Role) session.Snapshot {
	return session.Snapshot{User: &session.User{ID: 1, Name: "u", Role: r}, Token: "tok"}
}

var signedOut = session.Snapshot{}

type staticSource struct{ snap session.Snapshot }

func (s *staticSource) Snapshot() session.Snapshot { return s.snap }

func TestDecideScenarios(t *testing.T) {
	tests := []struct {
		name    string
		snap    session.Snapshot
		path    string
		outcome Outcome
		target  string
		reason  Reason
	}{
		{"court visiting advocate portal", signedIn(role.Court), "/advocate", Redirect, "/court", ReasonWrongRole},
		{"no session visiting hearings", signedOut, "/court/hearings", Redirect, "/login", ReasonUnauthenticated},
		{"public visiting login", signedIn(role.Public), "/login", Redirect, "/public", ReasonGuestOnly},
		{"guest visiting login", signedOut, "/login", Render, "", ReasonAllowed},
		{"advocate own page", signedIn(role.Advocate), "/advocate/evidence", Render, "", ReasonAllowed},
		{"court own index", signedIn(role.Court), "/court", Render, "", ReasonAllowed},
		{"public on court qr", signedIn(role.Public), "/court/qr", Redirect, "/public", ReasonWrongRole},
		{"root signed out", signedOut, "/", Redirect, "/login", ReasonUnmatched},
		{"root signed in", signedIn(role.Advocate), "/", Redirect, "/login", ReasonUnmatched},
		{"unknown path", signedIn(role.Court), "/nowhere", Redirect, "/login", ReasonUnmatched},
		{"unknown page in own portal", signedIn(role.Public), "/public/evidence", Redirect, "/login", ReasonUnmatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.snap, tt.path)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.target, d.Target)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

// Every route is checked against every session shape.
func TestDecideIsCorrectForEveryRoute(t *testing.T) {
	sessions := map[string]session.Snapshot{"signed out": signedOut}
	for _, r := range role.All() {
		sessions[r.String()] = signedIn(r)
	}

	for _, rt := range DefaultTable.Routes() {
		p := rt.Pattern
		if p == "/public/cases/{id}" || p == "/advocate/cases/{id}" || p == "/court/cases/{id}" {
			p = p[:len(p)-len("{id}")] + "CASE-2024-001"
		}

		for name, snap := range sessions {
			d := Decide(snap, p)
			r, authed := snap.Role()

			switch {
			case rt.Access == GuestOnly && authed:
				assert.Equal(t, r.Home(), d.Target, "%s on %s", name, p)
			case rt.Access == GuestOnly:
				assert.True(t, d.Rendered(), "%s on %s", name, p)
			case !authed:
				assert.Equal(t, LoginPath, d.Target, "%s on %s", name, p)
			case !rt.Allows(r):
				assert.Equal(t, r.Home(), d.Target, "%s on %s", name, p)
			default:
				require.True(t, d.Rendered(), "%s on %s", name, p)
				assert.Equal(t, rt.Pattern, d.Route.Pattern)
			}

			if d.Outcome == Redirect {
				_, _, ok := DefaultTable.Match(d.Target)
				assert.True(t, ok, "redirect target %s must be routable", d.Target)
			}
		}
	}
}

func TestEmptyRoleSetAdmitsAnySignedInRole(t *testing.T) {
	table := NewTable(
		Route{Pattern: LoginPath, Access: GuestOnly},
		Route{Pattern: "/help"},
	)

	for _, r := range role.All() {
		assert.True(t, table.Decide(signedIn(r), "/help").Rendered(), r.String())
	}
	assert.Equal(t, LoginPath, table.Decide(signedOut, "/help").Target)
}

func TestDecideParams(t *testing.T) {
	d := Decide(signedIn(role.Advocate), "/advocate/cases/CASE-2024-007")
	require.True(t, d.Rendered())
	assert.Equal(t, "/advocate/cases/{id}", d.Route.Pattern)
	assert.Equal(t, map[string]string{"id": "CASE-2024-007"}, d.Params)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                        "/",
		"/":                       "/",
		"court":                   "/court",
		"/court/":                 "/court",
		"/court//hearings":        "/court/hearings",
		"/court/../advocate":      "/advocate",
		"/court/hearings?day=mon": "/court/hearings",
		"/public/cases#timeline":  "/public/cases",
		"/advocate/cases/12/":     "/advocate/cases/12",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}

	d := Decide(signedIn(role.Court), "/court/hearings/")
	assert.True(t, d.Rendered())
	assert.Equal(t, "/court/hearings", d.Path)
}

func TestNewTablePanicsOnInvalidRole(t *testing.T) {
	assert.Panics(t, func() {
		NewTable(Route{Pattern: "/x", AllowedRoles: []role.Role{role.Role(42)}})
	})
}

func TestGuardReadsLiveSession(t *testing.T) {
	src := &staticSource{snap: signedIn(role.Advocate)}
	m := metrics.Noop()
	g := New(src, WithLogger(log.Discard()), WithMetrics(m))

	assert.True(t, g.Decide("/advocate/cases").Rendered())

	src.snap = signedOut
	d := g.Decide("/advocate/cases")
	assert.Equal(t, LoginPath, d.Target)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues("render", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues("redirect", "unauthenticated")))
}

func TestMiddleware(t *testing.T) {
	src := &staticSource{snap: signedIn(role.Court)}
	g := New(src, WithLogger(log.Discard()))

	var seen Decision
	h := g.Middleware("/app", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := DecisionFromContext(r.Context())
		require.True(t, ok)
		seen = d
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("render", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/court/cases/42", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42", seen.Params["id"])
	})

	t.Run("wrong role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/advocate", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/app/court", rec.Header().Get("Location"))
	})

	t.Run("signed out", func(t *testing.T) {
		src.snap = signedOut
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/court/hearings", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/app/login", rec.Header().Get("Location"))
	})
}

func TestDecisionJSON(t *testing.T) {
	d := Decide(signedIn(role.Public), "/login")
	assert.JSONEq(t, `{"outcome":"redirect","reason":"guest_only","path":"/login","target":"/public"}`, d.String())
}

func TestOutcomeText(t *testing.T) {
	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("redirect")))
	assert.Equal(t, Redirect, o)
	require.NoError(t, o.UnmarshalText([]byte("render")))
	assert.Equal(t, Render, o)
	assert.Error(t, o.UnmarshalText([]byte("bounce")))
}
