package guard

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/courtdesk/internal/role"
)

// Access is how a route treats the session.
type Access int

const (
	// Protected routes require a session whose role is allowed.
	Protected Access = iota
	// GuestOnly routes are for signed-out users; signed-in users are sent
	// home.
	GuestOnly
)

func (a Access) String() string {
	switch a {
	case GuestOnly:
		return "guest-only"
	default:
		return "protected"
	}
}

// Route is one entry of the routing surface. Patterns use {name} for path
// parameters.
type Route struct {
	Pattern      string      `json:"pattern"`
	AllowedRoles []role.Role `json:"allowedRoles,omitempty"`
	Access       Access      `json:"-"`
}

// Allows reports whether r may render this route. A route without allowed
// roles is open to every signed-in role.
func (rt Route) Allows(r role.Role) bool {
	if len(rt.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range rt.AllowedRoles {
		if allowed == r {
			return true
		}
	}
	return false
}

// Table is an ordered set of routes with a compiled matcher.
type Table struct {
	routes []Route
	router *mux.Router
}

// NewTable compiles routes. It panics on an invalid role, which is a
// programming error in the table.
func NewTable(routes ...Route) *Table {
	t := &Table{
		routes: append([]Route(nil), routes...),
		router: mux.NewRouter(),
	}
	for i, rt := range t.routes {
		for _, r := range rt.AllowedRoles {
			if !r.Valid() {
				panic(fmt.Sprintf("guard: route %s lists invalid role %d", rt.Pattern, int(r)))
			}
		}
		t.router.Path(rt.Pattern).Name(strconv.Itoa(i))
	}
	return t
}

// Routes returns a copy of the table's routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match finds the route for a normalised path and its parameters.
func (t *Table) Match(p string) (Route, map[string]string, bool) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: p}}
	var m mux.RouteMatch
	if !t.router.Match(req, &m) || m.Route == nil {
		return Route{}, nil, false
	}
	idx, err := strconv.Atoi(m.Route.GetName())
	if err != nil || idx < 0 || idx >= len(t.routes) {
		return Route{}, nil, false
	}
	return t.routes[idx], m.Vars, true
}

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

func portal(r role.Role, pages ...string) []Route {
	routes := []Route{{Pattern: r.Prefix(), AllowedRoles: []role.Role{r}}}
	for _, p := range pages {
		routes = append(routes, Route{Pattern: r.Prefix() + "/" + p, AllowedRoles: []role.Role{r}})
	}
	return routes
}

// DefaultRoutes is the routing surface of the three portals.
func DefaultRoutes() []Route {
	routes := []Route{{Pattern: LoginPath, Access: GuestOnly}}
	for _, r := range role.All() {
		switch r {
		case role.Public:
			routes = append(routes, portal(r,
				"cases", "cases/{id}", "search", "notifications",
				"messages", "settings", "profile")...)
		case role.Advocate:
			routes = append(routes, portal(r,
				"cases", "cases/{id}", "evidence", "calendar", "notes",
				"tasks", "messages", "notifications", "settings", "profile",
				"performance", "documents")...)
		case role.Court:
			routes = append(routes, portal(r,
				"cases", "cases/{id}", "hearings", "advocates", "analytics",
				"qr", "courtrooms", "reports", "messages", "notifications",
				"settings", "profile")...)
		default:
			panic(fmt.Sprintf("guard: no routes for role %s", r))
		}
	}
	return routes
}

// DefaultTable is the compiled DefaultRoutes.
var DefaultTable = NewTable(DefaultRoutes()...)
