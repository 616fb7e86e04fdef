// Package guard decides, for a requested path and the current session,
// whether to render the page or redirect elsewhere.
package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/session"
)

// SnapshotSource supplies the live session. *session.Store implements it.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Guard evaluates paths against the live session on every call.
type Guard struct {
	table   *Table
	source  SnapshotSource
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option configures a Guard.
type Option func(*Guard)

// WithTable replaces DefaultTable.
func WithTable(t *Table) Option {
	return func(g *Guard) {
		g.table = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Guard) {
		g.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// New creates a guard reading sessions from source.
func New(source SnapshotSource, opts ...Option) *Guard {
	g := &Guard{table: DefaultTable, source: source}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.L()
	}
	g.logger = g.logger.WithComponent("guard")
	if g.metrics == nil {
		g.metrics = metrics.Noop()
	}
	return g
}

// Table returns the route table in use.
func (g *Guard) Table() *Table {
	return g.table
}

// Decide evaluates p against the current session.
func (g *Guard) Decide(p string) Decision {
	return g.DecideFor(g.source.Snapshot(), p)
}

// DecideFor evaluates p against an explicit snapshot.
func (g *Guard) DecideFor(snap session.Snapshot, p string) Decision {
	d := g.table.Decide(snap, p)
	g.metrics.GuardDecisions.WithLabelValues(d.Outcome.String(), string(d.Reason)).Inc()
	if d.Outcome == Redirect {
		g.logger.Debug("route redirected", "path", d.Path, "target", d.Target, "reason", string(d.Reason))
	}
	return d
}

type contextKey string

const decisionContextKey contextKey = "guard:decision"

// DecisionFromContext returns the decision stored by Middleware.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(decisionContextKey).(Decision)
	return d, ok
}

// Middleware applies the guard to requests under prefix. The prefix is
// stripped before evaluation and prepended to redirect targets, so a guard
// mounted at "/app" sends "/app/court/qr" to "/app/login".
//
// Redirects answer 302. Rendered requests reach next with the decision in
// the request context.
func (g *Guard) Middleware(prefix string, next http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, prefix)
		d := g.Decide(p)
		if d.Outcome == Redirect {
			http.Redirect(w, r, prefix+d.Target, http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), decisionContextKey, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
