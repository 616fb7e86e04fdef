// Package portal is the application shell. It wires the session store, route
// guard, toast queue and API client together and turns a requested path into
// the view the user ends up on.
package portal

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/courtdesk/internal/api"
	"github.com/felixgeelhaar/courtdesk/internal/guard"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/nav"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/toast"
)

// MaxRedirects bounds how many redirects Navigate follows.
const MaxRedirects = 3

const (
	loginFailedMessage    = "Login failed. Please check your credentials."
	registerFailedMessage = "Registration failed. Please try again."
)

// View is what the shell shows after navigating. RedirectReason is the
// guard's reason for leaving RequestedPath and is empty when it rendered.
type View struct {
	RequestedPath  string         `json:"requestedPath"`
	Path           string         `json:"path"`
	Redirected     bool           `json:"redirected"`
	RedirectReason guard.Reason   `json:"redirectReason,omitempty"`
	Decision       guard.Decision `json:"decision"`
	Menu           []nav.MenuItem `json:"menu,omitempty"`
	Breadcrumbs    []nav.Crumb    `json:"breadcrumbs"`
	User           *session.User  `json:"user,omitempty"`
	Toasts         []toast.Toast  `json:"toasts"`
}

// Portal is the app shell.
type Portal struct {
	store  *session.Store
	guard  *guard.Guard
	toasts *toast.Queue
	client *api.Client
	logger *log.Logger

	mu      sync.Mutex
	current string
}

// Option configures a Portal.
type Option func(*options)

type options struct {
	table   *guard.Table
	logger  *log.Logger
	metrics *metrics.Metrics
}

// WithTable replaces the default route table.
func WithTable(t *guard.Table) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics sink for the guard.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New builds the shell and registers it as client's 401 handler.
func New(store *session.Store, queue *toast.Queue, client *api.Client, opts ...Option) *Portal {
	o := options{table: guard.DefaultTable, metrics: metrics.Noop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.L()
	}

	p := &Portal{
		store:  store,
		toasts: queue,
		client: client,
		logger: o.logger.WithComponent("portal"),
		guard: guard.New(store,
			guard.WithTable(o.table),
			guard.WithLogger(o.logger),
			guard.WithMetrics(o.metrics),
		),
	}
	client.SetInvalidator(p)
	return p
}

// Store returns the session store.
func (p *Portal) Store() *session.Store { return p.store }

// Guard returns the route guard.
func (p *Portal) Guard() *guard.Guard { return p.guard }

// Toasts returns the toast queue.
func (p *Portal) Toasts() *toast.Queue { return p.toasts }

// Client returns the API client.
func (p *Portal) Client() *api.Client { return p.client }

// Navigate evaluates target against the live session, follows redirects until
// a page renders and makes that page current.
func (p *Portal) Navigate(target string) View {
	snap := p.store.Snapshot()
	requested := guard.Normalize(target)

	d := p.guard.DecideFor(snap, requested)
	redirected := !d.Rendered()
	var reason guard.Reason
	if redirected {
		reason = d.Reason
	}
	for hops := 0; !d.Rendered(); hops++ {
		if hops == MaxRedirects {
			p.logger.Warn("redirect limit reached", "requested", requested, "target", d.Target)
			break
		}
		d = p.guard.DecideFor(snap, d.Target)
	}

	current := d.Path
	if !d.Rendered() {
		current = d.Target
	}

	p.mu.Lock()
	p.current = current
	p.mu.Unlock()

	v := View{
		RequestedPath:  requested,
		Path:           current,
		Redirected:     redirected,
		RedirectReason: reason,
		Decision:       d,
		Breadcrumbs:    nav.Breadcrumbs(current),
		User:           snap.User,
		Toasts:         p.toasts.List(),
	}
	if r, ok := snap.Role(); ok {
		v.Menu = nav.Active(nav.Menu(r), current)
	}
	return v
}

// Current re-renders the current page against the live session.
func (p *Portal) Current() View {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == "" {
		current = guard.LoginPath
	}
	return p.Navigate(current)
}

// Login authenticates against the backend and, on success, starts the
// session and lands on the user's portal home.
func (p *Portal) Login(ctx context.Context, email, password string) (View, error) {
	resp, err := p.client.Login(ctx, email, password)
	if err != nil {
		return p.authFailed("Login failed", loginFailedMessage, err), err
	}
	return p.start(ctx, resp, "Welcome back", "Login failed")
}

// Register creates an account and signs it in the same way Login does.
func (p *Portal) Register(ctx context.Context, req api.RegisterRequest) (View, error) {
	resp, err := p.client.Register(ctx, req)
	if err != nil {
		return p.authFailed("Registration failed", registerFailedMessage, err), err
	}
	return p.start(ctx, resp, "Account created", "Registration failed")
}

func (p *Portal) authFailed(title, fallback string, err error) View {
	msg := fallback
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" && apiErr.StatusCode < 500 {
		msg = apiErr.Message
	}
	p.toasts.Error(title, msg)
	return p.Navigate(guard.LoginPath)
}

func (p *Portal) start(ctx context.Context, resp *api.AuthResponse, welcome, failure string) (View, error) {
	if err := p.store.Login(ctx, &resp.User, resp.Token); err != nil {
		p.logger.WithError(err).ErrorContext(ctx, "backend returned an unusable session")
		p.toasts.Error(failure, loginFailedMessage)
		return p.Navigate(guard.LoginPath), err
	}

	p.toasts.Success(welcome, "Signed in as "+resp.User.DisplayName())
	return p.Navigate(resp.User.Role.Home()), nil
}

// Logout ends the session and returns to the login page.
func (p *Portal) Logout(ctx context.Context) (View, error) {
	active := p.store.IsAuthenticated()
	err := p.store.Logout(ctx)
	if active {
		p.toasts.Info("Signed out", "You have been logged out")
	}
	return p.Navigate(guard.LoginPath), err
}

// Invalidate resets the session after the backend rejected its token. Only
// the call that actually ended a session shows the expiry toast.
func (p *Portal) Invalidate(ctx context.Context) {
	active, err := p.store.Invalidate(ctx)
	if err != nil {
		p.logger.WithError(err).WarnContext(ctx, "session reset incomplete")
	}
	if active {
		p.toasts.Warning("Session expired", "Please sign in again")
	}
	p.Navigate(guard.LoginPath)
}
