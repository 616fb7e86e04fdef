// Package session holds the single authoritative record of who is signed in.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/role"
	"github.com/felixgeelhaar/courtdesk/internal/storage"
)

// Store owns the session. All writes go through Login, Logout, Invalidate
// and Hydrate; readers take Snapshots.
//
// Memory and durable storage are kept in step: a user is never persisted
// without a token and vice versa.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	version uint64

	kv      storage.KV
	logger  *log.Logger
	metrics *metrics.Metrics

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	// deliverMu orders notifications; delivered is the newest version
	// subscribers have seen.
	deliverMu sync.Mutex
	delivered uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a logged-out store backed by kv. Call Hydrate to restore a
// persisted session.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		subs: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.L()
	}
	s.logger = s.logger.WithComponent("session")
	if s.metrics == nil {
		s.metrics = metrics.Noop()
	}
	return s
}

// Login stores user and token in memory and durable storage.
//
// Nil users, empty tokens and unknown roles are rejected so that the session
// can never hold one half of the pair. On a storage failure the previous
// session is left untouched.
func (s *Store) Login(ctx context.Context, user *User, token string) error {
	switch {
	case user == nil:
		return errors.NewSessionInvalidError("user is required")
	case token == "":
		return errors.NewSessionInvalidError("token is required")
	case !user.Role.Valid():
		return errors.NewSessionInvalidError("user has no valid role")
	}

	user = user.Clone()
	encoded, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "encode user", err)
	}

	s.mu.Lock()
	if err := s.persist(ctx, token, string(encoded)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = Snapshot{User: user, Token: token}
	snap, v := s.snapshotLocked(), s.bumpLocked()
	s.mu.Unlock()

	s.metrics.SessionEvents.WithLabelValues("login").Inc()
	s.logger.InfoContext(ctx, "session started", "user_id", user.ID, "role", user.Role.String())
	s.notify(v, snap)
	return nil
}

func (s *Store) persist(ctx context.Context, token, user string) error {
	if err := s.kv.Set(ctx, storage.KeyToken, token); err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "persist token", err)
	}
	if err := s.kv.Set(ctx, storage.KeyUser, user); err != nil {
		// Never leave a token behind without its user.
		_ = s.kv.Delete(ctx, storage.KeyToken)
		return errors.Wrap(errors.ErrCodeSessionPersist, "persist user", err)
	}
	return nil
}

// Logout clears the session. Logging out while logged out is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	_, err := s.Invalidate(ctx)
	return err
}

// Invalidate clears the session and reports whether one was active. Memory is
// cleared before storage so readers never observe a stale session, even when
// the storage delete fails.
func (s *Store) Invalidate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	was := s.snap.IsAuthenticated()
	s.snap = Snapshot{}
	var v uint64
	if was {
		v = s.bumpLocked()
	}
	err := s.kv.Delete(ctx, storage.KeyToken, storage.KeyUser)
	s.mu.Unlock()

	if err != nil {
		err = errors.Wrap(errors.ErrCodeSessionPersist, "clear persisted session", err)
		s.logger.WithError(err).WarnContext(ctx, "session cleared in memory only")
	}
	if !was {
		return false, err
	}

	s.metrics.SessionEvents.WithLabelValues("logout").Inc()
	s.logger.InfoContext(ctx, "session ended")
	s.notify(v, Snapshot{})
	return true, err
}

// Hydrate restores a persisted session and reports whether one was restored.
//
// A session is restored only when both keys are present and the user decodes
// with a valid role. Anything else is treated as absent and purged, so the
// process starts logged out rather than half logged in.
func (s *Store) Hydrate(ctx context.Context) bool {
	token, hasToken, err := s.kv.Get(ctx, storage.KeyToken)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "could not read persisted token")
		return false
	}
	raw, hasUser, err := s.kv.Get(ctx, storage.KeyUser)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "could not read persisted user")
		return false
	}

	if !hasToken && !hasUser {
		return false
	}

	user, reason := decodeUser(raw, hasUser)
	if token == "" {
		reason = "token missing"
	}
	if reason != "" {
		s.logger.WarnContext(ctx, "discarding persisted session", "reason", reason)
		s.metrics.SessionEvents.WithLabelValues("purged").Inc()
		if err := s.kv.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
			s.logger.WithError(err).WarnContext(ctx, "could not purge persisted session")
		}
		return false
	}

	s.mu.Lock()
	s.snap = Snapshot{User: user, Token: token}
	snap, v := s.snapshotLocked(), s.bumpLocked()
	s.mu.Unlock()

	s.metrics.SessionEvents.WithLabelValues("restored").Inc()
	s.logger.DebugContext(ctx, "session restored", "user_id", user.ID, "role", user.Role.String())
	s.notify(v, snap)
	return true
}

func decodeUser(raw string, present bool) (*User, string) {
	if !present || raw == "" {
		return nil, "user missing"
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, "user malformed"
	}
	if !u.Role.Valid() {
		return nil, "user role missing"
	}
	return &u, ""
}

// Snapshot returns the current session. The returned user is a copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{User: s.snap.User.Clone(), Token: s.snap.Token}
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// Role returns the signed-in user's role.
func (s *Store) Role() (role.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Role()
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.IsAuthenticated()
}

// Subscribe registers fn to be called with the new snapshot after every
// change. The returned function unregisters it.
//
// Calls are serialised and never go back in time: when changes race, a
// snapshot older than one already delivered is dropped. fn must not change
// the session itself.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// bumpLocked numbers a change. Callers hold mu.
func (s *Store) bumpLocked() uint64 {
	s.version++
	return s.version
}

func (s *Store) notify(v uint64, snap Snapshot) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if v <= s.delivered {
		return
	}
	s.delivered = v

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(Snapshot{User: snap.User.Clone(), Token: snap.Token})
	}
}
