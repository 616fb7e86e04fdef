package toast

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
)

// Removal reasons reported in metrics.
const (
	reasonExpired   = "expired"
	reasonDismissed = "dismissed"
	reasonClosed    = "closed"
)

type entry struct {
	toast Toast
	timer Timer
}

// Queue holds the toasts currently on screen, oldest first.
//
// Every mutation is serialised by one mutex. Each toast owns a timer that is
// stopped on dismissal; a timer that fires for an id that is already gone is
// a no-op.
type Queue struct {
	mu              sync.Mutex
	items           []*entry
	nextID          uint64
	version         uint64
	clock           Clock
	defaultDuration time.Duration

	logger  *log.Logger
	metrics *metrics.Metrics

	subMu   sync.Mutex
	subs    map[int]func([]Toast)
	nextSub int

	// deliverMu orders notifications; delivered is the newest version
	// subscribers have seen.
	deliverMu sync.Mutex
	delivered uint64
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(q *Queue) {
		q.clock = c
	}
}

// WithDefaultDuration overrides DefaultDuration.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultDuration = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(q *Queue) {
		q.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *Queue) {
		q.metrics = m
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:           RealClock{},
		defaultDuration: DefaultDuration,
		subs:            make(map[int]func([]Toast)),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.logger == nil {
		q.logger = log.L()
	}
	q.logger = q.logger.WithComponent("toast")
	if q.metrics == nil {
		q.metrics = metrics.Noop()
	}
	return q
}

// Enqueue adds t to the end of the queue and schedules its removal.
// The returned toast carries the assigned id, creation time and effective
// duration; any id set by the caller is ignored.
func (q *Queue) Enqueue(t Toast) Toast {
	q.mu.Lock()
	q.nextID++
	t.ID = q.nextID
	t.Severity = ParseSeverity(string(t.Severity))
	t.CreatedAt = q.clock.Now()
	if t.Duration <= 0 {
		t.Duration = q.defaultDuration
	}

	e := &entry{toast: t}
	q.items = append(q.items, e)
	id := t.ID
	e.timer = q.clock.AfterFunc(t.Duration, func() {
		q.remove(id, reasonExpired)
	})
	snapshot, v := q.listLocked(), q.bumpLocked()
	q.mu.Unlock()

	q.metrics.ToastsEnqueued.WithLabelValues(string(t.Severity)).Inc()
	q.metrics.ToastsActive.Set(float64(len(snapshot)))
	q.logger.Debug("toast enqueued", "id", id, "severity", string(t.Severity))
	q.notify(v, snapshot)
	return t
}

// Dismiss removes the toast with id and cancels its timer. It returns false
// if no such toast is on screen.
func (q *Queue) Dismiss(id uint64) bool {
	return q.remove(id, reasonDismissed)
}

func (q *Queue) remove(id uint64, reason string) bool {
	q.mu.Lock()
	idx := -1
	for i, e := range q.items {
		if e.toast.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}

	e := q.items[idx]
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	if e.timer != nil {
		e.timer.Stop()
	}
	snapshot, v := q.listLocked(), q.bumpLocked()
	q.mu.Unlock()

	q.metrics.ToastsRemoved.WithLabelValues(reason).Inc()
	q.metrics.ToastsActive.Set(float64(len(snapshot)))
	q.logger.Debug("toast removed", "id", id, "reason", reason)
	q.notify(v, snapshot)
	return true
}

// Success enqueues a success toast.
func (q *Queue) Success(title, message string) Toast {
	return q.Enqueue(Toast{Severity: Success, Title: title, Message: message})
}

// Error enqueues an error toast.
func (q *Queue) Error(title, message string) Toast {
	return q.Enqueue(Toast{Severity: Error, Title: title, Message: message})
}

// Warning enqueues a warning toast.
func (q *Queue) Warning(title, message string) Toast {
	return q.Enqueue(Toast{Severity: Warning, Title: title, Message: message})
}

// Info enqueues an info toast.
func (q *Queue) Info(title, message string) Toast {
	return q.Enqueue(Toast{Severity: Info, Title: title, Message: message})
}

// List returns the toasts in display order, oldest first.
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.listLocked()
}

func (q *Queue) listLocked() []Toast {
	out := make([]Toast, len(q.items))
	for i, e := range q.items {
		out[i] = e.toast
	}
	return out
}

// Len returns the number of toasts on screen.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops every pending timer and empties the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	removed := len(q.items)
	for _, e := range q.items {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	q.items = nil
	var v uint64
	if removed > 0 {
		v = q.bumpLocked()
	}
	q.mu.Unlock()

	if removed == 0 {
		return
	}
	q.metrics.ToastsRemoved.WithLabelValues(reasonClosed).Add(float64(removed))
	q.metrics.ToastsActive.Set(0)
	q.notify(v, []Toast{})
}

// Subscribe registers fn to receive the full toast list after every change.
// The returned function unregisters it.
//
// Calls are serialised and never go back in time: when changes race, a list
// older than one already delivered is dropped. fn must not change the queue.
func (q *Queue) Subscribe(fn func([]Toast)) (cancel func()) {
	q.subMu.Lock()
	defer q.subMu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	return func() {
		q.subMu.Lock()
		defer q.subMu.Unlock()
		delete(q.subs, id)
	}
}

// bumpLocked numbers a change. Callers hold mu.
func (q *Queue) bumpLocked() uint64 {
	q.version++
	return q.version
}

func (q *Queue) notify(v uint64, list []Toast) {
	q.deliverMu.Lock()
	defer q.deliverMu.Unlock()
	if v <= q.delivered {
		return
	}
	q.delivered = v

	q.subMu.Lock()
	fns := make([]func([]Toast), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.subMu.Unlock()

	for _, fn := range fns {
		cp := make([]Toast, len(list))
		copy(cp, list)
		fn(cp)
	}
}
