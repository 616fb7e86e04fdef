package toast

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
)

var epoch = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func newQueue(t *testing.T) (*Queue, *FakeClock, *metrics.Metrics) {
	t.Helper()
	clock := NewFakeClock(epoch)
	m := metrics.Noop()
	q := NewQueue(WithClock(clock), WithLogger(log.Discard()), WithMetrics(m))
	t.Cleanup(q.Close)
	return q, clock, m
}

func ids(list []Toast) []uint64 {
	out := make([]uint64, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestEnqueueAssignsDefaults(t *testing.T) {
	q, _, m := newQueue(t)

	got := q.Enqueue(Toast{ID: 999, Severity: "bogus", Message: "hello"})

	assert.Equal(t, uint64(1), got.ID, "caller-supplied ids are ignored")
	assert.Equal(t, Info, got.Severity)
	assert.Equal(t, DefaultDuration, got.Duration)
	assert.Equal(t, epoch, got.CreatedAt)
	assert.Equal(t, epoch.Add(DefaultDuration), got.ExpiresAt())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToastsEnqueued.WithLabelValues("info")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToastsActive))
}

func TestNewestLast(t *testing.T) {
	q, _, _ := newQueue(t)

	a := q.Success("Saved", "first")
	b := q.Error("Failed", "second")
	c := q.Warning("Careful", "third")

	assert.Equal(t, []uint64{a.ID, b.ID, c.ID}, ids(q.List()))
	assert.Equal(t, 3, q.Len())
}

func TestExpiry(t *testing.T) {
	q, clock, m := newQueue(t)

	q.Enqueue(Toast{Message: "short", Duration: time.Second})
	long := q.Enqueue(Toast{Message: "long", Duration: 3 * time.Second})

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 2, q.Len())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{long.ID}, ids(q.List()))

	clock.Advance(2 * time.Second)
	assert.Zero(t, q.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToastsRemoved.WithLabelValues("expired")))
}

// Two toasts, the first dismissed early: the second still expires on
// schedule and the first's timer has no effect.
func TestDismissBeforeExpiry(t *testing.T) {
	q, clock, m := newQueue(t)

	a := q.Info("", "A")
	b := q.Info("", "B")

	clock.Advance(time.Second)
	assert.True(t, q.Dismiss(a.ID))
	assert.Equal(t, []uint64{b.ID}, ids(q.List()))
	assert.Equal(t, 1, clock.Pending(), "dismissal stops the timer")

	clock.Advance(4 * time.Second)
	assert.Empty(t, q.List())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToastsRemoved.WithLabelValues("dismissed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToastsRemoved.WithLabelValues("expired")))
}

func TestDismissIsIdempotent(t *testing.T) {
	q, clock, _ := newQueue(t)

	a := q.Info("", "A")
	assert.True(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(12345))

	clock.Advance(time.Minute)
	assert.Zero(t, q.Len())
}

func TestIDsAreNeverReused(t *testing.T) {
	q, clock, _ := newQueue(t)

	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		tt := q.Info("", "x")
		require.False(t, seen[tt.ID], "id %d reused", tt.ID)
		seen[tt.ID] = true
		if i%3 == 0 {
			q.Dismiss(tt.ID)
		}
		clock.Advance(time.Second)
	}
}

func TestConcurrentEnqueueYieldsUniqueIDs(t *testing.T) {
	q := NewQueue(WithLogger(log.Discard()), WithDefaultDuration(time.Hour))
	defer q.Close()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[uint64]bool{}
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tt := q.Success("", "x")
			mu.Lock()
			got[tt.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, got, 100)
	assert.Equal(t, 100, q.Len())
}

func TestRealClockExpiry(t *testing.T) {
	q := NewQueue(WithLogger(log.Discard()))
	defer q.Close()

	q.Enqueue(Toast{Message: "blink", Duration: 10 * time.Millisecond})
	assert.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestClose(t *testing.T) {
	q, clock, m := newQueue(t)
	q.Info("", "a")
	q.Info("", "b")

	q.Close()
	assert.Zero(t, q.Len())
	assert.Zero(t, clock.Pending())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToastsRemoved.WithLabelValues("closed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ToastsActive))
}

func TestSubscribe(t *testing.T) {
	q, clock, _ := newQueue(t)

	var lens []int
	cancel := q.Subscribe(func(list []Toast) { lens = append(lens, len(list)) })

	a := q.Info("", "a")
	q.Info("", "b")
	q.Dismiss(a.ID)
	clock.Advance(DefaultDuration)
	cancel()
	q.Info("", "c")

	assert.Equal(t, []int{1, 2, 1, 0}, lens)
}

func TestSubscribeDeliversInOrder(t *testing.T) {
	q, _, _ := newQueue(t)

	var (
		mu   sync.Mutex
		lens []int
	)
	q.Subscribe(func(list []Toast) {
		mu.Lock()
		defer mu.Unlock()
		lens = append(lens, len(list))
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Info("", "x")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, lens)
	for i := 1; i < len(lens); i++ {
		assert.Greater(t, lens[i], lens[i-1], "lists must arrive oldest first")
	}
	assert.Equal(t, 50, lens[len(lens)-1])
}

func TestWithDefaultDuration(t *testing.T) {
	q := NewQueue(WithClock(NewFakeClock(epoch)), WithLogger(log.Discard()), WithDefaultDuration(2*time.Second))
	defer q.Close()
	assert.Equal(t, 2*time.Second, q.Info("", "x").Duration)
}

func TestParseSeverity(t *testing.T) {
	tests := map[string]Severity{
		"success": Success,
		"ERROR":   Error,
		"warning": Warning,
		"info":    Info,
		"loading": Info,
		"":        Info,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseSeverity(in), in)
	}
}

func TestToastJSON(t *testing.T) {
	tt := Toast{ID: 4, Severity: Warning, Title: "Session expired", Message: "Please sign in", Duration: 5 * time.Second, CreatedAt: epoch}

	data, err := json.Marshal(tt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"type":"warning","title":"Session expired","message":"Please sign in","duration":5000,"createdAt":"2026-01-05T10:00:00Z"}`, string(data))

	var back Toast
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tt, back)
}
