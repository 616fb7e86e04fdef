package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 5 * time.Second

// Manager runs checks in parallel and aggregates their results.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager with DefaultTimeout and the given checkers.
func NewManager(checkers ...Checker) *Manager {
	return &Manager{
		checkers: append([]Checker(nil), checkers...),
		timeout:  DefaultTimeout,
	}
}

// WithTimeout sets the per-check timeout and returns m for chaining.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return m
}

// AddChecker registers a checker.
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// RemoveChecker removes the checker called name and reports whether one was
// registered.
func (m *Manager) RemoveChecker(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, checker := range m.checkers {
		if checker.Name() == name {
			m.checkers = append(m.checkers[:i], m.checkers[i+1:]...)
			return true
		}
	}
	return false
}

// Check runs every checker and returns results keyed by checker name. A
// checker that panics or returns nil is reported unhealthy.
func (m *Manager) Check(ctx context.Context) map[string]*Result {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	timeout := m.timeout
	m.mu.RUnlock()

	results := make(map[string]*Result, len(checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := runCheck(ctx, c, timeout)
			mu.Lock()
			results[c.Name()] = result
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

func runCheck(ctx context.Context, c Checker, timeout time.Duration) (result *Result) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Unhealthy(fmt.Sprintf("check panicked: %v", r))
		}
		if result == nil {
			result = Unhealthy("check returned no result")
		}
		if result.Latency == 0 {
			result.Latency = time.Since(start)
		}
	}()
	return c.Check(ctx)
}

// OverallStatus folds results into one status: any unhealthy result wins,
// then any degraded one. No results is healthy.
func (m *Manager) OverallStatus(results map[string]*Result) Status {
	return Overall(results)
}

// Overall is OverallStatus without a manager.
func Overall(results map[string]*Result) Status {
	status := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// CheckNames returns the registered checker names in registration order.
func (m *Manager) CheckNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.checkers))
	for i, checker := range m.checkers {
		names[i] = checker.Name()
	}
	return names
}

// Count returns the number of registered checkers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.checkers)
}
