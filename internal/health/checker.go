// Package health reports whether the shell's dependencies are usable.
//
// A Manager runs every registered Checker in parallel, each bounded by a
// timeout, and folds the results into one Status. ProbeManager layers
// liveness, readiness and startup probes on top for the serve command:
//
//	probes := health.NewProbeManager(version.Version)
//	probes.AddChecker(health.NewStorageChecker(kv))
//	probes.AddChecker(health.NewBackendChecker(cfg.API.URL, nil))
//	probes.MarkInitialized()
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency.
type Checker interface {
	// Name identifies the check in results, e.g. "session-storage".
	Name() string

	// Check must respect ctx and return quickly.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy Status = "healthy"

	// StatusDegraded means the shell still works with reduced function, for
	// example pages render but backend calls fail.
	StatusDegraded Status = "degraded"

	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is what a Checker reports.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency"`
}

// NewResult creates a result with an empty details map.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns r for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Healthy creates a healthy result.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
