// Package toast implements the transient notification queue shown in the
// corner of every portal.
package toast

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultDuration is how long a toast stays up when no duration is given.
const DefaultDuration = 5 * time.Second

// Severity selects the toast's styling.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// ParseSeverity maps a string to a Severity. Unknown values are Info.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case Success:
		return Success
	case Error:
		return Error
	case Warning:
		return Warning
	default:
		return Info
	}
}

// Toast is one notification. ID and CreatedAt are assigned by the queue.
type Toast struct {
	ID        uint64
	Severity  Severity
	Title     string
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// ExpiresAt is when the toast is scheduled to disappear.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

type toastJSON struct {
	ID         uint64    `json:"id"`
	Type       Severity  `json:"type"`
	Title      string    `json:"title,omitempty"`
	Message    string    `json:"message"`
	DurationMS int64     `json:"duration"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MarshalJSON encodes the toast the way the web shell expects it: severity
// as "type" and duration in milliseconds.
func (t Toast) MarshalJSON() ([]byte, error) {
	return json.Marshal(toastJSON{
		ID:         t.ID,
		Type:       t.Severity,
		Title:      t.Title,
		Message:    t.Message,
		DurationMS: t.Duration.Milliseconds(),
		CreatedAt:  t.CreatedAt,
	})
}

// UnmarshalJSON accepts the same shape MarshalJSON produces.
func (t *Toast) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         uint64    `json:"id"`
		Type       string    `json:"type"`
		Title      string    `json:"title"`
		Message    string    `json:"message"`
		DurationMS int64     `json:"duration"`
		CreatedAt  time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Toast{
		ID:        raw.ID,
		Severity:  ParseSeverity(raw.Type),
		Title:     raw.Title,
		Message:   raw.Message,
		Duration:  time.Duration(raw.DurationMS) * time.Millisecond,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}
