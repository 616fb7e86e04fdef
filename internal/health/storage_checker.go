package health

import (
	"context"
	"strconv"
	"time"

	"github.com/felixgeelhaar/courtdesk/internal/storage"
)

const storageProbeKey = "health:probe"

// StorageChecker verifies the session storage with a write, read and delete
// of a scratch key.
type StorageChecker struct {
	kv storage.KV
}

// NewStorageChecker creates a checker for kv.
func NewStorageChecker(kv storage.KV) *StorageChecker {
	return &StorageChecker{kv: kv}
}

func (c *StorageChecker) Name() string {
	return "session-storage"
}

// Check is unhealthy when any step of the round trip fails, since a session
// could then not be persisted.
func (c *StorageChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	want := strconv.FormatInt(start.UnixNano(), 10)

	if err := c.kv.Set(ctx, storageProbeKey, want); err != nil {
		return Unhealthy("storage write failed").WithDetail("error", err.Error())
	}
	got, ok, err := c.kv.Get(ctx, storageProbeKey)
	if err != nil {
		return Unhealthy("storage read failed").WithDetail("error", err.Error())
	}
	if !ok || got != want {
		return Unhealthy("storage returned a different value than written")
	}
	if err := c.kv.Delete(ctx, storageProbeKey); err != nil {
		return Unhealthy("storage delete failed").WithDetail("error", err.Error())
	}

	result := Healthy("storage round trip succeeded").WithLatency(time.Since(start))
	if p, ok := c.kv.(interface{ Path() string }); ok {
		result.WithDetail("path", p.Path())
	}
	return result
}
