package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/storage"
)

type brokenKV struct {
	storage.KV
}

func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestStorageChecker(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), storage.KeyToken, "t"))

	c := NewStorageChecker(kv)
	assert.Equal(t, "session-storage", c.Name())

	result := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, []string{storage.KeyToken}, kv.Keys(), "probe key must be cleaned up")
}

func TestStorageCheckerSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	kv, err := storage.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	result := NewStorageChecker(kv).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, path, result.Details["path"])
}

func TestStorageCheckerWriteFailure(t *testing.T) {
	result := NewStorageChecker(brokenKV{storage.NewMemoryKV()}).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Equal(t, "disk full", result.Details["error"])
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}
	srv := &httptest.Server{Listener: listener, Config: &http.Server{Handler: handler}}
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func TestBackendChecker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Status
	}{
		{"not found is reachable", http.StatusNotFound, StatusHealthy},
		{"ok", http.StatusOK, StatusHealthy},
		{"server error", http.StatusBadGateway, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			c := NewBackendChecker(srv.URL+"/api", srv.Client())
			assert.Equal(t, "backend-api", c.Name())

			result := c.Check(context.Background())
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.status, result.Details["status_code"])
		})
	}
}

func TestBackendCheckerUnreachable(t *testing.T) {
	srv := newTestServer(t, http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	result := NewBackendChecker(url, nil).Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
	assert.Contains(t, result.Details, "error")
}

func TestBackendCheckerInvalidURL(t *testing.T) {
	result := NewBackendChecker("://bad", nil).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
}
