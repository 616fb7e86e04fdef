package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/role"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/storage"
)

// newTestServer binds to IPv4 loopback so tests run in sandboxes without IPv6.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource, opts ...Option) *Client {
	t.Helper()
	srv := newTestServer(t, handler)
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	return New(Config{BaseURL: srv.URL + "/api/"}, tokens, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{}, nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = New(Config{BaseURL: "http://backend:5000/api/"}, nil)
	assert.Equal(t, "http://backend:5000/api", c.BaseURL())
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, []Case{})
	}), staticToken("abc"))

	_, err := c.ListCases(context.Background(), CaseFilter{})
	require.NoError(t, err)

	assert.Equal(t, "/api/cases", gotPath)
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
	assert.True(t, strings.HasPrefix(got.Get("User-Agent"), "courtdesk/"))
}

func TestAnonymousRequestHasNoAuthorization(t *testing.T) {
	var auth []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []Case{})
	})

	_, err := newTestClient(t, handler, nil).ListCases(context.Background(), CaseFilter{})
	require.NoError(t, err)
	_, err = newTestClient(t, handler, staticToken("")).ListCases(context.Background(), CaseFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, auth)
}

func TestQueryParameters(t *testing.T) {
	var queries []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []any{})
	}), staticToken("t"))
	ctx := context.Background()

	_, err := c.ListCases(ctx, CaseFilter{Status: "active", Priority: "high"})
	require.NoError(t, err)
	_, err = c.ListHearings(ctx, 7)
	require.NoError(t, err)
	_, err = c.ListDocuments(ctx, DocumentFilter{CaseID: 3, Status: "pending"})
	require.NoError(t, err)
	_, err = c.ListTasks(ctx, 0)
	require.NoError(t, err)
	_, err = c.SearchCases(ctx, "land dispute")
	require.NoError(t, err)
	_, err = c.ListCourtrooms(ctx, "in-session")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/cases?priority=high&status=active",
		"/api/hearings?case_id=7",
		"/api/documents?case_id=3&status=pending",
		"/api/tasks?",
		"/api/cases/search?q=land+dispute",
		"/api/courtrooms?status=in-session",
	}, queries)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "meera@example.com", req.Email)

		writeJSON(w, http.StatusOK, map[string]any{
			"token": "jwt",
			"user":  map[string]any{"id": 4, "name": "Meera", "email": req.Email, "role": "advocate", "barCouncilId": "BC/1"},
		})
	}), nil)

	resp, err := c.Login(context.Background(), "meera@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, int64(4), resp.User.ID)
	assert.Equal(t, role.Advocate, resp.User.Role)
	assert.Equal(t, "BC/1", resp.User.BarCouncilID)
}

func TestMutationEnvelopes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cases":
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Case created", "case": map[string]any{"id": "CASE-2024-009", "title": "New"}})
		case "/api/tasks/5":
			writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated", "task": map[string]any{"id": "TASK-005", "completed": true}})
		case "/api/messages":
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Message sent", "data": map[string]any{"id": 11, "text": "hi", "from": "me"}})
		case "/api/notes/2":
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{"message":"Note deleted"}`)
		default:
			http.NotFound(w, r)
		}
	}), staticToken("t"))
	ctx := context.Background()

	cs, err := c.CreateCase(ctx, CaseInput{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, "CASE-2024-009", cs.ID)

	done := true
	task, err := c.UpdateTask(ctx, 5, TaskInput{Completed: &done})
	require.NoError(t, err)
	assert.True(t, task.Completed)

	msg, err := c.SendMessage(ctx, 3, "hi")
	require.NoError(t, err)
	assert.Equal(t, "me", msg.From)

	require.NoError(t, c.DeleteNote(ctx, 2))
}

func TestUploadDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "12", r.FormValue("caseId"))
		assert.Equal(t, "Affidavit", r.FormValue("title"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "affidavit.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(body))

		writeJSON(w, http.StatusCreated, map[string]any{"document": map[string]any{"id": "EVD-001", "caseId": 12, "status": "pending"}})
	}), staticToken("t"))

	doc, err := c.UploadDocument(context.Background(), Upload{
		CaseID:   12,
		Title:    "Affidavit",
		Filename: "affidavit.pdf",
		Content:  strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EVD-001", doc.ID)
	assert.Equal(t, "pending", doc.Status)
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		notFound bool
	}{
		{"error field", http.StatusNotFound, `{"error":"Case not found"}`, "Case not found", true},
		{"message field", http.StatusBadRequest, `{"message":"Missing fields"}`, "Missing fields", false},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down", false},
		{"empty body", http.StatusForbidden, "", "Forbidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}), staticToken("t"))

			_, err := c.GetCase(context.Background(), 1)
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, "/cases/1", apiErr.Path)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.True(t, errors.HasCode(err, errors.ErrCodeAPIStatus))
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}), staticToken("t"))

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAPIDecode))
	assert.Zero(t, StatusCode(err))
}

func TestTransportFailure(t *testing.T) {
	srv := newTestServer(t, http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url}, nil, WithLogger(log.Discard()))
	_, err := c.ListNotifications(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAPIRequest))
}

func TestUnauthorizedResetsSessionBeforeReturning(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(storage.NewMemoryKV())
	require.NoError(t, store.Login(ctx, &session.User{ID: 1, Name: "Asha", Role: role.Court}, "stale"))

	_, m := metrics.NewRegistry()

	var sawToken string
	inv := InvalidatorFunc(func(ctx context.Context) {
		_, err := store.Invalidate(ctx)
		assert.NoError(t, err)
	})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawToken = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token has expired"})
	}), store, WithInvalidator(inv), WithMetrics(m))

	_, err := c.ListCases(ctx, CaseFilter{})
	require.Error(t, err)

	assert.Equal(t, "Bearer stale", sawToken)
	assert.False(t, store.IsAuthenticated(), "session must be gone by the time the caller sees the error")
	assert.True(t, IsUnauthorized(err))
	assert.True(t, errors.HasCode(err, errors.ErrCodeAPIUnauthorized))

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Token has expired", apiErr.Message)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.APIUnauthorized))
}

func TestNonUnauthorizedLeavesSessionAlone(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		var calls atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]any{})
		}), staticToken("t"), WithInvalidator(InvalidatorFunc(func(context.Context) { calls.Add(1) })))

		_, _ = c.Profile(context.Background())
		assert.Zero(t, calls.Load(), "status %d", status)
	}
}

func TestSetInvalidatorReplacesHook(t *testing.T) {
	var first, second atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), staticToken("t"), WithInvalidator(InvalidatorFunc(func(context.Context) { first.Add(1) })))

	c.SetInvalidator(InvalidatorFunc(func(context.Context) { second.Add(1) }))
	_, err := c.Calendar(context.Background())
	require.Error(t, err)

	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestConcurrentUnauthorizedInvalidateOnce(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(storage.NewMemoryKV())
	require.NoError(t, store.Login(ctx, &session.User{ID: 2, Name: "Ravi", Role: role.Public}, "stale"))

	var effective atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), store, WithInvalidator(InvalidatorFunc(func(ctx context.Context) {
		if active, _ := store.Invalidate(ctx); active {
			effective.Add(1)
		}
	})))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListNotifications(ctx)
			assert.True(t, IsUnauthorized(err))
		}()
	}
	wg.Wait()

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, int32(1), effective.Load())
}

func TestUnauthorizedInterceptor(t *testing.T) {
	var calls int
	inv := InvalidatorFunc(func(context.Context) { calls++ })

	assert.False(t, UnauthorizedInterceptor(context.Background(), nil, inv))
	assert.False(t, UnauthorizedInterceptor(context.Background(), &http.Response{StatusCode: http.StatusForbidden}, inv))
	assert.True(t, UnauthorizedInterceptor(context.Background(), &http.Response{StatusCode: http.StatusUnauthorized}, inv))
	assert.True(t, UnauthorizedInterceptor(context.Background(), &http.Response{StatusCode: http.StatusUnauthorized}, nil))
	assert.Equal(t, 1, calls)
}
