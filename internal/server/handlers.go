package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/courtdesk/internal/api"
	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/guard"
	"github.com/felixgeelhaar/courtdesk/internal/portal"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/toast"
)

// ErrorResponse is the body of every failed shell call.
type ErrorResponse struct {
	Error string       `json:"error"`
	Code  string       `json:"code,omitempty"`
	View  *portal.View `json:"view,omitempty"`
}

// SessionResponse describes the live session.
type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *session.User   `json:"user,omitempty"`
	Role          string          `json:"role,omitempty"`
	Claims        *session.Claims `json:"claims,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error, view *portal.View) {
	resp := ErrorResponse{Error: err.Error(), View: view}
	if code, ok := errors.CodeOf(err); ok {
		resp.Code = string(code)
		s.metrics.Errors.WithLabelValues(resp.Code, "server").Inc()
	}
	if apiErr, ok := api.AsError(err); ok {
		resp.Error = apiErr.Message
	}
	s.logger.WithContext(r.Context()).WithError(err).Debug("shell request failed", "path", r.URL.Path)
	s.writeJSON(w, status, resp)
}

// handleView evaluates ?path= and reports where the shell lands.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("path")
	if target == "" {
		s.writeJSON(w, http.StatusOK, s.portal.Current())
		return
	}
	s.writeJSON(w, http.StatusOK, s.portal.Navigate(target))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeAPIDecode, "invalid login body", err), nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeSessionInvalid, "email and password are required"), nil)
		return
	}

	view, err := s.portal.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusBadGateway
		switch code := api.StatusCode(err); {
		case code == http.StatusUnauthorized:
			status = http.StatusUnauthorized
		case code >= 400 && code < 500:
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err, &view)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	view, err := s.portal.Logout(r.Context())
	if err != nil {
		// The in-memory session is gone either way.
		s.logger.WithContext(r.Context()).WithError(err).Warn("logout did not clear storage")
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := s.portal.Store().Snapshot()
	resp := SessionResponse{Authenticated: snap.IsAuthenticated(), User: snap.User}
	if rl, ok := snap.Role(); ok {
		resp.Role = rl.String()
	}
	if snap.Token != "" {
		if claims, err := session.TokenClaims(snap.Token); err == nil {
			resp.Claims = &claims
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListToasts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.portal.Toasts().List())
}

func (s *Server) handleEnqueueToast(w http.ResponseWriter, r *http.Request) {
	var t toast.Toast
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeToastInvalid, "invalid toast body", err), nil)
		return
	}
	if t.Title == "" && t.Message == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeToastInvalid, "toast needs a title or a message"), nil)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.portal.Toasts().Enqueue(t))
}

func (s *Server) handleDismissToast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeToastInvalid, "invalid toast id", err), nil)
		return
	}
	if !s.portal.Toasts().Dismiss(id) {
		s.writeError(w, r, http.StatusNotFound, errors.New(errors.ErrCodeToastInvalid, "no toast "+strconv.FormatUint(id, 10)), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePage renders a page the guard already let through.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	d, ok := guard.DecisionFromContext(r.Context())
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, s.portal.Navigate(d.Path))
}
