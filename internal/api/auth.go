package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/courtdesk/internal/session"
)

// LoginRequest is the credentials body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

// RegisterRequest creates an account. Role-specific fields are optional.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role,omitempty"`
	Phone          string `json:"phone,omitempty"`
	CitizenID      string `json:"citizenId,omitempty"`
	BarCouncilID   string `json:"barCouncilId,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Experience     string `json:"experience,omitempty"`
	CourtName      string `json:"courtName,omitempty"`
}

// ProfileUpdate changes the signed-in user's profile.
type ProfileUpdate struct {
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Experience     string `json:"experience,omitempty"`
	CourtName      string `json:"courtName,omitempty"`
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.User, error) {
	var resp struct {
		User session.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/auth/change-password", nil, body, nil)
}
