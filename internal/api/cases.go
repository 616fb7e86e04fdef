package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListCases returns the cases visible to the signed-in user, newest first.
func (c *Client) ListCases(ctx context.Context, filter CaseFilter) ([]Case, error) {
	var cases []Case
	if err := c.do(ctx, http.MethodGet, "/cases", filter.values(), nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// GetCase returns a case with its hearings and timeline. id is the numeric
// database id, not the display id.
func (c *Client) GetCase(ctx context.Context, id int64) (*Case, error) {
	var cs Case
	if err := c.do(ctx, http.MethodGet, caseURL(id), nil, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// CreateCase files a new case.
func (c *Client) CreateCase(ctx context.Context, in CaseInput) (*Case, error) {
	var resp struct {
		Case Case `json:"case"`
	}
	if err := c.do(ctx, http.MethodPost, "/cases", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Case, nil
}

// UpdateCase changes a case.
func (c *Client) UpdateCase(ctx context.Context, id int64, in CaseInput) (*Case, error) {
	var resp struct {
		Case Case `json:"case"`
	}
	if err := c.do(ctx, http.MethodPut, caseURL(id), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Case, nil
}

// DeleteCase removes a case.
func (c *Client) DeleteCase(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, caseURL(id), nil, nil, nil)
}

// SearchCases matches q against case number, title, parties and type.
func (c *Client) SearchCases(ctx context.Context, q string) ([]Case, error) {
	var cases []Case
	if err := c.do(ctx, http.MethodGet, "/cases/search", url.Values{"q": {q}}, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// QRLookup resolves a case number scanned from a QR code.
func (c *Client) QRLookup(ctx context.Context, caseNumber string) (*Case, error) {
	var cs Case
	if err := c.do(ctx, http.MethodGet, "/cases/qr/"+url.PathEscape(caseNumber), nil, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func caseURL(id int64) string {
	return "/cases/" + strconv.FormatInt(id, 10)
}
