package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListCourtrooms returns the court board, optionally filtered by status.
func (c *Client) ListCourtrooms(ctx context.Context, status string) ([]Courtroom, error) {
	q := url.Values{}
	setIf(q, "status", status)

	var rooms []Courtroom
	if err := c.do(ctx, http.MethodGet, "/courtrooms", q, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateCourtroom changes a courtroom's board entry.
func (c *Client) UpdateCourtroom(ctx context.Context, id int64, update CourtroomUpdate) (*Courtroom, error) {
	var resp struct {
		Courtroom Courtroom `json:"courtroom"`
	}
	if err := c.do(ctx, http.MethodPut, "/courtrooms/"+strconv.FormatInt(id, 10), nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.Courtroom, nil
}
