package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListHearings returns hearings, optionally for one case.
func (c *Client) ListHearings(ctx context.Context, caseID int64) ([]Hearing, error) {
	var hearings []Hearing
	if err := c.do(ctx, http.MethodGet, "/hearings", byCase(caseID), nil, &hearings); err != nil {
		return nil, err
	}
	return hearings, nil
}

// CreateHearing schedules a hearing.
func (c *Client) CreateHearing(ctx context.Context, in HearingInput) (*Hearing, error) {
	var resp struct {
		Hearing Hearing `json:"hearing"`
	}
	if err := c.do(ctx, http.MethodPost, "/hearings", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Hearing, nil
}

// UpdateHearing changes a hearing.
func (c *Client) UpdateHearing(ctx context.Context, id int64, in HearingInput) (*Hearing, error) {
	var resp struct {
		Hearing Hearing `json:"hearing"`
	}
	if err := c.do(ctx, http.MethodPut, "/hearings/"+strconv.FormatInt(id, 10), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Hearing, nil
}

// DeleteHearing cancels a hearing.
func (c *Client) DeleteHearing(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/hearings/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// Calendar returns hearings as calendar events.
func (c *Client) Calendar(ctx context.Context) ([]CalendarEvent, error) {
	var events []CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/hearings/calendar", nil, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
