package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListNotes returns the signed-in user's notes, most recently edited first.
func (c *Client) ListNotes(ctx context.Context, caseID int64) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/notes", byCase(caseID), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote adds a note to a case.
func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	var resp struct {
		Note Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPost, "/notes", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

// UpdateNote replaces a note's content.
func (c *Client) UpdateNote(ctx context.Context, id int64, content string) (*Note, error) {
	var resp struct {
		Note Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPut, "/notes/"+strconv.FormatInt(id, 10), nil, NoteInput{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
