package api

import (
	"context"
	"net/http"
	"strconv"
)

// Contacts lists conversation partners, most recent first.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := c.do(ctx, http.MethodGet, "/messages/contacts", nil, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Conversation returns the messages exchanged with one contact.
func (c *Client) Conversation(ctx context.Context, contactID int64) ([]Message, error) {
	var msgs []Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+strconv.FormatInt(contactID, 10), nil, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage sends text to a contact.
func (c *Client) SendMessage(ctx context.Context, receiverID int64, content string) (*Message, error) {
	body := struct {
		ReceiverID int64  `json:"receiverId"`
		Content    string `json:"content"`
	}{receiverID, content}

	var resp struct {
		Data Message `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
