package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListNotifications returns the signed-in user's notification feed.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notifs []Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+strconv.FormatInt(id, 10)+"/read", nil, nil, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// SendEmail asks the backend to mail a notification.
func (c *Client) SendEmail(ctx context.Context, email Email) error {
	return c.do(ctx, http.MethodPost, "/notifications/send-email", nil, email, nil)
}
