package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListTasks returns the signed-in user's tasks, optionally for one case.
func (c *Client) ListTasks(ctx context.Context, caseID int64) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", byCase(caseID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTask changes a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) (*Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+strconv.FormatInt(id, 10), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
