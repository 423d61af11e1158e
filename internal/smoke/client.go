package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type client struct {
	rc *resty.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &client{rc: rc}
}

func (c *client) health(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode())
	}
	return nil
}

func (c *client) events(ctx context.Context) ([]Event, error) {
	var out []Event
	resp, err := c.rc.R().SetContext(ctx).SetResult(&out).Get("/api/events")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list events: status %d", resp.StatusCode())
	}
	return out, nil
}

// join posts one join and returns the response status.
func (c *client) join(ctx context.Context, eventID string) (int, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("id", eventID).
		Post("/api/events/{id}/join")
	if err != nil {
		return 0, fmt.Errorf("join %s: %w", eventID, err)
	}
	return resp.StatusCode(), nil
}

func (c *client) notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	resp, err := c.rc.R().SetContext(ctx).SetResult(&out).Get("/api/notifications")
	if err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("drain notifications: status %d", resp.StatusCode())
	}
	return out, nil
}
