package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the notification HTTP API with a bearer token. It
// implements Fetcher.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type listResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	Pagination    struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

func (c *Client) List(ctx context.Context, limit int) (*ListPage, error) {
	url := fmt.Sprintf("%s/notifications?limit=%d&offset=0", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode notification list: %w", err)
	}
	return &ListPage{
		Notifications: body.Notifications,
		UnreadCount:   body.UnreadCount,
		Total:         body.Pagination.Total,
	}, nil
}

func (c *Client) MarkRead(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/notifications/%s/read", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/notifications/read-all", nil)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("server returned %s for %s %s", resp.Status, req.Method, req.URL.Path)
	}
	return resp, nil
}
