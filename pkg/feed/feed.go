// Package feed reconciles a polled notification page with a pushed stream
// into one bounded, ordered client-side view plus an ephemeral toast queue.
//
// The engine mirrors the server's merge contract: records are deduplicated by
// id, sorted newest first, truncated to MaxNotifications, and a record toasts
// at most once, when it first becomes known to the client while unread.
package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// PollInterval is the cadence of the background silent pull. It bounds
	// staleness when the push channel is down; the push channel bounds
	// latency when it is up.
	PollInterval = 15 * time.Second

	// MaxNotifications caps the local cache of most-recent records.
	MaxNotifications = 80

	// MaxToasts caps the visible toast stack; overflow drops the oldest.
	MaxToasts = 3

	// ToastVisibleFor is how long a toast stays up before auto-dismissal.
	ToastVisibleFor = 4500 * time.Millisecond

	// pullLimit is the page size requested from the server on every pull.
	pullLimit = 50
)

// Notification is the wire shape of one record as the server serves it.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListPage is one pull's worth of server truth.
type ListPage struct {
	Notifications []Notification
	UnreadCount   int
	Total         int
}

// Fetcher is the pull/mutate side of the server API the engine consumes.
type Fetcher interface {
	List(ctx context.Context, limit int) (*ListPage, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

// Toast is the ephemeral presentation of a freshly observed unread record.
type Toast struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Message   string
	CreatedAt time.Time
}

// Snapshot is a point-in-time copy of the engine's state.
type Snapshot struct {
	Notifications []Notification
	Toasts        []Toast
	UnreadCount   int
	Hydrated      bool
	Loading       bool
	Err           string
}
