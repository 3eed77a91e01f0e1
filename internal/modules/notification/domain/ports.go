package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DueTask is the slice of a task the deadline scan needs: identity, display
// title and the due timestamp that keys the notification.
type DueTask struct {
	ID        uuid.UUID `db:"id"`
	ProjectID uuid.UUID `db:"project_id"`
	Title     string    `db:"title"`
	DueDate   time.Time `db:"due_date"`
}

// TaskReader provides read access to tasks owned by the task collaborator.
type TaskReader interface {
	// DueWithin returns the user's incomplete assigned tasks whose due time
	// falls between now and now+window, soonest first.
	DueWithin(ctx context.Context, userID uuid.UUID, window time.Duration) ([]DueTask, error)
}

type DirectoryUser struct {
	ID       uuid.UUID `db:"id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
}

// UserDirectory resolves mention candidates against the user collaborator.
type UserDirectory interface {
	// ResolveHandles looks up users by username or email, case-insensitively.
	// Unknown handles are simply absent from the result.
	ResolveHandles(ctx context.Context, usernames, emails []string) ([]DirectoryUser, error)
}
