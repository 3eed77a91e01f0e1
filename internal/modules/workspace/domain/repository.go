package domain

import (
	"context"

	"github.com/google/uuid"
)

type Invitee struct {
	ID       uuid.UUID `db:"id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
}

type WorkspaceRepository interface {
	// Get returns the workspace or ErrWorkspaceNotFound.
	Get(ctx context.Context, workspaceID uuid.UUID) (*Workspace, error)
	// MemberRole returns the user's role, or ErrNotMember when the user does
	// not belong to the workspace.
	MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error)
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error
	// GetMember returns the enriched membership row after an insert.
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*Member, error)
	// FindUserByEmail resolves an invitee, or ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (*Invitee, error)
}
