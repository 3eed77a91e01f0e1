package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Workspace struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	OwnerID uuid.UUID `db:"owner_id"`
}

type Member struct {
	WorkspaceID uuid.UUID `json:"workspace_id" db:"workspace_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Role        string    `json:"role" db:"role"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
}

// CanInvite reports whether a member with the given role may add others.
func CanInvite(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
