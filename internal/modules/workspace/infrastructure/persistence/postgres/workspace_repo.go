package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Knaifu0030/task-nexus/internal/modules/workspace/domain"
)

type PgWorkspaceRepository struct {
	db *sqlx.DB
}

func NewPgWorkspaceRepository(db *sqlx.DB) *PgWorkspaceRepository {
	return &PgWorkspaceRepository{db: db}
}

func (r *PgWorkspaceRepository) Get(ctx context.Context, workspaceID uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT id, name, owner_id FROM workspaces
		WHERE id = $1
	`
	var workspace domain.Workspace
	if err := r.db.GetContext(ctx, &workspace, query, workspaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *PgWorkspaceRepository) MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (string, error) {
	query := `
		SELECT role FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`
	var role string
	if err := r.db.GetContext(ctx, &role, query, workspaceID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotMember
		}
		return "", err
	}
	return role, nil
}

func (r *PgWorkspaceRepository) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*) FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, workspaceID, userID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PgWorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, workspaceID, userID, role)
	return err
}

func (r *PgWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT wm.workspace_id, wm.user_id, wm.role, wm.joined_at, u.username, u.email
		FROM workspace_members wm
		JOIN users u ON u.id = wm.user_id
		WHERE wm.workspace_id = $1 AND wm.user_id = $2
	`
	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, workspaceID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PgWorkspaceRepository) FindUserByEmail(ctx context.Context, email string) (*domain.Invitee, error) {
	query := `
		SELECT id, username, email FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	var invitee domain.Invitee
	if err := r.db.GetContext(ctx, &invitee, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &invitee, nil
}
