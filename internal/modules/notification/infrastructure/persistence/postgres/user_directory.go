package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
)

// PgUserDirectory resolves mention handles against the users table.
type PgUserDirectory struct {
	db *sqlx.DB
}

func NewPgUserDirectory(db *sqlx.DB) *PgUserDirectory {
	return &PgUserDirectory{db: db}
}

func (r *PgUserDirectory) ResolveHandles(ctx context.Context, usernames, emails []string) ([]domain.DirectoryUser, error) {
	if len(usernames) == 0 && len(emails) == 0 {
		return nil, nil
	}

	var (
		query string
		args  []any
		err   error
	)
	switch {
	case len(emails) == 0:
		query, args, err = sqlx.In(
			`SELECT id, username, email FROM users WHERE LOWER(username) IN (?)`,
			usernames,
		)
	case len(usernames) == 0:
		query, args, err = sqlx.In(
			`SELECT id, username, email FROM users WHERE LOWER(email) IN (?)`,
			emails,
		)
	default:
		query, args, err = sqlx.In(
			`SELECT id, username, email FROM users WHERE LOWER(username) IN (?) OR LOWER(email) IN (?)`,
			usernames, emails,
		)
	}
	if err != nil {
		return nil, err
	}

	var users []domain.DirectoryUser
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return users, nil
}
