package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
)

// PgTaskReader reads due-soon tasks from the task collaborator's tables.
type PgTaskReader struct {
	db *sqlx.DB
}

func NewPgTaskReader(db *sqlx.DB) *PgTaskReader {
	return &PgTaskReader{db: db}
}

func (r *PgTaskReader) DueWithin(ctx context.Context, userID uuid.UUID, window time.Duration) ([]domain.DueTask, error) {
	query := `
		SELECT id, project_id, title, due_date
		FROM tasks
		WHERE assignee_id = $1
		  AND due_date IS NOT NULL
		  AND due_date BETWEEN NOW() AND $2
		  AND completed = FALSE
		  AND status <> 'done'
		ORDER BY due_date ASC
	`
	cutoff := time.Now().Add(window)

	var tasks []domain.DueTask
	if err := r.db.SelectContext(ctx, &tasks, query, userID, cutoff); err != nil {
		return nil, err
	}
	return tasks, nil
}
