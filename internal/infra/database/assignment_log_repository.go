package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type AssignmentLogRepository struct {
	DB *sql.DB
}

func NewAssignmentLogRepository(db *sql.DB) *AssignmentLogRepository {
	return &AssignmentLogRepository{DB: db}
}

func (r *AssignmentLogRepository) Create(ctx context.Context, l *entity.AssignmentLog) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO assignment_logs (id, lead_id, team_id, user_id, reason, strategy, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.LeadID, l.TeamID, l.UserID, l.Reason, l.Strategy, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assignment log: %w", err)
	}
	return nil
}

func (r *AssignmentLogRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM assignment_logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment log: %w", err)
	}
	return nil
}
