package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type StatusRepository struct {
	DB *sql.DB
}

func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{DB: db}
}

// ListByTeam returns the team's custom statuses in display order.
func (r *StatusRepository) ListByTeam(ctx context.Context, teamID string) ([]entity.CustomStatus, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, team_id, name, color, position
		   FROM custom_statuses
		  WHERE team_id = $1
		  ORDER BY position, name`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("select custom statuses: %w", err)
	}
	defer rows.Close()

	statuses := []entity.CustomStatus{}
	for rows.Next() {
		var s entity.CustomStatus
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Name, &s.Color, &s.Position); err != nil {
			return nil, fmt.Errorf("scan custom status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
