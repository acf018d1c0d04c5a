package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type FormationAssignmentRepository struct {
	DB *sql.DB
}

func NewFormationAssignmentRepository(db *sql.DB) *FormationAssignmentRepository {
	return &FormationAssignmentRepository{DB: db}
}

func (r *FormationAssignmentRepository) ListActive(ctx context.Context, teamID, formationTypeID string) ([]entity.FormationAssignment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, team_id, user_id, formation_type_id, priority, weekdays, is_active
		   FROM formation_assignments
		  WHERE team_id = $1 AND formation_type_id = $2 AND is_active
		  ORDER BY priority DESC, id`,
		teamID, formationTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("select formation assignments: %w", err)
	}
	defer rows.Close()

	assignments := []entity.FormationAssignment{}
	for rows.Next() {
		var (
			a        entity.FormationAssignment
			weekdays pq.Int64Array
		)
		if err := rows.Scan(&a.ID, &a.TeamID, &a.UserID, &a.FormationTypeID, &a.Priority, &weekdays, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan formation assignment: %w", err)
		}
		a.Weekdays = toWeekdays(weekdays)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *FormationAssignmentRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE formation_assignments SET is_active = $2 WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("update formation assignment: %w", err)
	}
	return expectOneRow(res)
}

// toWeekdays keeps values in 0 (Sunday) to 6 (Saturday) and drops the rest.
func toWeekdays(days pq.Int64Array) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}
