package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const leadColumns = `id, team_id, first_name, last_name, email, phone, status, priority,
	current_action, current_action_date, ai_score, assigned_to, formation_type_id,
	last_contact_date, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
	// roles decides which leads are closed and therefore not counted as load.
	roles entity.StatusRoles
}

func NewLeadRepository(db *sql.DB, vocab entity.StatusVocabulary) *LeadRepository {
	return &LeadRepository{DB: db, roles: entity.ResolveStatusRoles(nil, vocab)}
}

func (r *LeadRepository) ListByTeam(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE team_id = $1`
	args := []any{filter.TeamID}

	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}
	if filter.ExcludeParked {
		args = append(args, pq.Array([]string{string(entity.ActionWaitingResponse), string(entity.ActionDoNotContact)}))
		query += fmt.Sprintf(" AND current_action <> ALL($%d)", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	return lead, err
}

// Upsert inserts the lead, or refreshes the contact fields of the lead that
// already carries the same e-mail in the team. lead.ID is set to the stored id.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, team_id, first_name, last_name, email, phone, status, priority,
			current_action, ai_score, formation_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (team_id, email) WHERE email <> ''
		DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), leads.first_name),
			last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), leads.last_name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			formation_type_id = COALESCE(EXCLUDED.formation_type_id, leads.formation_type_id),
			updated_at = EXCLUDED.updated_at
		RETURNING id, status, assigned_to, created_at
	`

	var assignedTo sql.NullString
	err := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.TeamID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Status,
		string(lead.Priority),
		string(lead.CurrentAction),
		lead.AIScore,
		lead.FormationTypeID,
		lead.CreatedAt,
	).Scan(&lead.ID, &lead.Status, &assignedTo, &lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	lead.AssignedTo = stringPtr(assignedTo)
	return nil
}

func (r *LeadRepository) UpdateAction(ctx context.Context, id string, update entity.LeadActionUpdate) error {
	now := time.Now().UTC()
	var contactedAt *time.Time
	if update.Contacted {
		contactedAt = &now
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE leads
		   SET current_action = $2,
		       current_action_date = $3,
		       last_contact_date = COALESCE($4, last_contact_date),
		       updated_at = $5
		 WHERE id = $1`,
		id, string(update.Action), update.ActionDate, contactedAt, now,
	)
	if err != nil {
		return fmt.Errorf("update lead action: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) Assign(ctx context.Context, leadID, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET assigned_to = $2, updated_at = $3 WHERE id = $1`,
		leadID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("assign lead: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) ClearAssignment(ctx context.Context, leadID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET assigned_to = NULL, updated_at = $2 WHERE id = $1`,
		leadID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("clear lead assignment: %w", err)
	}
	return nil
}

// CountActiveByUsers counts, per user, the assigned leads that are neither
// closed nor marked do_not_contact. Users without leads are absent from the map.
func (r *LeadRepository) CountActiveByUsers(ctx context.Context, teamID string, userIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	// status is folded in Go so load and the queue agree on what "closed" means
	rows, err := r.DB.QueryContext(ctx, `
		SELECT assigned_to, status
		  FROM leads
		 WHERE team_id = $1
		   AND assigned_to = ANY($2)
		   AND current_action <> $3`,
		teamID, pq.Array(userIDs), string(entity.ActionDoNotContact),
	)
	if err != nil {
		return nil, fmt.Errorf("count active leads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, status string
		if err := rows.Scan(&userID, &status); err != nil {
			return nil, fmt.Errorf("scan active leads: %w", err)
		}
		tallyLoad(counts, r.roles, userID, status)
	}
	return counts, rows.Err()
}

func tallyLoad(counts map[string]int, roles entity.StatusRoles, userID, status string) {
	if roles.RoleOf(status).Closed() {
		return
	}
	counts[userID]++
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l                entity.Lead
		priority, action string
		actionDate       sql.NullTime
		score            sql.NullFloat64
		assignedTo       sql.NullString
		formationTypeID  sql.NullString
		lastContactDate  sql.NullTime
	)

	err := row.Scan(
		&l.ID, &l.TeamID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Status, &priority,
		&action, &actionDate, &score, &assignedTo, &formationTypeID,
		&lastContactDate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	l.Priority = entity.Priority(priority)
	l.CurrentAction = entity.Action(action)
	l.CurrentActionDate = timePtr(actionDate)
	if score.Valid {
		l.AIScore = &score.Float64
	}
	l.AssignedTo = stringPtr(assignedTo)
	l.FormationTypeID = stringPtr(formationTypeID)
	l.LastContactDate = timePtr(lastContactDate)

	return &l, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
