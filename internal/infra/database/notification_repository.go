package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO notifications (id, team_id, user_id, lead_id, kind, ref, title, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id, lead_id, kind, ref) DO NOTHING`,
		n.ID, n.TeamID, n.UserID, n.LeadID, string(n.Kind), n.Ref, n.Title, n.Body, n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted == 1, nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, userID string, limit int) ([]entity.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, team_id, user_id, lead_id, kind, ref, title, body, read_at, created_at
		   FROM notifications
		  WHERE user_id = $1 AND read_at IS NULL
		  ORDER BY created_at DESC
		  LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	out := []entity.Notification{}
	for rows.Next() {
		var (
			n      entity.Notification
			kind   string
			readAt sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.TeamID, &n.UserID, &n.LeadID, &kind, &n.Ref, &n.Title, &n.Body, &readAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = entity.NotificationKind(kind)
		n.ReadAt = timePtr(readAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, $2) WHERE id = $1`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return expectOneRow(res)
}
