package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// GetCalendarSettings falls back to no calendar check with next_available
// when the team has no settings row.
func (r *SettingsRepository) GetCalendarSettings(ctx context.Context, teamID string) (entity.CalendarSettings, error) {
	var (
		check    bool
		fallback string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT check_calendar, fallback_strategy FROM team_settings WHERE team_id = $1`,
		teamID,
	).Scan(&check, &fallback)

	if err == sql.ErrNoRows {
		return entity.CalendarSettings{FallbackStrategy: entity.FallbackNextAvailable}, nil
	}
	if err != nil {
		return entity.CalendarSettings{}, fmt.Errorf("select team settings: %w", err)
	}

	return entity.CalendarSettings{
		CheckCalendar:    check,
		FallbackStrategy: entity.ParseFallbackStrategy(fallback),
	}, nil
}
