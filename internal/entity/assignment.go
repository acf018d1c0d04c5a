package entity

import (
	"context"
	"time"
)

type FormationAssignment struct {
	ID              string         `json:"id"`
	TeamID          string         `json:"team_id"`
	UserID          string         `json:"user_id"`
	FormationTypeID string         `json:"formation_type_id"`
	Priority        int            `json:"priority"`
	Weekdays        []time.Weekday `json:"weekdays,omitempty"`
	IsActive        bool           `json:"is_active"`
	ActiveLeads     int            `json:"active_leads"`
}

// WorksOn reports whether the assignment covers the given weekday. No weekdays means every day.
func (a FormationAssignment) WorksOn(day time.Weekday) bool {
	if len(a.Weekdays) == 0 {
		return true
	}
	for _, d := range a.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

type FallbackStrategy string

const (
	FallbackNextAvailable FallbackStrategy = "next_available"
	FallbackRoundRobin    FallbackStrategy = "round_robin"
	FallbackManual        FallbackStrategy = "manual"
)

func ParseFallbackStrategy(s string) FallbackStrategy {
	switch FallbackStrategy(s) {
	case FallbackRoundRobin:
		return FallbackRoundRobin
	case FallbackManual:
		return FallbackManual
	default:
		return FallbackNextAvailable
	}
}

type CalendarSettings struct {
	CheckCalendar    bool             `json:"check_calendar"`
	FallbackStrategy FallbackStrategy `json:"fallback_strategy"`
}

type Availability struct {
	HasCalendar bool       `json:"has_calendar"`
	Available   bool       `json:"available"`
	BusyUntil   *time.Time `json:"busy_until,omitempty"`
}

type SkippedUser struct {
	UserID    string     `json:"user_id"`
	Reason    string     `json:"reason"`
	BusyUntil *time.Time `json:"busy_until,omitempty"`
}

// AssignmentStrategy names the branch of the resolver that produced a result.
type AssignmentStrategy string

const (
	StrategyNone       AssignmentStrategy = "none"
	StrategyDirect     AssignmentStrategy = "direct"
	StrategyCalendar   AssignmentStrategy = "calendar"
	StrategyNoCalendar AssignmentStrategy = "no_calendar"
	StrategyFallback   AssignmentStrategy = "fallback"
	StrategyError      AssignmentStrategy = "error"
)

type AssignmentResult struct {
	UserID   *string            `json:"user_id"`
	Reason   string             `json:"reason"`
	Skipped  []SkippedUser      `json:"skipped_users"`
	Strategy AssignmentStrategy `json:"strategy"`
}

func (r AssignmentResult) Assigned() bool {
	return r.UserID != nil
}

type AssignmentLog struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"created_at"`
}

type FormationAssignmentRepositoryInterface interface {
	// ListActive returns active assignments ordered by descending priority.
	ListActive(ctx context.Context, teamID, formationTypeID string) ([]FormationAssignment, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type AssignmentLogRepositoryInterface interface {
	Create(ctx context.Context, log *AssignmentLog) error
	Delete(ctx context.Context, id string) error
}

type SettingsRepositoryInterface interface {
	GetCalendarSettings(ctx context.Context, teamID string) (CalendarSettings, error)
}
