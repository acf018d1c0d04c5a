package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// DefaultLookahead is how far ahead a calendar must be free for a user to take a lead.
const DefaultLookahead = 2 * time.Hour

const (
	ReasonNoFormationType = "no formation type specified"
	ReasonNoCandidate     = "no user available for this formation type today"
	ReasonFailed          = "assignment failed"
	ReasonManual          = "all users are busy, manual assignment required"
)

// AssignmentResolver picks the owner of a new lead from the formation
// assignments of a team. It never returns an error: failures become an
// unassigned result with ReasonFailed.
type AssignmentResolver struct {
	Assignments entity.FormationAssignmentRepositoryInterface
	Loads       LoadCounter
	Settings    entity.SettingsRepositoryInterface
	Calendar    CalendarService
	Clock       Clock
	Location    *time.Location
	Lookahead   time.Duration
	Logger      *zap.Logger
}

func NewAssignmentResolver(
	assignments entity.FormationAssignmentRepositoryInterface,
	loads LoadCounter,
	settings entity.SettingsRepositoryInterface,
	calendar CalendarService,
	loc *time.Location,
	logger *zap.Logger,
) *AssignmentResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentResolver{
		Assignments: assignments,
		Loads:       loads,
		Settings:    settings,
		Calendar:    calendar,
		Clock:       time.Now,
		Location:    loc,
		Lookahead:   DefaultLookahead,
		Logger:      logger,
	}
}

func (r *AssignmentResolver) Resolve(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult {
	if formationTypeID == "" {
		return unassigned(ReasonNoFormationType, entity.StrategyNone)
	}

	result, err := r.resolve(ctx, teamID, formationTypeID)
	if err != nil {
		r.log().Error("lead assignment failed",
			zap.String("team_id", teamID),
			zap.String("formation_type_id", formationTypeID),
			zap.Error(err))
		return unassigned(ReasonFailed, entity.StrategyError)
	}
	return result
}

func (r *AssignmentResolver) resolve(ctx context.Context, teamID, formationTypeID string) (entity.AssignmentResult, error) {
	assignments, err := r.Assignments.ListActive(ctx, teamID, formationTypeID)
	if err != nil {
		return entity.AssignmentResult{}, fmt.Errorf("list formation assignments: %w", err)
	}

	today := r.now().Weekday()
	candidates := make([]entity.FormationAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.WorksOn(today) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return unassigned(ReasonNoCandidate, entity.StrategyNone), nil
	}

	if err := r.fillLoads(ctx, teamID, candidates); err != nil {
		return entity.AssignmentResult{}, err
	}

	slices.SortStableFunc(candidates, func(a, b entity.FormationAssignment) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ActiveLeads, b.ActiveLeads)
	})

	settings, err := r.Settings.GetCalendarSettings(ctx, teamID)
	if err != nil {
		return entity.AssignmentResult{}, fmt.Errorf("get calendar settings: %w", err)
	}

	if !settings.CheckCalendar {
		first := candidates[0]
		return assigned(first.UserID,
			fmt.Sprintf("assigned by priority (priority %d, %d active leads)", first.Priority, first.ActiveLeads),
			entity.StrategyDirect, nil), nil
	}

	return r.resolveWithCalendar(ctx, candidates, settings.FallbackStrategy)
}

func (r *AssignmentResolver) resolveWithCalendar(
	ctx context.Context,
	candidates []entity.FormationAssignment,
	fallback entity.FallbackStrategy,
) (entity.AssignmentResult, error) {
	skipped := []entity.SkippedUser{}

	for _, c := range candidates {
		availability, err := r.Calendar.CheckAvailability(ctx, c.UserID, r.lookahead())
		if err != nil {
			return entity.AssignmentResult{}, fmt.Errorf("check availability of %s: %w", c.UserID, err)
		}

		if !availability.HasCalendar {
			return assigned(c.UserID, "no calendar connected, availability not verified",
				entity.StrategyNoCalendar, skipped), nil
		}
		if availability.Available {
			return assigned(c.UserID, "available in calendar", entity.StrategyCalendar, skipped), nil
		}

		skipped = append(skipped, entity.SkippedUser{
			UserID:    c.UserID,
			Reason:    r.busyReason(availability.BusyUntil),
			BusyUntil: availability.BusyUntil,
		})
	}

	first := candidates[0]
	switch fallback {
	case entity.FallbackManual:
		res := unassigned(ReasonManual, entity.StrategyFallback)
		res.Skipped = skipped
		return res, nil
	case entity.FallbackRoundRobin:
		return assigned(first.UserID, "all users are busy, assigned by round robin",
			entity.StrategyFallback, skipped), nil
	default:
		return assigned(first.UserID, "all users are busy, assigned to the next available by priority",
			entity.StrategyFallback, skipped), nil
	}
}

func (r *AssignmentResolver) fillLoads(ctx context.Context, teamID string, candidates []entity.FormationAssignment) error {
	userIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		userIDs = append(userIDs, c.UserID)
	}

	loads, err := r.Loads.CountActiveByUsers(ctx, teamID, userIDs)
	if err != nil {
		return fmt.Errorf("count active leads: %w", err)
	}

	for i := range candidates {
		candidates[i].ActiveLeads = loads[candidates[i].UserID]
	}
	return nil
}

func (r *AssignmentResolver) busyReason(until *time.Time) string {
	if until == nil {
		return "busy"
	}
	return "busy until " + until.In(r.location()).Format("15:04")
}

func (r *AssignmentResolver) now() time.Time {
	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}
	return now().In(r.location())
}

func (r *AssignmentResolver) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r *AssignmentResolver) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *AssignmentResolver) lookahead() time.Duration {
	if r.Lookahead <= 0 {
		return DefaultLookahead
	}
	return r.Lookahead
}

func unassigned(reason string, strategy entity.AssignmentStrategy) entity.AssignmentResult {
	return entity.AssignmentResult{Reason: reason, Skipped: []entity.SkippedUser{}, Strategy: strategy}
}

func assigned(userID, reason string, strategy entity.AssignmentStrategy, skipped []entity.SkippedUser) entity.AssignmentResult {
	if skipped == nil {
		skipped = []entity.SkippedUser{}
	}
	id := userID
	return entity.AssignmentResult{UserID: &id, Reason: reason, Skipped: skipped, Strategy: strategy}
}
