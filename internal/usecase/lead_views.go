package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// LeadViewsUseCase fetches a fresh snapshot of a team's leads and derives the
// queue and dashboard views from it. Nothing is cached between calls.
type LeadViewsUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Statuses   entity.StatusRepositoryInterface
	Vocabulary entity.StatusVocabulary
	Clock      Clock
	Location   *time.Location
}

func NewLeadViewsUseCase(
	leads entity.LeadRepositoryInterface,
	statuses entity.StatusRepositoryInterface,
	vocabulary entity.StatusVocabulary,
	loc *time.Location,
) *LeadViewsUseCase {
	return &LeadViewsUseCase{
		Leads:      leads,
		Statuses:   statuses,
		Vocabulary: vocabulary,
		Clock:      time.Now,
		Location:   loc,
	}
}

type snapshot struct {
	leads    []entity.Lead
	statuses []entity.CustomStatus
	roles    entity.StatusRoles
	now      time.Time
}

func (uc *LeadViewsUseCase) snapshot(ctx context.Context, teamID, assignedTo string, excludeParked bool) (*snapshot, error) {
	if teamID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "team_id is required"}
	}

	statuses, err := uc.Statuses.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fetchFailed(err)
	}

	leads, err := uc.Leads.ListByTeam(ctx, entity.LeadFilter{
		TeamID:        teamID,
		AssignedTo:    assignedTo,
		ExcludeParked: excludeParked,
	})
	if err != nil {
		return nil, fetchFailed(err)
	}

	return &snapshot{
		leads:    leads,
		statuses: statuses,
		roles:    entity.ResolveStatusRoles(statuses, uc.Vocabulary),
		now:      uc.now(),
	}, nil
}

func (uc *LeadViewsUseCase) Queue(ctx context.Context, teamID, assignedTo string) ([]entity.Lead, error) {
	snap, err := uc.snapshot(ctx, teamID, assignedTo, true)
	if err != nil {
		return nil, err
	}
	return BuildQueue(snap.leads, snap.roles, snap.now), nil
}

func (uc *LeadViewsUseCase) Dashboard(ctx context.Context, teamID, assignedTo string) (*Dashboard, error) {
	snap, err := uc.snapshot(ctx, teamID, assignedTo, false)
	if err != nil {
		return nil, err
	}
	d := ComputeDashboard(snap.leads, snap.statuses, snap.roles, snap.now)
	return &d, nil
}

func (uc *LeadViewsUseCase) now() time.Time {
	now := time.Now
	if uc.Clock != nil {
		now = uc.Clock
	}
	loc := uc.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}
