package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const DefaultSLAWindow = 24 * time.Hour

// slaWarningRatio is the share of the response window after which a warning is raised.
const slaWarningRatio = 0.8

// AggregateSLAAlerts lists fresh, never-contacted leads that are close to or
// past their response deadline. Breached alerts come first, then the oldest.
func AggregateSLAAlerts(leads []entity.Lead, roles entity.StatusRoles, window time.Duration, now time.Time) []entity.SLAAlert {
	if window <= 0 {
		window = DefaultSLAWindow
	}
	warnAfter := time.Duration(float64(window) * slaWarningRatio)

	alerts := []entity.SLAAlert{}
	for _, l := range leads {
		if l.LastContactDate != nil || l.CurrentAction == entity.ActionDoNotContact {
			continue
		}
		if !roles.RoleOf(l.Status).Fresh() {
			continue
		}

		elapsed := now.Sub(l.CreatedAt)
		var level entity.SLALevel
		switch {
		case elapsed > window:
			level = entity.SLABreached
		case elapsed >= warnAfter:
			level = entity.SLAWarning
		default:
			continue
		}

		alerts = append(alerts, entity.SLAAlert{
			LeadID:     l.ID,
			TeamID:     l.TeamID,
			LeadName:   l.FullName(),
			AssignedTo: l.AssignedTo,
			Level:      level,
			Elapsed:    elapsed,
			Deadline:   l.CreatedAt.Add(window),
		})
	}

	slices.SortStableFunc(alerts, func(a, b entity.SLAAlert) int {
		if a.Level != b.Level {
			if a.Level == entity.SLABreached {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Elapsed, a.Elapsed)
	})
	return alerts
}

type SLAAlertsUseCase struct {
	Views    *LeadViewsUseCase
	Notifier *Notifier
	Window   time.Duration
	Recorder Recorder
	Logger   *zap.Logger
}

func NewSLAAlertsUseCase(views *LeadViewsUseCase, notifier *Notifier, window time.Duration, recorder Recorder, logger *zap.Logger) *SLAAlertsUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAAlertsUseCase{Views: views, Notifier: notifier, Window: window, Recorder: recorder, Logger: logger}
}

// Alerts computes the current alerts of a team without notifying anyone.
func (uc *SLAAlertsUseCase) Alerts(ctx context.Context, teamID string) ([]entity.SLAAlert, error) {
	snap, err := uc.Views.snapshot(ctx, teamID, "", false)
	if err != nil {
		return nil, err
	}
	return AggregateSLAAlerts(snap.leads, snap.roles, uc.Window, snap.now), nil
}

// Run computes the alerts of a team and notifies owners of the new ones.
// It returns the number of notifications raised.
func (uc *SLAAlertsUseCase) Run(ctx context.Context, teamID string) (int, error) {
	alerts, err := uc.Alerts(ctx, teamID)
	if err != nil {
		return 0, err
	}

	raised := 0
	for _, alert := range alerts {
		created, err := uc.Notifier.SLAAlert(ctx, alert)
		if err != nil {
			uc.Logger.Warn("sla notification failed", zap.String("lead_id", alert.LeadID), zap.Error(err))
			continue
		}
		if created {
			raised++
			uc.Recorder.RecordSLAAlert(string(alert.Level))
		}
	}
	return raised, nil
}
