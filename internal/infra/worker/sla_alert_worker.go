package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type AlertRunner interface {
	Run(ctx context.Context, teamID string) (int, error)
}

// SLAAlertWorker periodically raises response-time alerts for every team.
type SLAAlertWorker struct {
	teams        entity.TeamRepositoryInterface
	alerts       AlertRunner
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewSLAAlertWorker(teams entity.TeamRepositoryInterface, alerts AlertRunner, tick time.Duration, logger *zap.Logger) *SLAAlertWorker {
	if tick <= 0 {
		tick = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAAlertWorker{teams: teams, alerts: alerts, tickInterval: tick, logger: logger}
}

// Start runs a first sweep immediately, then one per tick until ctx is done.
func (w *SLAAlertWorker) Start(ctx context.Context) {
	w.logger.Info("sla alert worker started", zap.Duration("tick", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla alert worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SLAAlertWorker) sweep(ctx context.Context) {
	teamIDs, err := w.teams.ListIDs(ctx)
	if err != nil {
		w.logger.Error("list teams for sla sweep", zap.Error(err))
		return
	}

	total := 0
	for _, teamID := range teamIDs {
		if ctx.Err() != nil {
			return
		}
		raised, err := w.alerts.Run(ctx, teamID)
		if err != nil {
			w.logger.Warn("sla sweep failed", zap.String("team_id", teamID), zap.Error(err))
			continue
		}
		total += raised
	}

	if total > 0 {
		w.logger.Info("sla alerts raised", zap.Int("count", total), zap.Int("teams", len(teamIDs)))
	}
}
