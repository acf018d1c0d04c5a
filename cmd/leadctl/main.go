package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/cli"
	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/calendar"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, connect); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// services backs the CLI with the same use cases as the API. Notifications
// are stored but not pushed or mailed.
type services struct {
	*usecase.LeadViewsUseCase
	alerts *usecase.SLAAlertsUseCase
	assign *usecase.AssignLeadUseCase
}

func (s *services) Alerts(ctx context.Context, teamID string) ([]entity.SLAAlert, error) {
	return s.alerts.Alerts(ctx, teamID)
}

func (s *services) Preview(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult {
	return s.assign.Preview(ctx, teamID, formationTypeID)
}

func (s *services) Assign(ctx context.Context, input usecase.AssignLeadInput) (*usecase.AssignLeadOutput, error) {
	return s.assign.Execute(ctx, input)
}

func connect(ctx context.Context, opts *cli.RootOptions) (cli.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dsn := cfg.DB.DSN
	if opts.DatabaseURL != "" {
		dsn = opts.DatabaseURL
	}

	vocabulary, err := config.LoadStatusVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewDBConnection(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	logger := zap.NewNop()
	leads := database.NewLeadRepository(db, vocabulary)
	views := usecase.NewLeadViewsUseCase(leads, database.NewStatusRepository(db), vocabulary, cfg.Location)
	notifier := usecase.NewNotifier(database.NewNotificationRepository(db), nil, nil, nil, logger)
	resolver := usecase.NewAssignmentResolver(
		database.NewFormationAssignmentRepository(db),
		leads,
		database.NewSettingsRepository(db),
		calendar.NewClient(cfg.Calendar.BaseURL, cfg.Calendar.Token, cfg.Calendar.Timeout, logger),
		cfg.Location,
		logger,
	)

	return &services{
		LeadViewsUseCase: views,
		alerts:           usecase.NewSLAAlertsUseCase(views, notifier, cfg.SLA.Window, nil, logger),
		assign:           usecase.NewAssignLeadUseCase(leads, database.NewAssignmentLogRepository(db), resolver, notifier, nil, logger),
	}, func() { db.Close() }, nil
}
