package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/cache"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/http/router"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/calendar"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/infra/realtime"
	"github.com/xavierca1/ligue-leads/internal/infra/worker"
	"github.com/xavierca1/ligue-leads/internal/logging"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Must(logging.NewLogger("dev")).Fatal("invalid configuration", zap.Error(err))
	}

	logger := logging.Must(logging.NewLogger(cfg.Env))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infra
	db, err := database.NewDBConnection(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	vocabulary, err := config.LoadStatusVocabulary(cfg.VocabularyFile)
	if err != nil {
		logger.Fatal("status vocabulary", zap.Error(err))
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("redis unavailable, settings cache disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal("rabbitmq unavailable", zap.Error(err))
	}
	defer rabbit.Close()

	// 2. Repositories
	leadRepo := database.NewLeadRepository(db, vocabulary)
	statusRepo := database.NewStatusRepository(db)
	assignmentRepo := database.NewFormationAssignmentRepository(db)
	logRepo := database.NewAssignmentLogRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	teamRepo := database.NewTeamRepository(db)
	userRepo := database.NewUserRepository(db)
	settingsRepo := cache.NewCachedSettingsRepository(database.NewSettingsRepository(db), rdb, cfg.Redis.Settings, logger)

	// 3. Adapters
	calendarClient := &meteredCalendar{next: calendar.NewClient(cfg.Calendar.BaseURL, cfg.Calendar.Token, cfg.Calendar.Timeout, logger)}
	producer := queue.NewProducer(rabbit.Ch)
	hub := realtime.NewHub(cfg.HTTP.AllowedOrigins, logger)

	var email usecase.EmailService
	if cfg.Mail.Enabled() {
		email = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From, cfg.Location)
	} else {
		logger.Info("MAIL_HOST not set, e-mail notifications disabled")
	}

	// 4. Use cases
	recorder := middleware.PromRecorder{}
	notifier := usecase.NewNotifier(notificationRepo, userRepo, hub, email, logger)
	resolver := usecase.NewAssignmentResolver(assignmentRepo, leadRepo, settingsRepo, calendarClient, cfg.Location, logger)
	assignLeadUC := usecase.NewAssignLeadUseCase(leadRepo, logRepo, resolver, notifier, recorder, logger)
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, producer, logger)
	updateActionUC := usecase.NewUpdateLeadActionUseCase(leadRepo)
	viewsUC := usecase.NewLeadViewsUseCase(leadRepo, statusRepo, vocabulary, cfg.Location)
	slaUC := usecase.NewSLAAlertsUseCase(viewsUC, notifier, cfg.SLA.Window, recorder, logger)

	// 5. Workers
	consumerCh, err := rabbit.Conn.Channel()
	if err != nil {
		logger.Fatal("open consumer channel", zap.Error(err))
	}
	assignmentWorker := queue.NewWorker(consumerCh, assignLeadUC, logger)
	go func() {
		if err := assignmentWorker.Start(ctx, queue.QueueName); err != nil {
			logger.Error("assignment worker stopped", zap.Error(err))
		}
	}()

	slaWorker := worker.NewSLAAlertWorker(teamRepo, slaUC, cfg.SLA.TickInterval, logger)
	go slaWorker.Start(ctx)

	rateLimiter := handlers.NewRateLimiter(10, time.Minute)
	go rateLimiter.Cleanup(ctx, 5*time.Minute)

	// 6. HTTP
	health := handlers.NewHealthHandler(map[string]handlers.Checker{
		"database": db.PingContext,
		"rabbitmq": func(context.Context) error {
			if !rabbit.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		},
		"redis": redisChecker(rdb),
	})

	h := router.New(router.Handlers{
		Leads:         handlers.NewLeadHandler(captureLeadUC, updateActionUC, rateLimiter),
		Views:         handlers.NewLeadViewsHandler(viewsUC, slaUC),
		Assignments:   handlers.NewAssignmentHandler(assignLeadUC, assignmentRepo),
		Notifications: handlers.NewNotificationHandler(notificationRepo),
		Health:        health,
		Realtime:      hub,
	}, cfg.HTTP.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("leads api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func redisChecker(rdb *redis.Client) handlers.Checker {
	if rdb == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// meteredCalendar counts calendar failures.
type meteredCalendar struct {
	next *calendar.Client
}

func (c *meteredCalendar) CheckAvailability(ctx context.Context, userID string, window time.Duration) (entity.Availability, error) {
	a, err := c.next.CheckAvailability(ctx, userID, window)
	if err != nil {
		middleware.RecordIntegrationError("calendar")
	}
	return a, err
}
