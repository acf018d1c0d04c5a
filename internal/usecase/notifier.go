package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Notifier fans a notification out to the store, connected browsers and e-mail.
// Only the store write is reported; push and mail failures are logged.
type Notifier struct {
	Repo     entity.NotificationRepositoryInterface
	Users    entity.UserRepositoryInterface
	Realtime RealtimePublisher
	Email    EmailService
	Logger   *zap.Logger
}

func NewNotifier(
	repo entity.NotificationRepositoryInterface,
	users entity.UserRepositoryInterface,
	realtime RealtimePublisher,
	email EmailService,
	logger *zap.Logger,
) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{Repo: repo, Users: users, Realtime: realtime, Email: email, Logger: logger}
}

// LeadAssigned tells a user a lead was routed to them. Each assignment is
// announced once, so a lead handed back to a previous owner notifies again.
func (n *Notifier) LeadAssigned(ctx context.Context, lead entity.Lead, userID, assignmentID, reason string) error {
	notification := entity.NewNotification(lead.TeamID, userID, lead.ID, entity.NotificationLeadAssigned,
		"Nouveau lead assigné", lead.FullName()+" : "+reason)
	notification.Ref = assignmentID

	created, err := n.Repo.Create(ctx, notification)
	if err != nil || !created {
		return err
	}
	n.push(*notification)

	n.mail(ctx, userID, func(to string) error {
		return n.Email.SendLeadAssigned(to, lead.FullName(), reason)
	})
	return nil
}

// SLAAlert records an alert for the lead owner. It reports false when the
// same alert was already raised.
func (n *Notifier) SLAAlert(ctx context.Context, alert entity.SLAAlert) (bool, error) {
	if alert.AssignedTo == nil {
		return false, nil
	}
	userID := *alert.AssignedTo

	title := "Délai de réponse bientôt dépassé"
	if alert.Level == entity.SLABreached {
		title = "Délai de réponse dépassé"
	}
	notification := entity.NewNotification(alert.TeamID, userID, alert.LeadID, alert.NotificationKind(),
		title, alert.LeadName+" attend depuis "+alert.Elapsed.Round(time.Minute).String())

	created, err := n.Repo.Create(ctx, notification)
	if err != nil || !created {
		return false, err
	}
	n.push(*notification)

	n.mail(ctx, userID, func(to string) error {
		return n.Email.SendSLAAlert(to, alert.LeadName, alert.Level, alert.Deadline)
	})
	return true, nil
}

func (n *Notifier) push(notification entity.Notification) {
	if n.Realtime != nil {
		n.Realtime.PublishNotification(notification.UserID, notification)
	}
}

func (n *Notifier) mail(ctx context.Context, userID string, send func(to string) error) {
	if n.Email == nil || n.Users == nil {
		return
	}

	to, err := n.Users.FindEmail(ctx, userID)
	if err != nil {
		n.Logger.Warn("no e-mail for user", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if err := send(to); err != nil {
		n.Logger.Warn("notification e-mail failed", zap.String("user_id", userID), zap.Error(err))
	}
}
