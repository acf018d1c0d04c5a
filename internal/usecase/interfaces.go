package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type CalendarService interface {
	CheckAvailability(ctx context.Context, userID string, window time.Duration) (entity.Availability, error)
}

type LoadCounter interface {
	CountActiveByUsers(ctx context.Context, teamID string, userIDs []string) (map[string]int, error)
}

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, event entity.LeadEvent) error
}

type EmailService interface {
	SendLeadAssigned(to, leadName, reason string) error
	SendSLAAlert(to, leadName string, level entity.SLALevel, deadline time.Time) error
}

type RealtimePublisher interface {
	PublishNotification(userID string, n entity.Notification)
}

// Recorder receives business counters; implementations are backed by prometheus.
type Recorder interface {
	RecordAssignment(strategy string, assigned bool)
	RecordSLAAlert(level string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAssignment(string, bool) {}
func (nopRecorder) RecordSLAAlert(string)         {}

// Clock returns the current time; tests pin it.
type Clock func() time.Time
