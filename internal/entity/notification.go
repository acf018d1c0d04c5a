package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationLeadAssigned NotificationKind = "lead_assigned"
	NotificationSLAWarning   NotificationKind = "sla_warning"
	NotificationSLABreach    NotificationKind = "sla_breach"
)

type Notification struct {
	ID        string           `json:"id"`
	TeamID    string           `json:"team_id"`
	UserID    string           `json:"user_id"`
	LeadID    string           `json:"lead_id"`
	Kind      NotificationKind `json:"kind"`
	// Ref names the event behind the notification, such as an assignment
	// log id. Notifications with the same Ref are raised once.
	Ref       string           `json:"ref,omitempty"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewNotification(teamID, userID, leadID string, kind NotificationKind, title, body string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		UserID:    userID,
		LeadID:    leadID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
}

type NotificationRepositoryInterface interface {
	// Create inserts the notification and reports false when one already exists for the same lead, user, kind and ref.
	Create(ctx context.Context, n *Notification) (bool, error)
	ListUnread(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type SLALevel string

const (
	SLAWarning  SLALevel = "warning"
	SLABreached SLALevel = "breached"
)

type SLAAlert struct {
	LeadID     string        `json:"lead_id"`
	TeamID     string        `json:"team_id"`
	LeadName   string        `json:"lead_name"`
	AssignedTo *string       `json:"assigned_to,omitempty"`
	Level      SLALevel      `json:"level"`
	Elapsed    time.Duration `json:"elapsed"`
	Deadline   time.Time     `json:"deadline"`
}

func (a SLAAlert) NotificationKind() NotificationKind {
	if a.Level == SLABreached {
		return NotificationSLABreach
	}
	return NotificationSLAWarning
}

// LeadEvent travels on the broker when a lead is captured and needs an owner.
type LeadEvent struct {
	LeadID          string `json:"lead_id"`
	TeamID          string `json:"team_id"`
	FormationTypeID string `json:"formation_type_id"`
	Origin          string `json:"origin"`
}
