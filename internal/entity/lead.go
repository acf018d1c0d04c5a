package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHot    Priority = "hot"
	PriorityWarm   Priority = "warm"
	PriorityCold   Priority = "cold"
	PriorityNone   Priority = "none"
)

// Rank orders priorities for the work queue. Cold, none and unknown values share the last tier.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHot:
		return 1
	case PriorityWarm:
		return 2
	default:
		return 3
	}
}

type Action string

const (
	ActionCall            Action = "call"
	ActionEmail           Action = "email"
	ActionSMS             Action = "sms"
	ActionWhatsApp        Action = "whatsapp"
	ActionMeeting         Action = "meeting"
	ActionFollowUp        Action = "follow_up"
	ActionWaitingResponse Action = "waiting_response"
	ActionDoNotContact    Action = "do_not_contact"
	ActionNone            Action = "none"
)

// Actions lists every action kind in display order.
var Actions = []Action{
	ActionCall,
	ActionEmail,
	ActionSMS,
	ActionWhatsApp,
	ActionMeeting,
	ActionFollowUp,
	ActionWaitingResponse,
	ActionDoNotContact,
	ActionNone,
}

func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return ActionNone, true
	}
	for _, known := range Actions {
		if known == a {
			return a, true
		}
	}
	return "", false
}

// Parked reports whether the action takes the lead out of the work queue.
func (a Action) Parked() bool {
	return a == ActionWaitingResponse || a == ActionDoNotContact
}

type Lead struct {
	ID                string     `json:"id"`
	TeamID            string     `json:"team_id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Status            string     `json:"status"`
	Priority          Priority   `json:"priority"`
	CurrentAction     Action     `json:"current_action"`
	CurrentActionDate *time.Time `json:"current_action_date,omitempty"`
	AIScore           *float64   `json:"ai_score,omitempty"`
	AssignedTo        *string    `json:"assigned_to,omitempty"`
	FormationTypeID   *string    `json:"formation_type_id,omitempty"`
	LastContactDate   *time.Time `json:"last_contact_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Score returns the AI score, 0 when absent.
func (l Lead) Score() float64 {
	if l.AIScore == nil {
		return 0
	}
	return *l.AIScore
}

type LeadFilter struct {
	TeamID     string
	AssignedTo string
	// ExcludeParked drops leads whose action is waiting_response or do_not_contact.
	ExcludeParked bool
}

type LeadActionUpdate struct {
	Action     Action
	ActionDate *time.Time
	Contacted  bool
}

type LeadRepositoryInterface interface {
	ListByTeam(ctx context.Context, filter LeadFilter) ([]Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Upsert(ctx context.Context, lead *Lead) error
	UpdateAction(ctx context.Context, id string, update LeadActionUpdate) error
	Assign(ctx context.Context, leadID, userID string) error
	ClearAssignment(ctx context.Context, leadID string) error
	CountActiveByUsers(ctx context.Context, teamID string, userIDs []string) (map[string]int, error)
}
