package usecase

import "time"

type CaptureLeadInput struct {
	TeamID          string   `json:"team_id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	FormationTypeID string   `json:"formation_type_id"`
	Priority        string   `json:"priority"`
	AIScore         *float64 `json:"ai_score"`
	Origin          string   `json:"origin"`
}

type CaptureLeadOutput struct {
	ID     string `json:"id"`
	Queued bool   `json:"queued"`
	Msg    string `json:"msg"`
}

type UpdateLeadActionInput struct {
	LeadID     string     `json:"lead_id"`
	Action     string     `json:"current_action"`
	ActionDate *time.Time `json:"current_action_date"`
	// Contacted records that the lead was reached, stamping last_contact_date.
	Contacted bool `json:"contacted"`
}
