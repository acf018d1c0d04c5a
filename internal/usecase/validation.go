package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.TeamID) == "" {
		errors = append(errors, ValidationError{"team_id", "is required"})
	}

	if strings.TrimSpace(input.FirstName) == "" && strings.TrimSpace(input.LastName) == "" {
		errors = append(errors, ValidationError{"name", "first_name or last_name is required"})
	}

	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	if email == "" && phone == "" {
		errors = append(errors, ValidationError{"contact", "email or phone is required"})
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}
	if phone != "" && !isValidPhoneNumber(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.Priority != "" && !isKnownPriority(entity.Priority(input.Priority)) {
		errors = append(errors, ValidationError{"priority", "must be urgent, hot, warm, cold or none"})
	}

	if input.AIScore != nil && (*input.AIScore < 0 || *input.AIScore > 100) {
		errors = append(errors, ValidationError{"ai_score", "must be between 0 and 100"})
	}

	return errors
}

func joinValidationErrors(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 9 && len(cleaned) <= 15
}

func isKnownPriority(p entity.Priority) bool {
	switch p {
	case entity.PriorityUrgent, entity.PriorityHot, entity.PriorityWarm, entity.PriorityCold, entity.PriorityNone:
		return true
	}
	return false
}
