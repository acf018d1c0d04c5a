package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type UpdateLeadActionUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewUpdateLeadActionUseCase(leads entity.LeadRepositoryInterface) *UpdateLeadActionUseCase {
	return &UpdateLeadActionUseCase{Leads: leads}
}

func (uc *UpdateLeadActionUseCase) Execute(ctx context.Context, input UpdateLeadActionInput) error {
	if input.LeadID == "" {
		return &DomainError{Code: CodeValidation, Message: "lead_id is required"}
	}

	action, ok := entity.ParseAction(input.Action)
	if !ok {
		return &DomainError{Code: CodeValidation, Message: "unknown action: " + input.Action}
	}

	// a lead with nothing planned carries no date
	date := input.ActionDate
	if action == entity.ActionNone {
		date = nil
	}

	err := uc.Leads.UpdateAction(ctx, input.LeadID, entity.LeadActionUpdate{
		Action:     action,
		ActionDate: date,
		Contacted:  input.Contacted,
	})
	if errors.Is(err, entity.ErrNotFound) {
		return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}
	if err != nil {
		return &TechnicalError{Code: CodeDatabase, Message: "failed to update lead action", Err: err}
	}
	return nil
}
