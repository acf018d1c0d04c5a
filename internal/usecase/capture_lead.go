package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// CaptureLeadUseCase stores an inbound lead and queues it for assignment.
type CaptureLeadUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Publisher LeadEventPublisher
	Logger    *zap.Logger
}

func NewCaptureLeadUseCase(leads entity.LeadRepositoryInterface, publisher LeadEventPublisher, logger *zap.Logger) *CaptureLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureLeadUseCase{Leads: leads, Publisher: publisher, Logger: logger}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: joinValidationErrors(errs)}
	}

	priority := entity.Priority(input.Priority)
	if priority == "" {
		priority = entity.PriorityNone
	}

	now := time.Now()
	lead := &entity.Lead{
		ID:            uuid.New().String(),
		TeamID:        input.TeamID,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         strings.TrimSpace(input.Phone),
		Status:        "new",
		Priority:      priority,
		CurrentAction: entity.ActionNone,
		AIScore:       input.AIScore,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.FormationTypeID != "" {
		ft := input.FormationTypeID
		lead.FormationTypeID = &ft
	}

	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to capture lead", Err: err}
	}

	out := &CaptureLeadOutput{ID: lead.ID, Msg: "lead captured"}

	if uc.Publisher == nil || lead.AssignedTo != nil {
		return out, nil
	}

	origin := input.Origin
	if origin == "" {
		origin = "HTTP_CAPTURE"
	}
	event := entity.LeadEvent{
		LeadID:          lead.ID,
		TeamID:          lead.TeamID,
		FormationTypeID: input.FormationTypeID,
		Origin:          origin,
	}

	// the lead is stored either way; an owner can still be set by hand
	if err := uc.Publisher.PublishLeadEvent(ctx, event); err != nil {
		uc.Logger.Error("lead stored but assignment event not published",
			zap.String("lead_id", lead.ID), zap.Error(err))
		return out, nil
	}

	out.Queued = true
	return out, nil
}
