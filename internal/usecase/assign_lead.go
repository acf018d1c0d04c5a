package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type AssignLeadInput struct {
	LeadID string `json:"lead_id"`
	TeamID string `json:"team_id"`
	// FormationTypeID overrides the lead's own formation type when set.
	FormationTypeID string `json:"formation_type_id,omitempty"`
}

type AssignLeadOutput struct {
	LeadID string                  `json:"lead_id"`
	Result entity.AssignmentResult `json:"result"`
}

type Resolver interface {
	Resolve(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult
}

type AssignLeadUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Logs     entity.AssignmentLogRepositoryInterface
	Resolver Resolver
	Notifier *Notifier
	Recorder Recorder
	Logger   *zap.Logger
}

func NewAssignLeadUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.AssignmentLogRepositoryInterface,
	resolver Resolver,
	notifier *Notifier,
	recorder Recorder,
	logger *zap.Logger,
) *AssignLeadUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignLeadUseCase{
		Leads:    leads,
		Logs:     logs,
		Resolver: resolver,
		Notifier: notifier,
		Recorder: recorder,
		Logger:   logger,
	}
}

// Preview resolves the owner without touching the lead.
func (uc *AssignLeadUseCase) Preview(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult {
	return uc.Resolver.Resolve(ctx, teamID, formationTypeID)
}

func (uc *AssignLeadUseCase) Execute(ctx context.Context, input AssignLeadInput) (*AssignLeadOutput, error) {
	if input.LeadID == "" || input.TeamID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "lead_id and team_id are required"}
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
		}
		return nil, fetchFailed(err)
	}
	if lead.TeamID != input.TeamID {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	formationTypeID := input.FormationTypeID
	if formationTypeID == "" && lead.FormationTypeID != nil {
		formationTypeID = *lead.FormationTypeID
	}

	result := uc.Resolver.Resolve(ctx, input.TeamID, formationTypeID)
	uc.Recorder.RecordAssignment(string(result.Strategy), result.Assigned())

	if !result.Assigned() {
		uc.Logger.Info("lead left unassigned",
			zap.String("lead_id", lead.ID),
			zap.String("reason", result.Reason))
		return &AssignLeadOutput{LeadID: lead.ID, Result: result}, nil
	}

	userID := *result.UserID
	assignmentID, err := uc.persist(ctx, lead, userID, result)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to persist lead assignment",
			Err:     err,
		}
	}

	uc.Logger.Info("lead assigned",
		zap.String("lead_id", lead.ID),
		zap.String("user_id", userID),
		zap.String("strategy", string(result.Strategy)),
		zap.Int("skipped", len(result.Skipped)))

	if uc.Notifier != nil {
		if err := uc.Notifier.LeadAssigned(ctx, *lead, userID, assignmentID, result.Reason); err != nil {
			uc.Logger.Warn("assignment notification failed", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	return &AssignLeadOutput{LeadID: lead.ID, Result: result}, nil
}

// persist writes the assignment and its log entry, returning the log id.
func (uc *AssignLeadUseCase) persist(ctx context.Context, lead *entity.Lead, userID string, result entity.AssignmentResult) (string, error) {
	entry := &entity.AssignmentLog{
		ID:        uuid.New().String(),
		LeadID:    lead.ID,
		TeamID:    lead.TeamID,
		UserID:    userID,
		Reason:    result.Reason,
		Strategy:  string(result.Strategy),
		CreatedAt: time.Now(),
	}

	previous := lead.AssignedTo

	txn := NewTransaction(uc.Logger)

	txn.AddOperation("assign_lead", func(ctx context.Context) error {
		return uc.Leads.Assign(ctx, lead.ID, userID)
	})
	txn.AddCompensation("restore_assignee", func(ctx context.Context) error {
		if previous != nil {
			return uc.Leads.Assign(ctx, lead.ID, *previous)
		}
		return uc.Leads.ClearAssignment(ctx, lead.ID)
	})

	txn.AddOperation("log_assignment", func(ctx context.Context) error {
		return uc.Logs.Create(ctx, entry)
	})
	txn.AddCompensation("delete_assignment_log", func(ctx context.Context) error {
		return uc.Logs.Delete(ctx, entry.ID)
	})

	if err := txn.Execute(ctx); err != nil {
		return "", err
	}
	return entry.ID, nil
}
