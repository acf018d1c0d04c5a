package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Thursday 15 October 2026, 10:00 UTC.
var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func daysFromNow(n int) *time.Time {
	t := fixedNow.AddDate(0, 0, n)
	return &t
}

var vocabulary = entity.StatusVocabulary{
	entity.RoleWon:       {"Gagné", "Won"},
	entity.RoleLost:      {"Perdu", "Lost"},
	entity.RoleStandby:   {"Stand by"},
	entity.RoleContacted: {"Contacté", "Contacted"},
	entity.RoleOptIn:     {"Opt-in"},
	entity.RoleNew:       {"new"},
}

var roles = entity.ResolveStatusRoles(nil, vocabulary)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) ListByTeam(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateAction(ctx context.Context, id string, update entity.LeadActionUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockLeadRepository) Assign(ctx context.Context, leadID, userID string) error {
	args := m.Called(ctx, leadID, userID)
	return args.Error(0)
}

func (m *MockLeadRepository) ClearAssignment(ctx context.Context, leadID string) error {
	args := m.Called(ctx, leadID)
	return args.Error(0)
}

func (m *MockLeadRepository) CountActiveByUsers(ctx context.Context, teamID string, userIDs []string) (map[string]int, error) {
	args := m.Called(ctx, teamID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockStatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) ListByTeam(ctx context.Context, teamID string) ([]entity.CustomStatus, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CustomStatus), args.Error(1)
}

// MockFormationAssignmentRepository
type MockFormationAssignmentRepository struct {
	mock.Mock
}

func (m *MockFormationAssignmentRepository) ListActive(ctx context.Context, teamID, formationTypeID string) ([]entity.FormationAssignment, error) {
	args := m.Called(ctx, teamID, formationTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FormationAssignment), args.Error(1)
}

func (m *MockFormationAssignmentRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetCalendarSettings(ctx context.Context, teamID string) (entity.CalendarSettings, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(entity.CalendarSettings), args.Error(1)
}

// MockCalendar
type MockCalendar struct {
	mock.Mock
}

func (m *MockCalendar) CheckAvailability(ctx context.Context, userID string, window time.Duration) (entity.Availability, error) {
	args := m.Called(ctx, userID, window)
	return args.Get(0).(entity.Availability), args.Error(1)
}

// MockAssignmentLogRepository
type MockAssignmentLogRepository struct {
	mock.Mock
}

func (m *MockAssignmentLogRepository) Create(ctx context.Context, log *entity.AssignmentLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAssignmentLogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListUnread(ctx context.Context, userID string, limit int) ([]entity.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadAssigned(to, leadName, reason string) error {
	args := m.Called(to, leadName, reason)
	return args.Error(0)
}

func (m *MockEmailService) SendSLAAlert(to, leadName string, level entity.SLALevel, deadline time.Time) error {
	args := m.Called(to, leadName, level, deadline)
	return args.Error(0)
}

// MockRealtime
type MockRealtime struct {
	mock.Mock
}

func (m *MockRealtime) PublishNotification(userID string, n entity.Notification) {
	m.Called(userID, n)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadEvent(ctx context.Context, event entity.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult {
	args := m.Called(ctx, teamID, formationTypeID)
	return args.Get(0).(entity.AssignmentResult)
}
