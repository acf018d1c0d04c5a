package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type MockLeadViews struct {
	mock.Mock
}

func (m *MockLeadViews) Queue(ctx context.Context, teamID, assignedTo string) ([]entity.Lead, error) {
	args := m.Called(ctx, teamID, assignedTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadViews) Dashboard(ctx context.Context, teamID, assignedTo string) (*usecase.Dashboard, error) {
	args := m.Called(ctx, teamID, assignedTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Dashboard), args.Error(1)
}

func (m *MockLeadViews) Alerts(ctx context.Context, teamID string) ([]entity.SLAAlert, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SLAAlert), args.Error(1)
}

type MockCapture struct {
	mock.Mock
}

func (m *MockCapture) Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CaptureLeadOutput), args.Error(1)
}

type MockActionUpdater struct {
	mock.Mock
}

func (m *MockActionUpdater) Execute(ctx context.Context, input usecase.UpdateLeadActionInput) error {
	return m.Called(ctx, input).Error(0)
}

type MockAssigner struct {
	mock.Mock
}

func (m *MockAssigner) Execute(ctx context.Context, input usecase.AssignLeadInput) (*usecase.AssignLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AssignLeadOutput), args.Error(1)
}

func (m *MockAssigner) Preview(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult {
	return m.Called(ctx, teamID, formationTypeID).Get(0).(entity.AssignmentResult)
}

type MockAssignments struct {
	mock.Mock
}

func (m *MockAssignments) ListActive(ctx context.Context, teamID, formationTypeID string) ([]entity.FormationAssignment, error) {
	args := m.Called(ctx, teamID, formationTypeID)
	return args.Get(0).([]entity.FormationAssignment), args.Error(1)
}

func (m *MockAssignments) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorItem {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestQueueHandler(t *testing.T) {
	views := new(MockLeadViews)
	views.On("Queue", mock.Anything, "team-1", "user-1").Return([]entity.Lead{{ID: "a"}, {ID: "b"}}, nil)
	h := NewLeadViewsHandler(views, views)

	rec := serve(t, http.MethodGet, "/teams/{teamId}/queue", "/teams/team-1/queue?assigned_to=user-1", "", h.Queue)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QueueResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "a", resp.Leads[0].ID)
}

func TestDashboardHandlerMapsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &usecase.DomainError{Code: usecase.CodeValidation, Message: "team_id is required"}, http.StatusBadRequest, usecase.CodeValidation},
		{"fetch failed", &usecase.TechnicalError{Code: usecase.CodeFetchFailed, Message: "Erreur lors du chargement des données", Err: errors.New("dial tcp")}, http.StatusServiceUnavailable, usecase.CodeFetchFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			views := new(MockLeadViews)
			views.On("Dashboard", mock.Anything, "team-1", "").Return(nil, tc.err)

			rec := serve(t, http.MethodGet, "/teams/{teamId}/dashboard", "/teams/team-1/dashboard", "", NewLeadViewsHandler(views, views).Dashboard)

			assert.Equal(t, tc.status, rec.Code)
			item := decodeError(t, rec)
			assert.Equal(t, tc.code, item.Code)
			assert.NotContains(t, item.Message, "dial tcp")
		})
	}
}

func TestDashboardHandler(t *testing.T) {
	views := new(MockLeadViews)
	views.On("Dashboard", mock.Anything, "team-1", "").Return(&usecase.Dashboard{KPIs: usecase.KPIs{Total: 3}, ConversionRate: 50}, nil)

	rec := serve(t, http.MethodGet, "/teams/{teamId}/dashboard", "/teams/team-1/dashboard", "", NewLeadViewsHandler(views, views).Dashboard)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conversion_rate":50`)
	assert.Contains(t, rec.Body.String(), `"total":3`)
}

func TestSLAAlertsHandler(t *testing.T) {
	views := new(MockLeadViews)
	views.On("Alerts", mock.Anything, "team-1").Return([]entity.SLAAlert{{LeadID: "l", Level: entity.SLABreached}}, nil)

	rec := serve(t, http.MethodGet, "/teams/{teamId}/sla-alerts", "/teams/team-1/sla-alerts", "", NewLeadViewsHandler(views, views).SLAAlerts)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"level":"breached"`)
}

func TestCaptureHandler(t *testing.T) {
	capture := new(MockCapture)
	capture.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.CaptureLeadInput) bool {
		return in.TeamID == "team-1" && in.Email == "lea@example.com"
	})).Return(&usecase.CaptureLeadOutput{ID: "lead-1", Queued: true}, nil)

	h := NewLeadHandler(capture, nil, NewRateLimiter(10, time.Minute))
	rec := serve(t, http.MethodPost, "/teams/{teamId}/leads", "/teams/team-1/leads", `{"first_name":"Léa","email":"lea@example.com"}`, h.Capture)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queued":true`)
}

func TestCaptureHandlerRejectsBadJSONAndRateLimits(t *testing.T) {
	capture := new(MockCapture)
	capture.On("Execute", mock.Anything, mock.Anything).Return(&usecase.CaptureLeadOutput{ID: "x"}, nil)
	h := NewLeadHandler(capture, nil, NewRateLimiter(1, time.Minute))

	rec := serve(t, http.MethodPost, "/teams/{teamId}/leads", "/teams/team-1/leads", `{`, h.Capture)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodPost, "/teams/{teamId}/leads", "/teams/team-1/leads", `{}`, h.Capture)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	capture.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestUpdateActionHandler(t *testing.T) {
	updater := new(MockActionUpdater)
	updater.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.UpdateLeadActionInput) bool {
		return in.LeadID == "lead-1" && in.Action == "call" && in.ActionDate != nil
	})).Return(nil)
	updater.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.UpdateLeadActionInput) bool {
		return in.LeadID == "ghost"
	})).Return(&usecase.DomainError{Code: usecase.CodeLeadNotFound, Message: "lead not found"})

	h := NewLeadHandler(nil, updater, nil)

	rec := serve(t, http.MethodPatch, "/leads/{leadId}/action", "/leads/lead-1/action",
		`{"current_action":"call","current_action_date":"2026-10-16T09:00:00Z"}`, h.UpdateAction)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, http.MethodPatch, "/leads/{leadId}/action", "/leads/ghost/action", `{"current_action":"call"}`, h.UpdateAction)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, usecase.CodeLeadNotFound, decodeError(t, rec).Code)
}

func TestAssignmentHandlers(t *testing.T) {
	assigner := new(MockAssigner)
	assignments := new(MockAssignments)
	user := "user-1"

	assigner.On("Execute", mock.Anything, usecase.AssignLeadInput{LeadID: "lead-1", TeamID: "team-1"}).
		Return(&usecase.AssignLeadOutput{LeadID: "lead-1", Result: entity.AssignmentResult{UserID: &user, Reason: "r"}}, nil)
	assigner.On("Preview", mock.Anything, "team-1", "ft-1").
		Return(entity.AssignmentResult{Reason: usecase.ReasonNoCandidate, Skipped: []entity.SkippedUser{}})
	assignments.On("SetActive", mock.Anything, "fa-1", false).Return(nil)
	assignments.On("SetActive", mock.Anything, "missing", true).Return(entity.ErrNotFound)

	h := NewAssignmentHandler(assigner, assignments)

	rec := serve(t, http.MethodPost, "/teams/{teamId}/assignments", "/teams/team-1/assignments", `{"lead_id":"lead-1"}`, h.Assign)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"user-1"`)

	rec = serve(t, http.MethodPost, "/teams/{teamId}/assignments/preview", "/teams/team-1/assignments/preview", `{"formation_type_id":"ft-1"}`, h.Preview)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":null`)

	rec = serve(t, http.MethodPatch, "/formation-assignments/{id}", "/formation-assignments/fa-1", `{"is_active":false}`, h.SetActive)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, http.MethodPatch, "/formation-assignments/{id}", "/formation-assignments/fa-1", `{}`, h.SetActive)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodPatch, "/formation-assignments/{id}", "/formation-assignments/missing", `{"is_active":true}`, h.SetActive)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{
		"database": func(context.Context) error { return nil },
		"redis":    nil,
	})
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not configured", resp.Dependencies["redis"])

	h = NewHealthHandler(map[string]Checker{
		"rabbitmq": func(context.Context) error { return errors.New("connection closed") },
	})
	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	now = now.Add(time.Hour)
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return rl.size() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotifications) ListUnread(ctx context.Context, userID string, limit int) ([]entity.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotifications) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestNotificationHandlers(t *testing.T) {
	repo := new(MockNotifications)
	repo.On("ListUnread", mock.Anything, "user-1", 20).Return([]entity.Notification{{ID: "n1"}}, nil)
	repo.On("ListUnread", mock.Anything, "user-1", maxNotifications).Return([]entity.Notification{}, nil)
	repo.On("MarkRead", mock.Anything, "n1").Return(nil)
	repo.On("MarkRead", mock.Anything, "gone").Return(entity.ErrNotFound)

	h := NewNotificationHandler(repo)

	rec := serve(t, http.MethodGet, "/users/{userId}/notifications", "/users/user-1/notifications", "", h.ListUnread)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"n1"`)

	rec = serve(t, http.MethodGet, "/users/{userId}/notifications", "/users/user-1/notifications?limit=5000", "", h.ListUnread)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, http.MethodGet, "/users/{userId}/notifications", "/users/user-1/notifications?limit=abc", "", h.ListUnread)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodPost, "/notifications/{id}/read", "/notifications/n1/read", "", h.MarkRead)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, http.MethodPost, "/notifications/{id}/read", "/notifications/gone/read", "", h.MarkRead)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}
