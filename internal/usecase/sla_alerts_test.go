package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func TestAggregateSLAAlertLevels(t *testing.T) {
	leads := []entity.Lead{
		{ID: "fresh", Status: "new", CreatedAt: fixedNow.Add(-2 * time.Hour)},
		{ID: "warning", Status: "Opt-in", CreatedAt: fixedNow.Add(-20 * time.Hour), AssignedTo: ptr("u1")},
		{ID: "breached", Status: "new", CreatedAt: fixedNow.Add(-30 * time.Hour)},
		{ID: "older-breach", Status: "new", CreatedAt: fixedNow.Add(-72 * time.Hour)},
		{ID: "contacted", Status: "new", CreatedAt: fixedNow.Add(-72 * time.Hour), LastContactDate: daysFromNow(-1)},
		{ID: "worked", Status: "Contacté", CreatedAt: fixedNow.Add(-72 * time.Hour)},
		{ID: "dnc", Status: "new", CreatedAt: fixedNow.Add(-72 * time.Hour), CurrentAction: entity.ActionDoNotContact},
	}

	alerts := usecase.AggregateSLAAlerts(leads, roles, 24*time.Hour, fixedNow)

	require.Len(t, alerts, 3)
	assert.Equal(t, "older-breach", alerts[0].LeadID)
	assert.Equal(t, entity.SLABreached, alerts[0].Level)
	assert.Equal(t, "breached", alerts[1].LeadID)
	assert.Equal(t, "warning", alerts[2].LeadID)
	assert.Equal(t, entity.SLAWarning, alerts[2].Level)
	assert.Equal(t, fixedNow.Add(4*time.Hour), alerts[2].Deadline)
}

func TestAggregateSLAAlertsDefaultsWindow(t *testing.T) {
	leads := []entity.Lead{{ID: "l", Status: "new", CreatedAt: fixedNow.Add(-25 * time.Hour)}}

	alerts := usecase.AggregateSLAAlerts(leads, roles, 0, fixedNow)

	require.Len(t, alerts, 1)
	assert.Equal(t, entity.SLABreached, alerts[0].Level)
}

func TestSLAAlertsRunNotifiesOwnersOnce(t *testing.T) {
	ctx := context.Background()

	leadRepo := new(MockLeadRepository)
	statusRepo := new(MockStatusRepository)
	notifications := new(MockNotificationRepository)
	recorder := &recorderSpy{}

	statusRepo.On("ListByTeam", ctx, "team-1").Return([]entity.CustomStatus{}, nil)
	leadRepo.On("ListByTeam", ctx, entity.LeadFilter{TeamID: "team-1"}).Return([]entity.Lead{
		{ID: "owned", TeamID: "team-1", Status: "new", CreatedAt: fixedNow.Add(-30 * time.Hour), AssignedTo: ptr("u1")},
		{ID: "already", TeamID: "team-1", Status: "new", CreatedAt: fixedNow.Add(-30 * time.Hour), AssignedTo: ptr("u2")},
		{ID: "orphan", TeamID: "team-1", Status: "new", CreatedAt: fixedNow.Add(-30 * time.Hour)},
	}, nil)
	notifications.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.LeadID == "owned" && n.Kind == entity.NotificationSLABreach
	})).Return(true, nil)
	notifications.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.LeadID == "already"
	})).Return(false, nil)

	views := usecase.NewLeadViewsUseCase(leadRepo, statusRepo, vocabulary, time.UTC)
	views.Clock = fixedClock
	notifier := usecase.NewNotifier(notifications, nil, nil, nil, nil)
	uc := usecase.NewSLAAlertsUseCase(views, notifier, 24*time.Hour, recorder, nil)

	raised, err := uc.Run(ctx, "team-1")

	require.NoError(t, err)
	assert.Equal(t, 1, raised)
	assert.Equal(t, []string{"breached"}, recorder.alerts)
	notifications.AssertNumberOfCalls(t, "Create", 2)
}
