package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticTeams struct {
	ids []string
	err error
}

func (s staticTeams) ListIDs(context.Context) ([]string, error) {
	return s.ids, s.err
}

type runnerSpy struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (r *runnerSpy) Run(_ context.Context, teamID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, teamID)
	if r.fail[teamID] {
		return 0, errors.New("fetch failed")
	}
	return 1, nil
}

func (r *runnerSpy) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestSLAAlertWorkerSweepsEveryTeam(t *testing.T) {
	runner := &runnerSpy{fail: map[string]bool{"team-a": true}}
	w := NewSLAAlertWorker(staticTeams{ids: []string{"team-a", "team-b"}}, runner, time.Hour, nil)

	w.sweep(context.Background())

	assert.Equal(t, []string{"team-a", "team-b"}, runner.calls)
}

func TestSLAAlertWorkerSkipsWhenTeamsUnavailable(t *testing.T) {
	runner := &runnerSpy{}
	w := NewSLAAlertWorker(staticTeams{err: errors.New("db down")}, runner, time.Hour, nil)

	w.sweep(context.Background())

	assert.Empty(t, runner.calls)
}

func TestSLAAlertWorkerStopsOnCancel(t *testing.T) {
	runner := &runnerSpy{}
	w := NewSLAAlertWorker(staticTeams{ids: []string{"team-a"}}, runner, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runner.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
