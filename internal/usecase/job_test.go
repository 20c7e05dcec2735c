package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/entity"
)

// blockingRunner reports one progress update and waits for cancellation or release.
type blockingRunner struct {
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, req *entity.RunRequest, progress ProgressReporter) *entity.RunResult {
	progress.Report(entity.Progress{Phase: "Setting location", Percent: entity.PercentSettingLocation})
	select {
	case <-ctx.Done():
		return &entity.RunResult{Status: MsgStopped, Level: entity.LevelWarning}
	case <-r.release:
		return &entity.RunResult{Status: MsgDone, Level: entity.LevelSuccess, ReportPath: "x.xlsx"}
	}
}

func (r *blockingRunner) CheckChrome(string) *entity.RunResult { return nil }

func TestJobManagerSingleRun(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{})}
	m := NewJobManager(runner, zap.NewNop())

	require.NoError(t, m.Start(&entity.RunRequest{}))
	require.ErrorIs(t, m.Start(&entity.RunRequest{}), ErrRunInProgress)

	require.Eventually(t, func() bool {
		return m.Status().Progress.Percent == entity.PercentSettingLocation
	}, time.Second, 5*time.Millisecond)
	require.True(t, m.Status().Running)

	close(runner.release)
	require.NoError(t, m.Wait(context.Background()))

	st := m.Status()
	require.False(t, st.Running)
	require.Equal(t, MsgDone, st.Result.Status)

	// A finished run frees the slot.
	runner.release = make(chan struct{})
	require.NoError(t, m.Start(&entity.RunRequest{}))
	close(runner.release)
	require.NoError(t, m.Wait(context.Background()))
}

func TestJobManagerCancel(t *testing.T) {
	m := NewJobManager(&blockingRunner{release: make(chan struct{})}, zap.NewNop())
	require.False(t, m.Cancel())

	require.NoError(t, m.Start(&entity.RunRequest{}))
	require.True(t, m.Cancel())
	require.NoError(t, m.Wait(context.Background()))
	require.Equal(t, MsgStopped, m.Status().Result.Status)
}

func TestJobManagerKeepsLastSuccessfulReport(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{})}
	m := NewJobManager(runner, zap.NewNop())

	require.NoError(t, m.Start(&entity.RunRequest{}))
	close(runner.release)
	require.NoError(t, m.Wait(context.Background()))
	require.Equal(t, "x.xlsx", m.Status().LastReport)

	runner.release = make(chan struct{})
	require.NoError(t, m.Start(&entity.RunRequest{}))
	st := m.Status()
	require.Nil(t, st.Result)
	require.Equal(t, "x.xlsx", st.LastReport)

	require.True(t, m.Cancel())
	require.NoError(t, m.Wait(context.Background()))
	st = m.Status()
	require.Equal(t, MsgStopped, st.Result.Status)
	require.Equal(t, "x.xlsx", st.LastReport)
}
