package usecase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/entity"
)

// ErrRunInProgress is returned when a run is started while another is active.
var ErrRunInProgress = errors.New("a scrape is already running")

// JobStatus is a snapshot of the background run.
type JobStatus struct {
	Running  bool              `json:"running"`
	Progress entity.Progress   `json:"progress"`
	Result   *entity.RunResult `json:"result,omitempty"`
	// LastReport is the report of the latest successful run. It survives
	// later failed or running jobs.
	LastReport string `json:"last_report,omitempty"`
}

// JobManager runs at most one scrape at a time in the background and keeps
// the latest progress update and result for polling clients.
type JobManager struct {
	runner Runner
	logger *zap.Logger

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	progress entity.Progress
	result   *entity.RunResult
	report   string
	done     chan struct{}
}

func NewJobManager(runner Runner, logger *zap.Logger) *JobManager {
	return &JobManager{runner: runner, logger: logger}
}

// Start launches req in a goroutine. The run outlives the caller's request;
// it ends on completion, Cancel or Shutdown.
func (m *JobManager) Start(req *entity.RunRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrRunInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	m.progress = entity.Progress{}
	m.result = nil
	m.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		defer cancel()
		res := m.runner.Run(ctx, req, ProgressFunc(m.setProgress))

		m.mu.Lock()
		m.running = false
		m.result = res
		if res.Level == entity.LevelSuccess && res.ReportPath != "" {
			m.report = res.ReportPath
		}
		m.mu.Unlock()
	}(m.done)

	m.logger.Info("scrape started", zap.String("zip", req.Zip))
	return nil
}

func (m *JobManager) setProgress(p entity.Progress) {
	m.mu.Lock()
	m.progress = p
	m.mu.Unlock()
}

func (m *JobManager) Status() JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return JobStatus{Running: m.running, Progress: m.progress, Result: m.result, LastReport: m.report}
}

// Cancel asks the active run to stop. It reports whether a run was active.
func (m *JobManager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return false
	}
	m.cancel()
	m.logger.Info("scrape cancel requested")
	return true
}

// Wait blocks until the current run, if any, has finished or ctx is done.
func (m *JobManager) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels any active run and waits for it to wind down.
func (m *JobManager) Shutdown(ctx context.Context) error {
	m.Cancel()
	return m.Wait(ctx)
}
