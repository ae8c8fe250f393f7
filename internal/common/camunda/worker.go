// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"promptstudio-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Worker is implemented by every task-type handler.
type Worker interface {
	Register() error
	Close()
	HealthCheck(ctx context.Context) error
	GetTaskType() string
	IsEnabled() bool
}

// JobWorkerOptions are the per-task-type polling settings.
type JobWorkerOptions struct {
	MaxJobsActive  int
	Timeout        time.Duration
	FetchVariables []string // empty fetches every variable in scope
}

// OpenJobWorker starts polling taskType and dispatching jobs to handler.
func OpenJobWorker(client zbc.Client, taskType string, opts JobWorkerOptions, handler worker.JobHandler) worker.JobWorker {
	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(fmt.Sprintf("%s-worker", taskType))
	if len(opts.FetchVariables) > 0 {
		builder = builder.FetchVariables(opts.FetchVariables...)
	}
	return builder.Open()
}

// Manager registers a set of workers and closes them together.
type Manager struct {
	workers []Worker
	logger  logger.Logger
}

func NewManager(log logger.Logger, workers ...Worker) *Manager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Manager{workers: workers, logger: log}
}

// Start registers every enabled worker. Registration stops at the first error
// and already opened workers are closed again.
func (m *Manager) Start() error {
	started := make([]Worker, 0, len(m.workers))
	for _, w := range m.workers {
		if !w.IsEnabled() {
			m.logger.Info("Worker disabled, skipping", map[string]interface{}{"worker": w.GetTaskType()})
			continue
		}
		if err := w.Register(); err != nil {
			for _, s := range started {
				s.Close()
			}
			return fmt.Errorf("failed to register worker %s: %w", w.GetTaskType(), err)
		}
		started = append(started, w)
	}
	m.logger.Info("Workers started", map[string]interface{}{"count": len(started)})
	return nil
}

// Stop closes every worker.
func (m *Manager) Stop() {
	for _, w := range m.workers {
		w.Close()
	}
}

// HealthCheck reports the first failing enabled worker.
func (m *Manager) HealthCheck(ctx context.Context) error {
	for _, w := range m.workers {
		if !w.IsEnabled() {
			continue
		}
		if err := w.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", w.GetTaskType(), err)
		}
	}
	return nil
}

// TaskTypes lists the task types of the enabled workers.
func (m *Manager) TaskTypes() []string {
	out := make([]string, 0, len(m.workers))
	for _, w := range m.workers {
		if w.IsEnabled() {
			out = append(out, w.GetTaskType())
		}
	}
	return out
}
