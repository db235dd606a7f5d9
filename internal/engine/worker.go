package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// DefaultQueueSize is the job queue capacity before Enqueue rejects.
const DefaultQueueSize = 64

// ErrQueueFull is returned by Enqueue when the queue has no room.
var ErrQueueFull = fmt.Errorf("analysis queue is full")

type queuedJob struct {
	jobID     string
	siteInput string
}

// Worker drains the analysis queue with a fixed set of goroutines.
// It decouples HTTP request handling from pipeline execution: the
// server enqueues and returns the job ID immediately.
type Worker struct {
	engine  *AnalysisEngine
	logger  *slog.Logger
	queue   chan queuedJob
	wg      sync.WaitGroup
	stop    context.CancelFunc
	workers int
}

// NewWorker creates a worker pool over the engine. workers and
// queueSize fall back to sensible defaults when non-positive.
func NewWorker(engine *AnalysisEngine, workers, queueSize int, logger *slog.Logger) *Worker {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Worker{
		engine:  engine,
		logger:  logger,
		queue:   make(chan queuedJob, queueSize),
		workers: workers,
	}
}

// Start launches the worker goroutines. They run until Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.stop = context.WithCancel(ctx)
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.loop(ctx)
	}
}

// Enqueue hands a created job to the pool without blocking.
func (w *Worker) Enqueue(job *model.AnalysisJob) error {
	select {
	case w.queue <- queuedJob{jobID: job.ID, siteInput: job.SiteInput}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop cancels in-flight runs and waits for the goroutines to exit.
func (w *Worker) Stop() {
	if w.stop != nil {
		w.stop()
	}
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			if _, err := w.engine.Run(ctx, job.jobID, job.siteInput); err != nil {
				// Run has already moved the job to the error state
				// and logged the cause.
				w.logger.Debug("queued analysis failed", "job_id", job.jobID)
			}
		}
	}
}
