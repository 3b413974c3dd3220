package async

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/imageio"
	"github.com/joseph-ayodele/idcard-intake/internal/pipeline"
)

// Extractor is the per-job work; *pipeline.Orchestrator satisfies it.
type Extractor interface {
	ExtractDetailed(ctx context.Context, img image.Image) pipeline.Outcome
}

// Loader decodes the job's file; *imageio.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context, path string) (imageio.Loaded, error)
}

// Result is delivered to the Sink once per job. Err is set only when the
// image could not be loaded; extraction itself never fails.
type Result struct {
	Job     Job
	Hash    string
	Outcome pipeline.Outcome
	Err     error
}

// Sink receives results from worker goroutines and must be safe for concurrent use.
type Sink func(Result)

type ExtractQueue struct {
	extractor Extractor
	loader    Loader
	sink      Sink
	logger    *slog.Logger
	workers   int
	timeout   time.Duration

	base   context.Context
	cancel context.CancelFunc

	ch      chan Job
	wg      sync.WaitGroup
	senders sync.WaitGroup
	once    sync.Once

	mu     sync.Mutex
	closed bool
	done   chan struct{} // closed by Shutdown; releases blocked producers
}

type Option func(*ExtractQueue)

func WithWorkers(n int) Option {
	return func(q *ExtractQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ExtractQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
// WithBaseContext parents every job context on ctx; cancelling it aborts in-flight jobs.
func WithBaseContext(ctx context.Context) Option {
	return func(q *ExtractQueue) {
		if ctx != nil {
			q.base = ctx
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *ExtractQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewExtractQueue(extractor Extractor, loader Loader, sink Sink, logger *slog.Logger, opts ...Option) *ExtractQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = func(Result) {}
	}
	q := &ExtractQueue{
		extractor: extractor,
		loader:    loader,
		sink:      sink,
		logger:    logger,
		workers:   4,
		timeout:   2 * time.Minute,
		base:      context.Background(),
		ch:        make(chan Job, 256),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.base, q.cancel = context.WithCancel(q.base)
	q.start()
	return q
}

func (q *ExtractQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.sink(q.run(workerID, job))
				}
				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ExtractQueue) run(workerID int, job Job) Result {
	ctx, cancel := context.WithTimeout(q.base, q.timeout)
	defer cancel()
	if job.TraceID != "" {
		ctx = common.WithRequestID(ctx, job.TraceID)
	}
	ctx = common.WithSource(ctx, job.Path)

	loaded, err := q.loader.Load(ctx, job.Path)
	if err != nil {
		q.logger.Error("queue.job.load_failed", "worker_id", workerID, "path", job.Path, "error", err)
		return Result{Job: job, Err: err}
	}
	out := q.extractor.ExtractDetailed(ctx, loaded.Image)
	q.logger.Info("queue.job.ok",
		"worker_id", workerID,
		"path", job.Path,
		"req_id", out.RequestID,
		"tier", out.Record.ConfidenceTier,
		"wait_ms", time.Since(job.SubmittedAt).Milliseconds(),
	)
	return Result{Job: job, Hash: loaded.Hash, Outcome: out}
}

// Enqueue blocks while the buffer is full (backpressure) until ctx is done or
// Shutdown starts. The lock is not held while blocked.
func (q *ExtractQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("queue.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", "path", job.Path, "force", job.Force)
		return nil
	default:
	}
	q.logger.Warn("queue.enqueue.backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain. If ctx ends
// first, in-flight jobs are cancelled and Shutdown returns without waiting for them.
func (q *ExtractQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	// no sender can touch ch once these return
	q.senders.Wait()
	close(q.ch)

	drained := make(chan struct{})
	go func() { defer close(drained); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.cancel()
		q.logger.Warn("queue.shutdown.interrupted")
	case <-drained:
		q.cancel()
		q.logger.Info("queue.shutdown.drained")
	}
}
