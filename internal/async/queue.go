package async

import (
	"context"
	"errors"
	"time"
)

// Job is one card image to extract.
type Job struct {
	Path        string
	Force       bool // enqueue even if deduplicated
	SubmittedAt time.Time
	TraceID     string
}

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
