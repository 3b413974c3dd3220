package async

import (
	"context"
	"errors"
	"image"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/idcard-intake/constants"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/imageio"
	"github.com/joseph-ayodele/idcard-intake/internal/pipeline"
)

type fakeLoader struct{}

func (fakeLoader) Load(_ context.Context, path string) (imageio.Loaded, error) {
	if path == "bad.jpg" {
		return imageio.Loaded{}, common.NewAppError("IMAGE_DECODE", "decode", common.ErrUnsupported)
	}
	return imageio.Loaded{Image: image.NewGray(image.Rect(0, 0, 1, 1)), Hash: "h-" + path}, nil
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractDetailed(ctx context.Context, _ image.Image) pipeline.Outcome {
	return pipeline.Outcome{
		RequestID: common.RequestIDFromContext(ctx),
		Record:    identity.Record{FirstName: common.SourceFromContext(ctx), ConfidenceTier: constants.ConfidenceMedium},
	}
}

func TestExtractQueueProcessesAll(t *testing.T) {
	var (
		mu  sync.Mutex
		got []Result
	)
	sink := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r)
	}
	q := NewExtractQueue(fakeExtractor{}, fakeLoader{}, sink, nil, WithWorkers(3), WithQueueSize(1))

	for _, p := range []string{"a.jpg", "b.jpg", "bad.jpg", "c.jpg"} {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, TraceID: "t-" + p}))
	}
	q.Shutdown(context.Background())

	require.Len(t, got, 4)
	sort.Slice(got, func(i, j int) bool { return got[i].Job.Path < got[j].Job.Path })

	assert.Equal(t, "a.jpg", got[0].Job.Path)
	assert.Equal(t, "h-a.jpg", got[0].Hash)
	assert.Equal(t, "t-a.jpg", got[0].Outcome.RequestID)
	assert.Equal(t, "a.jpg", got[0].Outcome.Record.FirstName)
	assert.False(t, got[0].Job.SubmittedAt.IsZero())

	assert.Equal(t, "bad.jpg", got[2].Job.Path)
	assert.True(t, errors.Is(got[2].Err, common.ErrUnsupported))
}

func TestExtractQueueRejectsAfterShutdown(t *testing.T) {
	q := NewExtractQueue(fakeExtractor{}, fakeLoader{}, nil, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "a.jpg"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

// blockingExtractor holds each job until its context ends and reports why.
type blockingExtractor struct {
	started chan struct{}
	ended   chan error
}

func (b blockingExtractor) ExtractDetailed(ctx context.Context, _ image.Image) pipeline.Outcome {
	b.started <- struct{}{}
	<-ctx.Done()
	b.ended <- ctx.Err()
	return pipeline.Outcome{}
}

func TestShutdownReleasesBlockedProducerAndCancelsJobs(t *testing.T) {
	ex := blockingExtractor{started: make(chan struct{}, 4), ended: make(chan error, 4)}
	q := NewExtractQueue(ex, fakeLoader{}, nil, nil, WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "a.jpg"}))
	<-ex.started
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "b.jpg"}))

	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(context.Background(), Job{Path: "c.jpg"}) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	returned := make(chan struct{})
	go func() { q.Shutdown(ctx); close(returned) }()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown stalled behind a blocked Enqueue")
	}

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("blocked Enqueue was not released")
	}

	select {
	case err := <-ex.ended:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight job kept running after interrupted shutdown")
	}
}

func TestBaseContextCancelsJobs(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	ex := blockingExtractor{started: make(chan struct{}, 1), ended: make(chan error, 1)}
	q := NewExtractQueue(ex, fakeLoader{}, nil, nil, WithWorkers(1), WithBaseContext(base))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "a.jpg"}))
	<-ex.started
	cancel()

	select {
	case err := <-ex.ended:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("job ignored base context cancellation")
	}
	q.Shutdown(context.Background())
}
