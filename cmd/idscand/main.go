package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/idcard-intake/internal/app"
	"github.com/joseph-ayodele/idcard-intake/internal/async"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/ingest"
)

// line is one stdout record. The identifier is always masked.
type line struct {
	Path       string               `json:"path"`
	Hash       string               `json:"hash,omitempty"`
	RequestID  string               `json:"requestId,omitempty"`
	Record     *identity.Record     `json:"record,omitempty"`
	Provenance *identity.Provenance `json:"provenance,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type options struct {
	roots       []string
	initialScan bool
	debounce    time.Duration
	queueSize   int
}

func main() {
	var (
		opts options
		dirs string
	)
	flag.StringVar(&dirs, "dirs", "", "comma-separated intake directories to watch (required)")
	flag.BoolVar(&opts.initialScan, "initial-scan", true, "process images already present at startup")
	flag.DurationVar(&opts.debounce, "debounce", 750*time.Millisecond, "quiet period before a written file is picked up")
	flag.IntVar(&opts.queueSize, "queue", 256, "pending job buffer")
	flag.Parse()

	opts.roots = splitDirs(dirs)
	if len(opts.roots) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --dirs is required")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, logger)
	defer a.Close()

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	sink := func(r async.Result) {
		out := line{Path: r.Job.Path, Hash: r.Hash}
		if r.Err != nil {
			out.Error = r.Err.Error()
		} else {
			rec := r.Outcome.Record.Redacted()
			out.RequestID = r.Outcome.RequestID
			out.Record = &rec
			out.Provenance = &r.Outcome.Provenance
		}
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(out); err != nil {
			logger.Error("idscand.emit_failed", "path", r.Job.Path, "error", err)
		}
	}

	queue := async.NewExtractQueue(a.Orchestrator, a.Loader, sink, logger,
		async.WithWorkers(cfg.Intake.Workers),
		async.WithQueueSize(opts.queueSize),
		async.WithJobTimeout(cfg.Intake.JobTimeout),
	)
	// Shutdown is idempotent; this covers the early return below.
	defer queue.Shutdown(context.Background())

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       opts.roots,
		InitialScan: opts.initialScan,
		Debounce:    opts.debounce,
		SkipHidden:  true,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("idscand.watch_failed", "error", err)
		return err
	}
	logger.Info("idscand.started", "roots", opts.roots, "workers", cfg.Intake.Workers)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("idscand.watch_error", "error", err)
		case p, ok := <-paths:
			if !ok {
				break loop
			}
			if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
				logger.Warn("idscand.enqueue_failed", "path", p, "error", err)
			}
		}
	}

	logger.Info("idscand.stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("idscand.stopped")
	return nil
}

func splitDirs(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
