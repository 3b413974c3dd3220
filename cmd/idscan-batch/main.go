package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/idcard-intake/internal/app"
	"github.com/joseph-ayodele/idcard-intake/internal/async"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/export"
	"github.com/joseph-ayodele/idcard-intake/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type options struct {
	dir           string
	out           string
	workers       int
	includeHidden bool
	force         bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "dir", "", "directory of card images to process (required)")
	flag.StringVar(&opts.out, "out", "", "output XLSX file path (optional, defaults to parent directory)")
	flag.IntVar(&opts.workers, "workers", 0, "worker count (defaults to WORKERS)")
	flag.BoolVar(&opts.includeHidden, "include-hidden", false, "also process hidden files and directories")
	flag.BoolVar(&opts.force, "force", false, "extract byte-identical duplicates again instead of reusing the first result")
	flag.Parse()

	if opts.dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if opts.out == "" {
		opts.out = filepath.Join(filepath.Dir(filepath.Clean(opts.dir)), "idcards.xlsx")
	}

	if err := run(opts); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if opts.workers > 0 {
		cfg.Intake.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := app.NewLogger(os.Stdout, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, logger)
	defer a.Close()

	logger.Info("batch.scan.start", "dir", opts.dir)
	files, stats, err := ingest.ScanDirectory(ctx, opts.dir, ingest.ScanOptions{SkipHidden: !opts.includeHidden})
	if err != nil {
		logger.Error("batch.scan.failed", "error", err)
		return err
	}
	logger.Info("batch.scan.ok",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated)

	var (
		mu      sync.Mutex
		results = map[string]async.Result{}
	)
	sink := func(r async.Result) {
		mu.Lock()
		results[r.Job.Path] = r
		mu.Unlock()
	}
	queue := async.NewExtractQueue(a.Orchestrator, a.Loader, sink, logger,
		async.WithWorkers(cfg.Intake.Workers),
		async.WithJobTimeout(cfg.Intake.JobTimeout),
	)

	batchID := uuid.NewString()
	queued := 0
	for _, f := range files {
		if f.Err != "" || (f.Deduplicated && !opts.force) {
			continue
		}
		job := async.Job{Path: f.Path, Force: f.Deduplicated, TraceID: batchID + ":" + f.HashHex[:12]}
		if err := queue.Enqueue(ctx, job); err != nil {
			logger.Error("batch.enqueue.failed", "path", f.Path, "error", err)
			break
		}
		queued++
	}

	// Interrupting waits at most 30s for in-flight cards.
	drainCtx := context.Background()
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		drainCtx, cancel = context.WithTimeout(drainCtx, 30*time.Second)
		defer cancel()
	}
	queue.Shutdown(drainCtx)

	mu.Lock()
	rows, failures := buildRows(files, results)
	mu.Unlock()

	xlsxBytes, err := export.NewService(logger).IntakeSheetXLSX(context.Background(), rows)
	if err != nil {
		logger.Error("batch.export.failed", "error", err)
		return err
	}
	if err := os.WriteFile(opts.out, xlsxBytes, 0o644); err != nil {
		err = common.WrapError(err, "write "+opts.out)
		logger.Error("batch.write.failed", "error", err)
		return err
	}

	logger.Info("batch.done",
		"files", len(files),
		"queued", queued,
		"failures", failures,
		"output_file", opts.out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", len(files))
	fmt.Printf("- Cards extracted: %d\n", queued)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", opts.out)
	return nil
}

// buildRows keeps scan order. A skipped duplicate reuses the result of the
// first file with the same hash.
func buildRows(files []ingest.FileResult, results map[string]async.Result) ([]export.Row, int) {
	byHash := map[string]async.Result{}
	for _, r := range results {
		if r.Err == nil && r.Hash != "" {
			if _, ok := byHash[r.Hash]; !ok {
				byHash[r.Hash] = r
			}
		}
	}

	rows := make([]export.Row, 0, len(files))
	failures := 0
	for _, f := range files {
		row := export.Row{Path: f.Path, HashHex: f.HashHex, Duplicate: f.Deduplicated}
		r, ok := results[f.Path]
		if !ok && f.Deduplicated {
			r, ok = byHash[f.HashHex]
		}
		switch {
		case f.Err != "":
			row.Err = f.Err
		case !ok:
			row.Err = "not processed"
		case r.Err != nil:
			row.Err = r.Err.Error()
		default:
			row.Record = r.Outcome.Record
			row.Provenance = r.Outcome.Provenance
			row.OCRConfidence = r.Outcome.OCRConfidence
		}
		if row.Err != "" {
			failures++
		}
		rows = append(rows, row)
	}
	return rows, failures
}
