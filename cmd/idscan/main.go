package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/idcard-intake/internal/app"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type options struct {
	path   string
	reveal bool
	pretty bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.reveal, "reveal", false, "include the raw identifier in the output")
	flag.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	flag.Usage = func() {
		printError("usage: idscan [-reveal] [-pretty] <image>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.path = flag.Arg(0)

	if err := run(opts, os.Stdout); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, logger)
	defer a.Close()

	ctx = common.WithSource(ctx, opts.path)
	loaded, err := a.Loader.Load(ctx, opts.path)
	if err != nil {
		return err
	}

	rec := a.Orchestrator.Extract(ctx, loaded.Image)
	if !opts.reveal {
		rec = rec.Redacted()
	}

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}
