// cmd/linkfetch/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tamzrod/linkfetch/internal/config"
	"github.com/tamzrod/linkfetch/internal/display"
	"github.com/tamzrod/linkfetch/internal/fetch"
	"github.com/tamzrod/linkfetch/internal/link"
	"github.com/tamzrod/linkfetch/internal/link/hostlink"
	"github.com/tamzrod/linkfetch/internal/orchestrator"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "linkfetch <config.yaml>",
		Short:         "Bring the link up, fetch one URL, show progress on the status panel",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], envFile)
		},
	}
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional env file with credentials")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, envFile string) error {
	runID := uuid.NewString()[:8]
	logger := log.New(os.Stderr, "["+runID+"] ", log.LstdFlags)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath, envFile)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Status panel
	// --------------------

	panel, closePanel, err := display.Build(cfg.Display, os.Stdout)
	if err != nil {
		return err
	}
	defer closePanel()

	reporter := display.NewReporter(panel, logger,
		display.WithSettle(time.Duration(*cfg.Display.SettleMs)*time.Millisecond))

	// --------------------
	// Link
	// --------------------

	driver := hostlink.New(hostlink.Config{
		Interface:    cfg.Link.Interface,
		PollInterval: time.Duration(cfg.Link.PollIntervalMs) * time.Millisecond,
	}, logger)

	monitor := link.NewMonitor(driver, link.Credentials{
		SSID:     cfg.Link.SSID,
		Password: cfg.Link.Password,
	}, logger)

	// --------------------
	// Fetch pipeline
	// --------------------

	var sink io.Writer = os.Stdout
	if cfg.Target.Sink == "log" {
		sink = &fetch.LogWriter{Logger: logger}
	}

	pipeline := fetch.New(fetch.NewNetTransport(), reporter, sink, logger,
		fetch.WithBufferSize(cfg.Target.RecvBuffer))

	orch, err := orchestrator.New(orchestrator.Config{
		Monitor:  monitor,
		Fetcher:  pipeline,
		Reporter: reporter,
		Request: fetch.Request{
			Host:      cfg.Target.Host,
			Port:      cfg.Target.Port,
			Path:      cfg.Target.Path,
			UserAgent: cfg.Target.UserAgent,
		},
		SSID:   cfg.Link.SSID,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logger.Printf("device %s starting (ssid=%s target=%s%s)",
		cfg.Device.Name, cfg.Link.SSID, cfg.Target.Host, cfg.Target.Path)

	out, err := orch.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Printf("stopped before link came up")
		return nil
	}
	if err != nil {
		return err
	}
	if out.Err != nil {
		logger.Printf("halted (code=%d)", errorCode(out.Err))
	}

	// --------------------
	// Idle until stopped (fail-stop, no retry)
	// --------------------

	orchestrator.Idle(ctx)
	return nil
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 1 (generic error).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}
