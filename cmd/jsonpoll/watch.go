package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/jsonpoll"
	"github.com/jpalmerr/jsonpoll/config"
)

// newLogger creates a JSON logger for CLI use. Logs go to stderr so that
// stdout carries only the fetched payloads.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// watchLine is the envelope printed to stdout for each successful fetch.
type watchLine struct {
	FetchedAt time.Time       `json:"fetched_at"`
	LatencyMs int64           `json:"latency_ms"`
	Payload   json.RawMessage `json:"payload"`
}

// watchCmd polls the configured endpoint forever.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll an endpoint and print each payload",
	Long: `Poll a JSON endpoint at the configured interval, forever.

Each successful fetch prints one JSON line to stdout:
  {"fetched_at":"...","latency_ms":12,"payload":{...}}

Fetch failures are logged to stderr and the next tick simply tries again.
The command runs until interrupted (Ctrl+C) or it receives SIGTERM.

Example:
  jsonpoll watch -c config.yaml
  jsonpoll watch --url https://httpbin.org/json --interval 1s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConfigFlags(watchCmd)
}

// addConfigFlags registers the config-file-or-flags configuration surface
// shared by watch and fetch.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file")
	cmd.Flags().String("url", "", "target URL (alternative to --config)")
	cmd.Flags().Duration("interval", jsonpoll.DefaultPollInterval, "poll interval")
	cmd.Flags().Duration("timeout", jsonpoll.DefaultRequestTimeout, "per-request timeout")
}

// resolveConfig builds a validated Config from either the --config file or
// the --url/--interval/--timeout flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	rawURL, _ := cmd.Flags().GetString("url")
	if rawURL == "" {
		return nil, errors.New("either --config or --url is required")
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := &config.Config{
		URL:            rawURL,
		PollInterval:   config.Duration(interval),
		RequestTimeout: config.Duration(timeout),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	poller, err := config.NewBuilder[json.RawMessage](cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build poller: %w", err)
	}
	defer poller.Close()

	logger.Info("polling",
		"url", poller.URL(),
		"interval", poller.PollInterval().String(),
	)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	poller.Start(ctx, func(payload json.RawMessage, elapsed time.Duration) {
		line := watchLine{
			FetchedAt: time.Now().UTC(),
			LatencyMs: elapsed.Milliseconds(),
			Payload:   payload,
		}
		if err := enc.Encode(line); err != nil {
			logger.Error("failed to write payload", "error", err)
		}
	})

	logger.Info("watch stopped")
	return nil
}
