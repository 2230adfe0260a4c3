package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/jsonpoll/config"
)

// fetchCmd performs a single fetch without the polling loop.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the endpoint once and print the payload",
	Long: `Perform exactly one GET against the configured endpoint, decode the
body as JSON, and print it to stdout.

One attempt, one outcome: no retries. A transport failure, non-2xx status,
or undecodable body exits non-zero with the error on stderr.

Example:
  jsonpoll fetch --url https://httpbin.org/json
  jsonpoll fetch -c config.yaml --timeout 2s`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addConfigFlags(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	payload, err := poller.FetchOnce(ctx)
	if err != nil {
		return err
	}

	logger.Info("fetched",
		"url", poller.URL(),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return json.NewEncoder(os.Stdout).Encode(payload)
}
