package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/jsonpoll/config"
)

// validateCmd validates a config file without polling anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a jsonpoll configuration file without issuing any requests.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  jsonpoll validate -c config.yaml
  jsonpoll validate --config /etc/jsonpoll/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  URL:                    %s\n", cfg.URL)
	fmt.Printf("  Poll interval:          %s\n", cfg.PollInterval.Duration())
	fmt.Printf("  Pool max idle per host: %d\n", cfg.PoolMaxIdlePerHost)
	fmt.Printf("  Pool idle timeout:      %s\n", cfg.PoolIdleTimeout.Duration())
	fmt.Printf("  Request timeout:        %s\n", cfg.RequestTimeout.Duration())
	fmt.Printf("  TCP keepalive:          %s\n", cfg.TCPKeepalive.Duration())

	return nil
}
