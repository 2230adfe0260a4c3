// Package main is the entry point for the jsonpoll CLI.
//
// jsonpoll can be used either as a library (SDK) or as a standalone binary.
// This CLI provides the standalone binary approach, decoding payloads as
// raw JSON and printing one line per successful fetch.
//
// Usage:
//
//	jsonpoll watch -c config.yaml        # Poll forever
//	jsonpoll watch --url https://...     # Poll with flag configuration
//	jsonpoll fetch --url https://...     # Single fetch
//	jsonpoll validate -c config.yaml     # Validate configuration
//	jsonpoll version                     # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "jsonpoll",
	Short: "Poll a JSON HTTP endpoint on a schedule",
	Long: `jsonpoll polls a single JSON HTTP endpoint at a fixed interval and
prints each decoded payload as one JSON line with its fetch latency.

Quick start:
  jsonpoll watch --url https://httpbin.org/json --interval 1s

Or with a config file (jsonpoll.yaml):
  url: https://httpbin.org/json
  poll_interval: 1s
  request_timeout: 2s

  jsonpoll watch -c jsonpoll.yaml`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this jsonpoll binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jsonpoll %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
