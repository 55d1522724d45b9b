// Package cli provides the command-line interface for buildplan.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "buildplan [path]",
	Short: "Zero-config build plan synthesis for application source trees",
	Long: `Buildplan - zero-config build plan synthesis
https://dublyo.dev/buildplan

Detect an application's language and framework and synthesize the ordered
setup/install/build/start commands an external image builder needs, without
requiring a Dockerfile or any other build configuration in the repository.

Examples:
  # Show the detected provider for the current directory
  buildplan detect .

  # Print the resolved build plan as JSON
  buildplan plan ./my-project

  # Print the resolved build plan as YAML
  buildplan plan --format yaml ./my-project

For more information, visit: https://dublyo.dev/buildplan`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	addPlanFlags(rootCmd)

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// Print helpers
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("✓ "+format+"\n", args...)
	}
}
