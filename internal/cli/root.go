// Package cli wires the cobra command tree: one persistent codepath flag
// shared by every subcommand, plus plan/run/status/recover/search/bg
// commands that each load config, build the collaborator set the command
// needs, and hand off to the relevant internal package.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set by goreleaser via ldflags.
var Version = "dev"

var codepath string

var rootCmd = &cobra.Command{
	Use:   "g3",
	Short: "An autonomous coding-agent operator loop",
	Long: `g3 drives a single-threaded planner loop over one repository: it
confirms the working tree, recovers an interrupted run, takes requirements
from the operator, has the operator revise them until approved, drives an
LLM-backed implement checklist to completion, and commits the result with the plan directory's
history line captured in the same commit.

Core commands:
  g3 plan     Take (or resume) a requirement from the operator
  g3 run      Drive the planner loop to completion or the next pause point
  g3 status   Show plan-directory state without mutating it
  g3 recover  Resume or discard a prior interrupted run
  g3 search   Run a syntax-aware code search batch
  g3 bg       Manage named background processes`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	rootCmd.PersistentFlags().StringVar(&codepath, "codepath", cwd, "repository root to operate on")
	rootCmd.SetVersionTemplate(fmt.Sprintf("g3 version %s\n", Version))
}

func exitError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
