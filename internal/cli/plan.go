package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	planVerbose bool
	planNoColor bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Take requirements from the operator and drive them to a commit",
	Long: `plan starts (or resumes) the planner loop: it confirms the working
tree, recovers an interrupted prior run if one is found, asks for a
requirement, has the operator revise it until approved (the LLM backend
does not edit the draft), drives the implement checklist to completion,
and commits the result.`,
	RunE: runPlannerLoop,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Continue the planner loop to completion or the next pause point",
	Long: `run is plan's synonym for the common case of continuing a session
already underway — it drives the same Startup/Recovery/Requirements/Implement
state machine from wherever the plan directory's on-disk state leaves off.`,
	RunE: runPlannerLoop,
}

func init() {
	for _, c := range []*cobra.Command{planCmd, runCmd} {
		c.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "enable debug-level diagnostics")
		c.Flags().BoolVar(&planNoColor, "no-color", false, "disable ANSI color output")
	}
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
}

func runPlannerLoop(cmd *cobra.Command, args []string) error {
	sess, err := newSession(planVerbose, planNoColor)
	if err != nil {
		return err
	}
	defer sess.close()

	p := sess.newPlanner()
	return p.Run(context.Background())
}
