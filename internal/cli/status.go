package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/g3labs/g3/internal/config"
	"github.com/g3labs/g3/internal/gitdriver"
	"github.com/g3labs/g3/internal/planner"
	"github.com/g3labs/g3/internal/planstore"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current plan-directory and working-tree state",
	Long: `status reports the working tree's branch and cleanliness and the
plan directory's current requirements/todo state without writing anything —
unlike plan/run/recover, it never mutates the plan directory or the
working tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(codepath)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		dim := color.New(color.FgHiBlack).SprintFunc()

		git := gitdriver.New(codepath)
		if !git.IsRepo() {
			fmt.Printf("%s %s is not a git repository\n", yellow("!"), codepath)
			return nil
		}

		branch, err := git.CurrentBranch()
		if err != nil {
			return err
		}
		fmt.Printf("Branch: %s\n", cyan(branch))

		dirty, err := git.Dirty(cfg.Git.IgnorePattern)
		if err != nil {
			return err
		}
		if dirty.IsEmpty() {
			fmt.Printf("Working tree: %s\n", green("clean"))
		} else {
			fmt.Printf("Working tree: %s\n%s\n", yellow("dirty"), dirty.ToDisplayString())
		}

		store, err := planstore.New(cfg.PlanDir(codepath))
		if err != nil {
			return err
		}

		info, hasState := planner.DetectRecovery(store)
		if !hasState {
			fmt.Printf("\n%s\n", dim("No in-progress requirement cycle."))
			return nil
		}

		fmt.Println()
		if info.HasCurrentRequirements {
			fmt.Printf("Requirements: %s (last written %s)\n", green("in progress"), info.RequirementsModified)
		}
		if info.HasTodo {
			fmt.Printf("Todo:\n%s\n", info.TodoContents)
			if planstore.AllComplete(info.TodoContents) {
				fmt.Printf("%s all steps checked off — ready for 'g3 run'\n", green("✓"))
			} else {
				fmt.Printf("%s steps remain — 'g3 run' will continue the checklist\n", yellow("○"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
