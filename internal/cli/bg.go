package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/g3labs/g3/internal/config"
	"github.com/g3labs/g3/internal/process"
)

var bgCmd = &cobra.Command{
	Use:   "bg",
	Short: "Manage named background processes",
	Long: `bg starts, lists, and kills long-running background processes (dev
servers, game servers, watchers) the same way the planner's LLM backend
would through its single background_process tool. Each process is tracked
by a name; logs are combined stdout+stderr written under the configured
process log directory, and are otherwise left to ordinary shell tools
(tail, kill, ps) to read and manage.`,
}

var bgStartCmd = &cobra.Command{
	Use:   "start NAME -- COMMAND",
	Short: "Start a named background process",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(codepath)
		if err != nil {
			return err
		}
		name := args[0]
		command := joinArgs(args[1:])

		sup, err := process.New(cfg.ProcessLogDir(codepath))
		if err != nil {
			return err
		}
		info, err := sup.Start(name, command, codepath)
		if err != nil {
			return err
		}
		fmt.Printf("started '%s' (pid %d), logging to %s\n", info.Name, info.PID, info.LogFile)
		return nil
	},
}

var bgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked background processes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(codepath)
		if err != nil {
			return err
		}
		infos, err := process.ListPersisted(cfg.ProcessLogDir(codepath))
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No background processes tracked.")
			return nil
		}
		for _, info := range infos {
			status := "running"
			if !process.IsPIDRunning(info.PID) {
				status = "exited"
			}
			started := time.Unix(info.StartedAt, 0).Format(time.RFC3339)
			fmt.Printf("%-20s pid=%-8d %-8s started=%s log=%s\n", info.Name, info.PID, status, started, info.LogFile)
		}
		return nil
	},
}

var bgKillCmd = &cobra.Command{
	Use:   "kill NAME",
	Short: "Send SIGTERM to a tracked background process and stop tracking it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(codepath)
		if err != nil {
			return err
		}
		info, err := process.KillPersisted(cfg.ProcessLogDir(codepath), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("sent SIGTERM to '%s' (pid %d)\n", info.Name, info.PID)
		return nil
	},
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

func init() {
	bgCmd.AddCommand(bgStartCmd, bgListCmd, bgKillCmd)
	rootCmd.AddCommand(bgCmd)
}
