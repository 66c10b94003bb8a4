package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
)

var (
	runRetries int
	runNoPost  bool
)

var runCmd = &cobra.Command{
	Use:   "run <routine-file>",
	Short: "Load a routine file and post its messages",
	Long: `Append the messages of a routine file and immediately post them.
This is load followed by post in one invocation, sized to the routine:

  plover run morning.toml

Routine files are TOML (or JSON with a .json extension) with an optional
"list" and a "messages" array of descriptors.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(
		&runRetries, "retries", "r", 0, "retry budget for hard failures")
	runCmd.Flags().BoolVar(
		&runNoPost, "no-post", false, "simulate posting without any network call")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	return runMode(cmd, "run", true, func(ctx context.Context, a *app) error {
		r, err := loadRoutine(args[0])
		if err != nil {
			return err
		}
		if err := a.queue.Append(r.List, r.Messages...); err != nil {
			return err
		}
		a.log.Logf("queued %d message(s) from %s", len(r.Messages), args[0])

		posted, err := a.poster.PostMessages(ctx, driving.PostOptions{
			Count:   len(r.Messages),
			Retries: runRetries,
			List:    r.List,
			NoPost:  runNoPost,
		})
		if err != nil {
			return err
		}
		a.log.Logf("run finished, %d message(s) posted", posted)
		return nil
	})
}
