package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently posted messages",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(
		&historyLimit, "limit", "n", 20, "number of records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	return runMode(cmd, "history", true, func(ctx context.Context, a *app) error {
		if a.history == nil {
			return errors.New("post history is disabled")
		}
		records, err := a.history.List(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Println("no posts recorded")
			return nil
		}
		for _, rec := range records {
			if rec.InReplyTo != "" {
				cmd.Printf("%s  %-12s  %s (reply to %s)\n",
					rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Account, rec.Text, rec.InReplyTo)
			} else {
				cmd.Printf("%s  %-12s  %s\n",
					rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Account, rec.Text)
			}
		}
		a.log.Logf("listed %d record(s)", len(records))
		return nil
	})
}
