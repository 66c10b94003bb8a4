package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var consumerCmd = &cobra.Command{
	Use:   "consumer <key> <secret> [site] [authorize-path]",
	Short: "Set the application's consumer credentials",
	Long: `Store the OAuth1 consumer key and secret identifying the bot's
registered application, plus optionally the API site and authorize path.
Site defaults to the platform's public API host.`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runConsumer,
}

func init() {
	rootCmd.AddCommand(consumerCmd)
}

func runConsumer(cmd *cobra.Command, args []string) error {
	return runMode(cmd, "consumer", false, func(_ context.Context, a *app) error {
		site, authorizePath := "", ""
		if len(args) > 2 {
			site = args[2]
		}
		if len(args) > 3 {
			authorizePath = args[3]
		}
		if err := a.creds.SetConsumer(args[0], args[1], site, authorizePath); err != nil {
			return err
		}
		a.log.Logf("consumer credentials updated")
		return nil
	})
}
