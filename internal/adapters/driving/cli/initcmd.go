package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and report its location",
	Long: `Create (or open) the configuration file and acquire its lock once,
so later commands find a valid, writable store. Follow up with
'plover consumer' and 'plover add' to finish setup.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	return runMode(cmd, "init", false, func(_ context.Context, a *app) error {
		a.log.Logf("configuration at %s", a.store.Path())
		if _, err := a.creds.Consumer(); err != nil {
			a.log.Logf("next: run 'plover consumer <key> <secret>'")
		} else if a.creds.DefaultAccount() == "" {
			a.log.Logf("next: run 'plover add <name>' to authorize an account")
		}
		return nil
	})
}
