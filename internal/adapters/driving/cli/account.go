package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Authorize a new account interactively",
	Long: `Run the out-of-band OAuth1 exchange for an account: open the printed
authorization URL in a browser, approve the application, and enter the
PIN. The resulting access token is stored under the account name. The
first registered account becomes the default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthorize(cmd, "add", args[0], false)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [name]",
	Short: "Re-authorize an account, replacing its stored token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return runAuthorize(cmd, "refresh", name, true)
	},
}

var defaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default posting account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefault,
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(defaultCmd)
}

// runAuthorize drives the interactive exchange for add and refresh.
func runAuthorize(cmd *cobra.Command, mode, name string, force bool) error {
	return runMode(cmd, mode, false, func(ctx context.Context, a *app) error {
		if name == "" {
			name = a.creds.DefaultAccount()
		}
		if name == "" {
			return fmt.Errorf("%w: no account named and no default set", domain.ErrInvalidInput)
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("%w: interactive authorization requires a terminal", domain.ErrInvalidInput)
		}

		signer, err := a.creds.Signer(ctx, name, driving.SignerOptions{
			AllowInteractive: true,
			ForceReauth:      force,
		})
		if err != nil {
			return err
		}
		if signer == nil {
			a.log.Logf("authorization for %q cancelled", name)
			return nil
		}

		a.log.Logf("account %q registered", name)
		if a.creds.DefaultAccount() == "" {
			if err := a.creds.SetDefault(name); err != nil {
				return err
			}
			a.log.Logf("account %q is now the default", name)
		}
		return nil
	})
}

func runDefault(cmd *cobra.Command, args []string) error {
	return runMode(cmd, "default", false, func(_ context.Context, a *app) error {
		if err := a.creds.SetDefault(args[0]); err != nil {
			return err
		}
		a.log.Logf("default account set to %q", args[0])
		return nil
	})
}
