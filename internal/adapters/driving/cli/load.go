package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

var (
	loadMessages []string
	loadReply    string
	loadFile     string
)

var loadCmd = &cobra.Command{
	Use:   "load [list]",
	Short: "Queue messages for posting",
	Long: `Validate message descriptors and append them to the named queue
(default "default"). The whole batch is validated first; if any message
is invalid nothing is appended.

Messages come from -m flags, a routine file, or both:

  plover load -m "Hello world"
  plover load -m "Hello again" --reply 1234567890
  plover load announcements --file weekly.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringArrayVarP(
		&loadMessages, "message", "m", nil, "message text (repeatable)")
	loadCmd.Flags().StringVar(
		&loadReply, "reply", "", "post ID to reply to (single -m only)")
	loadCmd.Flags().StringVar(
		&loadFile, "file", "", "routine file with message descriptors")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	return runMode(cmd, "load", false, func(_ context.Context, a *app) error {
		list := ""
		if len(args) > 0 {
			list = args[0]
		}

		var raws []any
		if loadFile != "" {
			r, err := loadRoutine(loadFile)
			if err != nil {
				return err
			}
			if list == "" {
				list = r.List
			}
			raws = append(raws, r.Messages...)
		}

		if loadReply != "" && len(loadMessages) != 1 {
			return fmt.Errorf("%w: --reply needs exactly one -m message", domain.ErrInvalidInput)
		}
		for _, text := range loadMessages {
			if loadReply != "" {
				raws = append(raws, []any{text, loadReply})
			} else {
				raws = append(raws, text)
			}
		}

		if len(raws) == 0 {
			return fmt.Errorf("%w: no messages given (use -m or --file)", domain.ErrInvalidInput)
		}
		if err := a.queue.Append(list, raws...); err != nil {
			return err
		}
		a.log.Logf("queued %d message(s), %d pending", len(raws), a.queue.Len(list))
		return nil
	})
}
