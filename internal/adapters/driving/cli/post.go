package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
)

var (
	postCount      int
	postRetries    int
	postAccount    string
	postList       string
	postDuplicated string
	postNoPost     bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post queued messages",
	Long: `Drain the queue head by head, posting through the platform's REST
endpoint. A hard failure consumes one retry and the same post slot is
tried again; when the retry budget runs out the rest of the run is
abandoned. Duplicate-content rejections are resolved by policy
(seek, discard, cancel, or ignore) instead of counting as failures.`,
	Args: cobra.NoArgs,
	RunE: runPost,
}

func init() {
	postCmd.Flags().IntVarP(
		&postCount, "count", "c", 1, "number of successful posts to aim for")
	postCmd.Flags().IntVarP(
		&postRetries, "retries", "r", 0, "retry budget for hard failures")
	postCmd.Flags().StringVar(
		&postAccount, "account", "", "posting account (default: configured login)")
	postCmd.Flags().StringVar(
		&postList, "list", "", "queue to drain (default \"default\")")
	postCmd.Flags().StringVar(
		&postDuplicated, "duplicated", "", "duplicate policy: seek, discard, cancel, or ignore")
	postCmd.Flags().BoolVar(
		&postNoPost, "no-post", false, "simulate posting without any network call")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, _ []string) error {
	return runMode(cmd, "post", true, func(ctx context.Context, a *app) error {
		posted, err := a.poster.PostMessages(ctx, driving.PostOptions{
			Count:   postCount,
			Retries: postRetries,
			Account: postAccount,
			List:    postList,
			Policy:  domain.DuplicatePolicy(postDuplicated),
			NoPost:  postNoPost,
		})
		if err != nil {
			return err
		}
		a.log.Logf("run finished, %d message(s) posted", posted)
		return nil
	})
}
