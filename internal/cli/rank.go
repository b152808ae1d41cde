package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
)

func newRankCmd(root *rootOptions) *cobra.Command {
	var (
		view  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "print a leaderboard",
		Example: "  prode rank --snapshot contest.yaml\n" +
			"  prode rank --snapshot contest.yaml --view pole --limit 5",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: --limit must not be negative", ErrInvalidFlag)
			}
			svc, err := root.service()
			if err != nil {
				return err
			}
			result, err := svc.View(cmd.Context(), view, limit)
			if err != nil {
				return err
			}
			renderView(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", ranking.ViewOverall,
		"leaderboard: overall, pole, crash, position or all")
	cmd.Flags().IntVar(&limit, "limit", 0, "truncate the leaderboard (0 keeps it whole)")
	return cmd
}
