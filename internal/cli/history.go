package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "print a user's per-event breakdown, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("%w: --user is required", ErrInvalidFlag)
			}
			svc, err := root.service()
			if err != nil {
				return err
			}
			standing, err := svc.UserScore(cmd.Context(), user)
			if err != nil {
				return err
			}
			history, err := svc.History(cmd.Context(), user)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), standing, history)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id")
	return cmd
}
