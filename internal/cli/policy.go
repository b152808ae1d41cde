package cli

import (
	"github.com/spf13/cobra"
)

func newPolicyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "print the effective scoring policy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := root.service()
			if err != nil {
				return err
			}
			info, err := svc.Policy(cmd.Context())
			if err != nil {
				return err
			}
			renderPolicy(cmd.OutOrStdout(), info)
			return nil
		},
	}
}
