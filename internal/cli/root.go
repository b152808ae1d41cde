// Package cli implements the prode command line: offline reports computed
// from a contest snapshot file.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	service "github.com/JetxcheDev/f1-prode/internal/app"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

type rootOptions struct {
	snapshot    string
	now         string
	rankingSize int
	minVotes    int
	verbose     bool
}

// NewRootCmd builds the prode command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "prode",
		Short:         "Scores and leaderboards for the F1 prediction contest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.snapshot, "snapshot", "",
		"contest snapshot file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.now, "now", "",
		"judge deadlines at this RFC3339 time instead of the wall clock")
	cmd.PersistentFlags().IntVar(&opts.rankingSize, "ranking-size", ranking.DefaultLimit,
		"entries per capped leaderboard")
	cmd.PersistentFlags().IntVar(&opts.minVotes, "min-votes", ranking.DefaultMinVotes,
		"attempts needed to appear in an accuracy leaderboard")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log pipeline details to stderr")
	_ = cmd.MarkPersistentFlagRequired("snapshot")

	cmd.AddCommand(newRankCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newPolicyCmd(opts))
	return cmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// clock parses --now, defaulting to the wall clock.
func (o *rootOptions) clock() (func() time.Time, error) {
	if o.now == "" {
		return time.Now, nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return nil, fmt.Errorf("%w: --now %q: %w", ErrInvalidFlag, o.now, err)
	}
	return func() time.Time { return t }, nil
}

func (o *rootOptions) logger() logger.Logger {
	if !o.verbose {
		return logger.New(zap.NewNop())
	}
	z, err := zap.NewDevelopment()
	if err != nil {
		return logger.New(zap.NewNop())
	}
	return logger.New(z.Named("prode"))
}

// service loads the snapshot into a memory gateway and wires a service
// around it. The refresh loop is off; callers drive reads directly.
func (o *rootOptions) service() (*service.Service, error) {
	now, err := o.clock()
	if err != nil {
		return nil, err
	}
	snap, err := gateway.LoadSnapshotFile(o.snapshot)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithGateway(gateway.NewMemory(snap)),
		service.WithClock(now),
		service.WithRankingSize(o.rankingSize),
		service.WithMinVotes(o.minVotes),
		service.WithRefreshInterval(0),
		service.WithLogger(o.logger()),
	), nil
}
