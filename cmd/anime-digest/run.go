package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/anime-digest/internal/app"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Post a single digest and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := newPipeline(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.close(ctx)

			result, err := runOnce(ctx, p)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"posted %d entries to %s (ts %s), %d dropped, %d reaction failures\n",
				result.Posted, result.Message.Channel, result.Message.Timestamp,
				result.Dropped, result.ReactionFailures,
			)

			return err
		},
	}
}

// runOnce runs one digest through the scheduler guard.
func runOnce(ctx context.Context, p *pipeline) (*app.RunResult, error) {
	var result *app.RunResult

	err := p.scheduler.RunNow(ctx, func(ctx context.Context) error {
		var err error
		result, err = p.service.Run(ctx)

		return err
	})

	return result, err
}
