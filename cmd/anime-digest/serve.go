package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/jsamuelsen/anime-digest/internal/adapters/http"
	"github.com/jsamuelsen/anime-digest/internal/adapters/http/handlers"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var skipInitial bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Post a digest now, then on the configured cron schedule",
		Long: "serve posts one digest immediately and then one per schedule tick until\n" +
			"SIGINT or SIGTERM. When server.enabled is set it also serves probes,\n" +
			"metrics and the digest API.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, opts, skipInitial, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "Wait for the first schedule tick instead of posting at startup")

	return cmd
}

func serve(ctx context.Context, opts *rootOptions, skipInitial bool, logOut io.Writer) error {
	p, err := newPipeline(ctx, opts, logOut)
	if err != nil {
		return err
	}
	defer p.close(ctx)

	logger := p.logger
	logger.Info("starting anime-digest",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", p.cfg.App.Environment),
		slog.String("schedule", p.cfg.Schedule.Cron),
	)

	if err := p.scheduler.RunOnSchedule(p.cfg.Schedule.Cron, p.runJob); err != nil {
		return fmt.Errorf("registering schedule: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if p.cfg.Server.Enabled {
		server := newOpsServer(p)
		g.Go(func() error { return server.Run(gctx) })
	}

	if !skipInitial {
		// A failed first run is logged; the schedule still starts.
		if err := p.scheduler.RunNow(gctx, p.runJob); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("initial digest run failed", slog.Any("error", err))
		}
	}

	p.scheduler.Start(gctx)

	<-gctx.Done()
	logger.Info("shutting down", slog.Any("cause", context.Cause(gctx)))

	<-p.scheduler.Stop().Done()

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func newOpsServer(p *pipeline) *httpadapter.Server {
	server := httpadapter.New(&p.cfg.Server, p.logger)

	health := handlers.NewHealthHandler(
		p.health,
		handlers.NewBuildInfo(Version, Commit, BuildTime),
		p.metrics,
	)
	digest := handlers.NewDigestHandler(p.service, p.scheduler)

	routerCfg := httpadapter.NewDefaultRouterConfig(p.logger, p.cfg.App.Name, health, digest)
	if p.cfg.Server.RequestTimeout > 0 {
		routerCfg.Timeout = p.cfg.Server.RequestTimeout
	}

	httpadapter.SetupRouter(server.Engine(), routerCfg)

	return server
}
