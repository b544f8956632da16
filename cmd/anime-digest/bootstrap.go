package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/anime-digest/internal/adapters/clients"
	"github.com/jsamuelsen/anime-digest/internal/adapters/clients/acl"
	"github.com/jsamuelsen/anime-digest/internal/adapters/slack"
	"github.com/jsamuelsen/anime-digest/internal/app"
	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/platform/config"
	"github.com/jsamuelsen/anime-digest/internal/platform/logging"
	"github.com/jsamuelsen/anime-digest/internal/platform/telemetry"
	"github.com/jsamuelsen/anime-digest/internal/ports"
)

type rootOptions struct {
	profile   string
	configDir string
	envFile   string
}

// loadConfig loads and validates configuration. Missing credentials fail here.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithOptions(o.profile, config.Options{
		Dir:    o.configDir,
		DotEnv: o.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// pipeline holds everything one process needs to run digests.
type pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	metrics   *prometheus.Registry
	health    *ports.DefaultHealthRegistry
	service   *app.DigestService
	scheduler *app.Scheduler
}

// newPipeline wires config, logging, telemetry, both upstream clients and the
// digest service. Logs go to w.
func newPipeline(ctx context.Context, opts *rootOptions, w io.Writer) (*pipeline, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
	logging.SetDefault(logger)

	tel, err := telemetry.New(ctx, telemetry.NewConfig(&cfg.App, &cfg.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	p := &pipeline{
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		metrics:   prometheus.NewRegistry(),
		health:    ports.NewHealthRegistry(),
	}

	p.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := p.wire(); err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	return p, nil
}

func (p *pipeline) wire() error {
	cfg := p.cfg

	malHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.MAL.BaseURL,
		ServiceName: "myanimelist",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    acl.MALAuth(cfg.MAL.ClientID),
		Logger:      p.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MAL client: %w", err)
	}

	slackHTTP, err := clients.New(&clients.Config{
		ServiceName: "slack",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      p.logger,
	})
	if err != nil {
		return fmt.Errorf("creating Slack client: %w", err)
	}

	mal := acl.NewMALClient(acl.MALClientConfig{Client: malHTTP, Logger: p.logger})
	publisher := slack.NewPublisher(slack.PublisherConfig{
		Client: slackHTTP,
		Token:  cfg.Slack.Token,
		APIURL: cfg.Slack.BaseURL,
		Logger: p.logger,
	})

	if err := errors.Join(p.health.Register(mal), p.health.Register(publisher)); err != nil {
		return fmt.Errorf("registering health checks: %w", err)
	}

	rules, err := app.BuildRuleSet(&cfg.Digest)
	if err != nil {
		return fmt.Errorf("building marker rules: %w", err)
	}

	classifier, err := domain.NewClassifier(rules, nil)
	if err != nil {
		return fmt.Errorf("building classifier: %w", err)
	}

	ranking, err := domain.ParseRankingType(cfg.Digest.Ranking)
	if err != nil {
		return fmt.Errorf("digest ranking: %w", err)
	}

	metrics := app.NewMetrics(p.metrics)

	p.service = app.NewDigestService(app.DigestServiceConfig{
		AnimeClient: mal,
		Publisher:   publisher,
		Formatter:   app.NewFormatter(app.FormatterConfig{Classifier: classifier, Messages: cfg.Digest.Messages}),
		Metrics:     metrics,
		Channel:     cfg.Slack.Channel,
		Ranking:     ranking,
		Limit:       cfg.Digest.Limit,
		Logger:      p.logger,
	})

	p.scheduler = app.NewScheduler(app.SchedulerConfig{Logger: p.logger, Metrics: metrics})

	return nil
}

// runJob adapts the digest service to the scheduler.
func (p *pipeline) runJob(ctx context.Context) error {
	_, err := p.service.Run(ctx)
	return err
}

func (p *pipeline) close(ctx context.Context) {
	if err := p.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
		p.logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}
