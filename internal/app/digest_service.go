// Package app contains the digest pipeline: formatting ranked records,
// running fetch, post and react as one unit, and scheduling those runs.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/platform/logging"
	"github.com/jsamuelsen/anime-digest/internal/ports"
)

// RunResult summarizes one posted digest.
type RunResult struct {
	RunID            string
	Posted           int
	Dropped          int
	ReactionFailures int
	Message          domain.MessageRef
	Duration         time.Duration
}

// DigestService runs the fetch, format, post and react pipeline.
type DigestService struct {
	anime     ports.AnimeClient
	publisher ports.Publisher
	formatter *Formatter
	metrics   *Metrics
	channel   string
	ranking   domain.RankingType
	limit     int
	logger    *slog.Logger
}

// DigestServiceConfig contains the service's dependencies and run settings.
type DigestServiceConfig struct {
	AnimeClient ports.AnimeClient
	Publisher   ports.Publisher
	Formatter   *Formatter
	Metrics     *Metrics // optional
	Channel     string
	Ranking     domain.RankingType
	Limit       int
	Logger      *slog.Logger
}

// NewDigestService creates the service. It panics when a required dependency is missing.
func NewDigestService(cfg DigestServiceConfig) *DigestService {
	if cfg.AnimeClient == nil || cfg.Publisher == nil || cfg.Formatter == nil {
		panic("app: digest service requires an anime client, a publisher and a formatter")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ranking := cfg.Ranking
	if ranking == "" {
		ranking = domain.RankingAiring
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}

	return &DigestService{
		anime:     cfg.AnimeClient,
		publisher: cfg.Publisher,
		formatter: cfg.Formatter,
		metrics:   cfg.Metrics,
		channel:   cfg.Channel,
		ranking:   ranking,
		limit:     limit,
		logger:    logger,
	}
}

// Run fetches the configured ranking, posts the digest and attaches one
// reaction per entry in rank order.
//
// A failed fetch or post aborts the run. A failed reaction is logged and
// counted; the remaining reactions are still attempted and the run succeeds.
func (s *DigestService) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	ctx = logging.WithContext(ctx, s.logger)
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	logger.InfoContext(ctx, "digest run started",
		slog.String("ranking", string(s.ranking)),
		slog.Int("limit", s.limit),
	)

	ranking, err := s.anime.FetchTopRanked(ctx, s.ranking, s.limit)
	if err != nil {
		s.metrics.runFinished(RunResultFailure)
		logger.ErrorContext(ctx, "digest run aborted: ranking fetch failed", slog.Any("error", err))

		return nil, fmt.Errorf("fetching %s ranking: %w", s.ranking, err)
	}

	s.metrics.itemsDroppedAdd(ranking.Dropped)

	digest := s.formatter.Format(ranking.Items)
	s.metrics.markersAssigned(digest.Entries)

	ref, err := s.publisher.PostText(ctx, s.channel, digest.Text)
	if err != nil {
		s.metrics.runFinished(RunResultFailure)
		logger.ErrorContext(ctx, "digest run aborted: post failed",
			slog.String("channel", s.channel),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("posting digest to %s: %w", s.channel, err)
	}

	result := &RunResult{
		RunID:   runID,
		Posted:  len(digest.Entries),
		Dropped: ranking.Dropped,
		Message: ref,
	}

	for _, entry := range digest.Entries {
		if err := s.publisher.AttachReaction(ctx, ref, entry.Marker); err != nil {
			result.ReactionFailures++
			s.metrics.reactionFailed()
			logger.WarnContext(ctx, "failed to attach reaction",
				slog.Int("rank", entry.Rank),
				slog.String("marker", string(entry.Marker)),
				slog.Any("error", err),
			)
		}
	}

	result.Duration = time.Since(start)
	s.metrics.runFinished(RunResultSuccess)

	logger.InfoContext(ctx, "digest run completed",
		slog.Int("posted", result.Posted),
		slog.Int("dropped", result.Dropped),
		slog.Int("reaction_failures", result.ReactionFailures),
		slog.String("message_ts", ref.Timestamp),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// Preview fetches and formats a digest without posting it. A zero category
// or limit uses the configured value.
func (s *DigestService) Preview(ctx context.Context, category domain.RankingType, limit int) (*domain.Digest, error) {
	if category == "" {
		category = s.ranking
	}

	if limit <= 0 {
		limit = s.limit
	}

	ranking, err := s.anime.FetchTopRanked(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching %s ranking: %w", category, err)
	}

	digest := s.formatter.Format(ranking.Items)

	s.logger.DebugContext(ctx, "digest preview built",
		slog.String("ranking", string(category)),
		slog.Int("entries", len(digest.Entries)),
		slog.Any("markers", digest.Markers()),
	)

	return &digest, nil
}
