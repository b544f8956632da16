// Package slack publishes digests to a Slack channel through the Web API.
package slack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/jsamuelsen/anime-digest/internal/adapters/clients"
	"github.com/jsamuelsen/anime-digest/internal/domain"
)

const serviceName = "slack"

var markerDisallowed = regexp.MustCompile(`[^A-Za-z0-9_\s]`)

// SanitizeMarker strips everything outside [A-Za-z0-9_\s] from an emoji
// name, so ":star:" becomes "star".
func SanitizeMarker(marker domain.MarkerID) string {
	return markerDisallowed.ReplaceAllString(string(marker), "")
}

// PublisherConfig contains configuration for the Slack publisher.
type PublisherConfig struct {
	// Client carries every Web API call. Its BaseURL is not used; APIURL is.
	Client *clients.Client

	// Token is the bot token.
	Token string

	// APIURL is the Web API root, e.g. https://slack.com/api/.
	APIURL string

	Logger *slog.Logger
}

// Publisher implements ports.Publisher on slack-go.
type Publisher struct {
	api    *slackapi.Client
	logger *slog.Logger
}

// NewPublisher creates a new Slack publisher.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewPublisher(cfg PublisherConfig) *Publisher {
	if cfg.Client == nil {
		panic("Publisher: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []slackapi.Option{slackapi.OptionHTTPClient(cfg.Client.HTTPDoer())}
	if cfg.APIURL != "" {
		opts = append(opts, slackapi.OptionAPIURL(strings.TrimSuffix(cfg.APIURL, "/")+"/"))
	}

	return &Publisher{
		api:    slackapi.New(cfg.Token, opts...),
		logger: logger.With(slog.String("component", "slack.Publisher")),
	}
}

// PostText posts text to channel with link unfurling disabled.
func (p *Publisher) PostText(ctx context.Context, channel, text string) (domain.MessageRef, error) {
	p.logger.DebugContext(ctx, "posting message",
		slog.String("channel", channel),
		slog.Int("length", len(text)))

	respChannel, ts, err := p.api.PostMessageContext(ctx, channel,
		slackapi.MsgOptionText(text, false),
		slackapi.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return domain.MessageRef{}, mapError(err, "chat.postMessage")
	}

	return domain.MessageRef{Channel: respChannel, Timestamp: ts}, nil
}

// AttachReaction adds marker as a reaction to the referenced message.
// A reaction that is already present counts as attached.
func (p *Publisher) AttachReaction(ctx context.Context, ref domain.MessageRef, marker domain.MarkerID) error {
	name := SanitizeMarker(marker)
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationErrorWithValue("marker", "no usable characters", string(marker))
	}

	err := p.api.AddReactionContext(ctx, name, slackapi.NewRefToMessage(ref.Channel, ref.Timestamp))
	if err == nil {
		return nil
	}

	var apiErr slackapi.SlackErrorResponse
	if errors.As(err, &apiErr) && apiErr.Err == "already_reacted" {
		p.logger.DebugContext(ctx, "reaction already present", slog.String("marker", name))
		return nil
	}

	return mapError(err, "reactions.add")
}

// Name returns the health check name for this publisher.
// Implements ports.HealthChecker.
func (p *Publisher) Name() string {
	return serviceName
}

// Check verifies the token with auth.test.
// Implements ports.HealthChecker.
func (p *Publisher) Check(ctx context.Context) error {
	if _, err := p.api.AuthTestContext(ctx); err != nil {
		return mapError(err, "auth.test")
	}

	return nil
}

// mapError translates slack-go and transport errors into domain errors.
func mapError(err error, method string) error {
	var rateLimited *slackapi.RateLimitedError
	if errors.As(err, &rateLimited) {
		return domain.NewRateLimitedError(serviceName, rateLimited.RetryAfter)
	}

	var statusErr slackapi.StatusCodeError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusTooManyRequests {
			return domain.NewRateLimitedError(serviceName, 0)
		}

		return domain.NewUnavailableError(serviceName, method+": "+statusErr.Error())
	}

	var apiErr slackapi.SlackErrorResponse
	if errors.As(err, &apiErr) {
		switch apiErr.Err {
		case "invalid_auth", "not_authed", "account_inactive", "token_revoked", "token_expired", "missing_scope", "not_in_channel":
			return domain.NewForbiddenError(method, apiErr.Err)
		case "channel_not_found":
			return domain.NewNotFoundError("channel", "")
		case "message_not_found":
			return domain.NewNotFoundError("message", "")
		case "invalid_name":
			return domain.NewValidationError("marker", apiErr.Err)
		case "ratelimited":
			return domain.NewRateLimitedError(serviceName, 0)
		default:
			return domain.NewUnavailableError(serviceName, method+": "+apiErr.Err)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return domain.NewUnavailableError(serviceName, method+": "+err.Error())
}
