// Package ports defines the contracts between the digest pipeline and the
// outside world. Adapters implement them; the application layer only sees
// domain types and domain errors.
package ports

import (
	"context"

	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// AnimeClient fetches ranked anime metadata.
type AnimeClient interface {
	// FetchTopRanked returns up to limit records for category in rank order,
	// each enriched with its details. A failed detail lookup is logged and the
	// record dropped; only a failed ranking request is an error.
	FetchTopRanked(ctx context.Context, category domain.RankingType, limit int) (*domain.Ranking, error)
}

// Publisher posts digests to a chat channel.
type Publisher interface {
	// PostText posts text to channel and returns a reference to the new message.
	PostText(ctx context.Context, channel, text string) (domain.MessageRef, error)

	// AttachReaction adds marker as a reaction on the referenced message.
	AttachReaction(ctx context.Context, ref domain.MessageRef, marker domain.MarkerID) error
}
