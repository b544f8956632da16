package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedRand always picks the same index, clamped to n.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	return int(f) % n
}

func newTestFormatter(t *testing.T, messages ...string) *Formatter {
	t.Helper()

	classifier, err := domain.NewClassifier(domain.DefaultRules(), fixedRand(0))
	require.NoError(t, err)

	return NewFormatter(FormatterConfig{
		Classifier: classifier,
		Messages:   messages,
		Rand:       fixedRand(0),
	})
}

func frieren() domain.Anime {
	return domain.Anime{
		ID:               52991,
		Title:            "Sousou no Frieren",
		AlternativeTitle: "Frieren: Beyond Journey's End",
		Synopsis:         "An elf mage reflects on the journey after the demon king falls.",
		Genres: []domain.Genre{
			{ID: 2, Name: "Adventure"},
			{ID: 8, Name: "Drama"},
			{ID: 10, Name: "Fantasy"},
		},
		Rating:      domain.RatingPG13,
		Mean:        9.31,
		MediaType:   "tv",
		NumEpisodes: 28,
		StartSeason: &domain.Season{Year: 2023, Name: "fall"},
	}
}

func bladeEra() domain.Anime {
	return domain.Anime{
		ID:       1,
		Title:    "Blade Era",
		Synopsis: "a lone samurai seeks revenge",
		Rating:   domain.RatingPG13,
	}
}
