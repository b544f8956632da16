package app

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/platform/config"
)

// BuildRuleSet converts the configured digest tables into classifier rules.
// Each empty table falls back to the matching built-in table. A rule with a
// blank marker is rejected.
func BuildRuleSet(cfg *config.DigestConfig) (domain.RuleSet, error) {
	rules := domain.DefaultRules()

	if len(cfg.Genres) > 0 {
		rules.Genres = make([]domain.GenreRule, 0, len(cfg.Genres))
		for i, g := range cfg.Genres {
			marker, err := markerFrom(fmt.Sprintf("digest.genres[%d].emoji_name", i), g.EmojiName)
			if err != nil {
				return domain.RuleSet{}, err
			}

			rules.Genres = append(rules.Genres, domain.GenreRule{
				Genre:       g.Name,
				Marker:      marker,
				Emoji:       g.Emoji,
				Description: g.Description,
			})
		}
	}

	if len(cfg.Themes) > 0 {
		rules.Themes = make([]domain.ThemeRule, 0, len(cfg.Themes))
		for i, th := range cfg.Themes {
			marker, err := markerFrom(fmt.Sprintf("digest.themes[%d].emoji_name", i), th.EmojiName)
			if err != nil {
				return domain.RuleSet{}, err
			}

			rules.Themes = append(rules.Themes, domain.ThemeRule{
				Keywords: th.Keywords,
				Marker:   marker,
			})
		}
	}

	if len(cfg.Ratings) > 0 {
		rules.Ratings = make(map[domain.ContentRating]domain.MarkerID, len(cfg.Ratings))
		for raw, marker := range cfg.Ratings {
			rating := domain.ParseContentRating(raw)
			if rating == domain.RatingUnknown {
				return domain.RuleSet{}, domain.NewValidationErrorWithValue("digest.ratings", "unknown content rating", raw)
			}

			m, err := markerFrom("digest.ratings["+raw+"]", marker)
			if err != nil {
				return domain.RuleSet{}, err
			}

			rules.Ratings[rating] = m
		}
	}

	if len(cfg.Catalogue) > 0 {
		rules.Catalogue = make([]domain.MarkerID, 0, len(cfg.Catalogue))
		for i, raw := range cfg.Catalogue {
			m, err := markerFrom(fmt.Sprintf("digest.catalogue[%d]", i), raw)
			if err != nil {
				return domain.RuleSet{}, err
			}

			rules.Catalogue = append(rules.Catalogue, m)
		}
	}

	return rules, nil
}

func markerFrom(field, raw string) (domain.MarkerID, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.NewValidationError(field, "marker is required")
	}

	return domain.MarkerID(name), nil
}
