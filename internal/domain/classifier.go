package domain

import (
	"math/rand/v2"
	"strings"
)

// RandSource picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) } //nolint:gosec // marker choice is not security sensitive

// Assignment is a classifier decision.
type Assignment struct {
	Marker MarkerID
	Source MarkerSource
}

// Classifier maps an anime to a reaction marker, avoiding markers already used
// in the current pass. Rule tables are immutable after construction, so one
// Classifier can serve any number of passes; uniqueness lives in UsedMarkers.
type Classifier struct {
	genres    map[string]MarkerID
	themes    []ThemeRule
	ratings   map[ContentRating]MarkerID
	catalogue []MarkerID
	rnd       RandSource
}

// NewClassifier builds a classifier over rules. A nil rnd uses the shared
// math/rand/v2 source. The catalogue must contain at least one marker.
func NewClassifier(rules RuleSet, rnd RandSource) (*Classifier, error) {
	catalogue := dedupe(rules.Catalogue)
	if len(catalogue) == 0 {
		return nil, NewValidationError("catalogue", "must contain at least one marker")
	}

	if rnd == nil {
		rnd = globalRand{}
	}

	genres := make(map[string]MarkerID, len(rules.Genres))
	for _, r := range rules.Genres {
		if r.Marker == "" {
			continue
		}
		if _, exists := genres[r.Genre]; !exists {
			genres[r.Genre] = r.Marker
		}
	}

	themes := make([]ThemeRule, 0, len(rules.Themes))
	for _, r := range rules.Themes {
		if r.Marker == "" {
			continue
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		themes = append(themes, ThemeRule{Keywords: keywords, Marker: r.Marker})
	}

	ratings := make(map[ContentRating]MarkerID, len(rules.Ratings))
	for k, v := range rules.Ratings {
		if v != "" {
			ratings[k] = v
		}
	}

	return &Classifier{
		genres:    genres,
		themes:    themes,
		ratings:   ratings,
		catalogue: catalogue,
		rnd:       rnd,
	}, nil
}

// Classify returns the marker for a and records it in used. A nil used is
// treated as an empty set and nothing is recorded.
func (c *Classifier) Classify(a *Anime, used UsedMarkers) MarkerID {
	return c.Assign(a, used).Marker
}

// Assign is Classify plus the stage that produced the marker.
//
// Stages run in order and the first hit wins: genre rules in the record's genre
// order, theme rules in priority order, the rating rule, a random unused catalogue
// marker. A theme whose marker is taken is skipped, not retried. When the whole
// catalogue is taken, used is cleared and any catalogue marker may be chosen.
func (c *Classifier) Assign(a *Anime, used UsedMarkers) Assignment {
	if used == nil {
		used = NewUsedMarkers()
	}

	result := c.assign(a, used)
	used.Add(result.Marker)

	return result
}

func (c *Classifier) assign(a *Anime, used UsedMarkers) Assignment {
	for _, g := range a.Genres {
		if m, ok := c.genres[g.Name]; ok && !used.Has(m) {
			return Assignment{Marker: m, Source: SourceGenre}
		}
	}

	if synopsis := strings.ToLower(a.Synopsis); synopsis != "" {
		for _, t := range c.themes {
			if !containsAny(synopsis, t.Keywords) || used.Has(t.Marker) {
				continue
			}

			return Assignment{Marker: t.Marker, Source: SourceTheme}
		}
	}

	if m, ok := c.ratings[a.Rating]; ok && !used.Has(m) {
		return Assignment{Marker: m, Source: SourceRating}
	}

	free := make([]MarkerID, 0, len(c.catalogue))
	for _, m := range c.catalogue {
		if !used.Has(m) {
			free = append(free, m)
		}
	}

	if len(free) > 0 {
		return Assignment{Marker: free[c.rnd.IntN(len(free))], Source: SourceCatalogue}
	}

	used.Reset()

	return Assignment{Marker: c.catalogue[c.rnd.IntN(len(c.catalogue))], Source: SourceExhausted}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}

	return false
}

func dedupe(markers []MarkerID) []MarkerID {
	seen := make(map[MarkerID]struct{}, len(markers))
	out := make([]MarkerID, 0, len(markers))

	for _, m := range markers {
		if m == "" {
			continue
		}

		if _, ok := seen[m]; ok {
			continue
		}

		seen[m] = struct{}{}
		out = append(out, m)
	}

	return out
}
