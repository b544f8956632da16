package domain

import (
	"strings"
)

// RankingType is the MAL ranking category used to request a ranked list.
type RankingType string

// Ranking categories accepted by the MAL ranking endpoint.
const (
	RankingAll          RankingType = "all"
	RankingAiring       RankingType = "airing"
	RankingUpcoming     RankingType = "upcoming"
	RankingTV           RankingType = "tv"
	RankingOVA          RankingType = "ova"
	RankingMovie        RankingType = "movie"
	RankingSpecial      RankingType = "special"
	RankingByPopularity RankingType = "bypopularity"
	RankingFavorite     RankingType = "favorite"
)

var rankingTypes = []RankingType{
	RankingAll, RankingAiring, RankingUpcoming, RankingTV, RankingOVA,
	RankingMovie, RankingSpecial, RankingByPopularity, RankingFavorite,
}

// ParseRankingType validates a ranking category name.
func ParseRankingType(s string) (RankingType, error) {
	candidate := RankingType(strings.ToLower(strings.TrimSpace(s)))
	for _, rt := range rankingTypes {
		if rt == candidate {
			return rt, nil
		}
	}

	return "", NewValidationErrorWithValue("ranking", "unknown ranking type", s)
}

// ContentRating is the closed MAL audience rating enumeration.
type ContentRating string

// Content ratings. RatingUnknown covers missing and unrecognized values.
const (
	RatingUnknown ContentRating = ""
	RatingG       ContentRating = "G"
	RatingPG      ContentRating = "PG"
	RatingPG13    ContentRating = "PG-13"
	RatingR       ContentRating = "R"
	RatingRPlus   ContentRating = "R+"
	RatingRx      ContentRating = "Rx"
)

// ParseContentRating accepts both the API spelling ("pg_13", "r+") and the
// display spelling ("PG-13"). Anything else yields RatingUnknown.
func ParseContentRating(s string) ContentRating {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")

	switch normalized {
	case "g":
		return RatingG
	case "pg":
		return RatingPG
	case "pg-13":
		return RatingPG13
	case "r":
		return RatingR
	case "r+":
		return RatingRPlus
	case "rx":
		return RatingRx
	default:
		return RatingUnknown
	}
}

// Genre is a MAL genre tag.
type Genre struct {
	ID   int
	Name string
}

// Season is the broadcast start season of a show.
type Season struct {
	Year int
	Name string // winter, spring, summer, fall
}

// Anime is one ranked content record. It is produced by the metadata client
// and read, never modified, by the classifier and formatter.
type Anime struct {
	ID               int
	Title            string
	AlternativeTitle string
	Synopsis         string
	Genres           []Genre
	Rating           ContentRating
	Mean             float64
	MediaType        string
	NumEpisodes      int
	StartSeason      *Season
}

// GenreNames returns the genre names in API order.
func (a *Anime) GenreNames() []string {
	names := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		names = append(names, g.Name)
	}

	return names
}

// Ranking is the outcome of one ranked fetch. Dropped counts entries whose
// detail lookup failed and were left out of Items.
type Ranking struct {
	Category RankingType
	Items    []Anime
	Dropped  int
}
