package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRankingType(t *testing.T) {
	tests := []struct {
		in      string
		want    RankingType
		wantErr bool
	}{
		{"airing", RankingAiring, false},
		{" Upcoming ", RankingUpcoming, false},
		{"BYPOPULARITY", RankingByPopularity, false},
		{"favorite", RankingFavorite, false},
		{"trending", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRankingType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseContentRating(t *testing.T) {
	tests := []struct {
		in   string
		want ContentRating
	}{
		{"g", RatingG},
		{"pg", RatingPG},
		{"pg_13", RatingPG13},
		{"PG-13", RatingPG13},
		{"r", RatingR},
		{"r+", RatingRPlus},
		{"rx", RatingRx},
		{"", RatingUnknown},
		{"nc-17", RatingUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContentRating(tt.in))
		})
	}
}

func TestAnime_GenreNames(t *testing.T) {
	a := &Anime{Genres: []Genre{{ID: 1, Name: "Action"}, {ID: 8, Name: "Drama"}}}
	assert.Equal(t, []string{"Action", "Drama"}, a.GenreNames())

	assert.Empty(t, (&Anime{}).GenreNames())
}
