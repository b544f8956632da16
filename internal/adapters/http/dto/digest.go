package dto

import (
	"github.com/jsamuelsen/anime-digest/internal/app"
	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// PreviewQuery is the query string of GET /api/v1/digest/preview.
// Zero values fall back to the configured ranking and limit.
type PreviewQuery struct {
	Ranking string `form:"ranking" validate:"omitempty,ranking"`
	Limit   int    `form:"limit"   validate:"omitempty,min=1,max=500"`
}

// DigestEntryResponse is one ranked entry of a preview.
type DigestEntryResponse struct {
	Rank             int      `json:"rank"`
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	AlternativeTitle string   `json:"alternativeTitle,omitempty"`
	Marker           string   `json:"marker"`
	MarkerSource     string   `json:"markerSource"`
	MediaType        string   `json:"mediaType,omitempty"`
	Episodes         int      `json:"episodes,omitempty"`
	Rating           string   `json:"rating,omitempty"`
	Mean             float64  `json:"mean,omitempty"`
	Genres           []string `json:"genres"`
}

// DigestResponse is the body of GET /api/v1/digest/preview.
type DigestResponse struct {
	Header  string                `json:"header"`
	Text    string                `json:"text"`
	Entries []DigestEntryResponse `json:"entries"`
}

// RunResponse is the body of POST /api/v1/digest/runs.
type RunResponse struct {
	RunID            string `json:"runId"`
	Posted           int    `json:"posted"`
	Dropped          int    `json:"dropped"`
	ReactionFailures int    `json:"reactionFailures"`
	Channel          string `json:"channel,omitempty"`
	Timestamp        string `json:"timestamp,omitempty"`
	DurationMS       int64  `json:"durationMs"`
}

// NewDigestResponse converts a formatted digest to its wire form.
func NewDigestResponse(d *domain.Digest) DigestResponse {
	resp := DigestResponse{
		Header:  d.Header,
		Text:    d.Text,
		Entries: make([]DigestEntryResponse, 0, len(d.Entries)),
	}

	for _, e := range d.Entries {
		resp.Entries = append(resp.Entries, DigestEntryResponse{
			Rank:             e.Rank,
			ID:               e.Anime.ID,
			Title:            e.Anime.Title,
			AlternativeTitle: e.Anime.AlternativeTitle,
			Marker:           string(e.Marker),
			MarkerSource:     string(e.Source),
			MediaType:        e.Anime.MediaType,
			Episodes:         e.Anime.NumEpisodes,
			Rating:           string(e.Anime.Rating),
			Mean:             e.Anime.Mean,
			Genres:           e.Anime.GenreNames(),
		})
	}

	return resp
}

// NewRunResponse converts a run result to its wire form.
func NewRunResponse(r *app.RunResult) RunResponse {
	return RunResponse{
		RunID:            r.RunID,
		Posted:           r.Posted,
		Dropped:          r.Dropped,
		ReactionFailures: r.ReactionFailures,
		Channel:          r.Message.Channel,
		Timestamp:        r.Message.Timestamp,
		DurationMS:       r.Duration.Milliseconds(),
	}
}
