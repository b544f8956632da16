package acl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen/anime-digest/internal/adapters/clients"
	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/platform/logging"
)

const (
	malServiceName = "myanimelist"

	// HeaderMALClientID carries the application client ID on every MAL request.
	HeaderMALClientID = "X-MAL-CLIENT-ID"

	malMaxLimit = 500

	rankingFields = "id,title,synopsis,genres,rating,mean"
	detailFields  = "id,title,synopsis,genres,rating,mean,media_type,num_episodes,start_season,alternative_titles"
)

// MALAuth returns an auth function that sets the MAL client ID header.
func MALAuth(clientID string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(HeaderMALClientID, clientID)
	}
}

// MALClientConfig contains configuration for the MAL client.
type MALClientConfig struct {
	// Client is the HTTP client to use for requests. Its BaseURL should point
	// at the v2 API root and its AuthFunc should be MALAuth.
	Client *clients.Client

	Logger *slog.Logger
}

// MALClient implements ports.AnimeClient against the MyAnimeList v2 API.
type MALClient struct {
	BaseAdapter
	logger *slog.Logger
}

// NewMALClient creates a new MAL adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewMALClient(cfg MALClientConfig) *MALClient {
	if cfg.Client == nil {
		panic("MALClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MALClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, malServiceName),
		logger:      logger.With(slog.String("component", "acl.MALClient")),
	}
}

type malRankingResponse struct {
	Data []struct {
		Node    malRankingNode `json:"node"`
		Ranking struct {
			Rank int `json:"rank"`
		} `json:"ranking"`
	} `json:"data"`
}

type malRankingNode struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type malAnimeDetail struct {
	ID                int        `json:"id"`
	Title             string     `json:"title"`
	Synopsis          string     `json:"synopsis"`
	Genres            []malGenre `json:"genres"`
	Rating            string     `json:"rating"`
	Mean              float64    `json:"mean"`
	MediaType         string     `json:"media_type"`
	NumEpisodes       int        `json:"num_episodes"`
	StartSeason       *malSeason `json:"start_season"`
	AlternativeTitles *struct {
		En       string   `json:"en"`
		Ja       string   `json:"ja"`
		Synonyms []string `json:"synonyms"`
	} `json:"alternative_titles"`
}

type malGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type malSeason struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
}

// FetchTopRanked returns up to limit ranked records with full details.
// Entries whose detail lookup fails are logged and counted in Dropped;
// a failure of the ranking request itself fails the whole call.
func (c *MALClient) FetchTopRanked(ctx context.Context, category domain.RankingType, limit int) (*domain.Ranking, error) {
	if err := ValidatePositive(limit, "limit"); err != nil {
		return nil, err
	}

	if limit > malMaxLimit {
		return nil, domain.NewValidationErrorWithValue("limit", "must not exceed 500", strconv.Itoa(limit))
	}

	query := url.Values{}
	query.Set("ranking_type", string(category))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("fields", rankingFields)

	c.logger.DebugContext(ctx, "fetching ranking",
		slog.String("ranking", string(category)),
		slog.Int("limit", limit))

	body, err := c.Get(ctx, "/anime/ranking?"+query.Encode(), "fetch ranking", string(category))
	if err != nil {
		return nil, err
	}

	ranking, err := DecodeResponse[malRankingResponse](body)
	if err != nil {
		return nil, domain.NewUnavailableError(malServiceName, err.Error())
	}

	result := &domain.Ranking{
		Category: category,
		Items:    make([]domain.Anime, 0, len(ranking.Data)),
	}

	for _, entry := range ranking.Data {
		anime, err := c.fetchDetail(ctx, entry.Node.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			c.logger.WarnContext(ctx, "dropping ranked entry",
				slog.Int("anime_id", entry.Node.ID),
				slog.String("title", entry.Node.Title),
				slog.Int("rank", entry.Ranking.Rank),
				slog.Any("error", err))

			result.Dropped++

			continue
		}

		result.Items = append(result.Items, *anime)
	}

	c.logger.Log(ctx, logging.LevelTrace, "ranking fetched",
		slog.Int("items", len(result.Items)),
		slog.Int("dropped", result.Dropped))

	return result, nil
}

func (c *MALClient) fetchDetail(ctx context.Context, id int) (*domain.Anime, error) {
	if err := ValidatePositive(id, "id"); err != nil {
		return nil, err
	}

	idStr := strconv.Itoa(id)

	body, err := c.Get(ctx, "/anime/"+idStr+"?fields="+detailFields, "fetch anime", idStr)
	if err != nil {
		return nil, err
	}

	detail, err := DecodeResponse[malAnimeDetail](body)
	if err != nil {
		return nil, domain.NewUnavailableError(malServiceName, err.Error())
	}

	return translateAnime(detail)
}

// translateAnime converts a MAL detail record to a domain Anime.
func translateAnime(ext *malAnimeDetail) (*domain.Anime, error) {
	if err := ValidatePositive(ext.ID, "id"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(ext.Title)
	if err := ValidateRequired(title, "title"); err != nil {
		return nil, err
	}

	anime := &domain.Anime{
		ID:          ext.ID,
		Title:       title,
		Synopsis:    ext.Synopsis,
		Rating:      domain.ParseContentRating(ext.Rating),
		Mean:        ext.Mean,
		MediaType:   ext.MediaType,
		NumEpisodes: ext.NumEpisodes,
		Genres:      make([]domain.Genre, 0, len(ext.Genres)),
	}

	genres, err := TranslateSlice(ext.Genres, translateGenre)
	if err != nil {
		return nil, err
	}

	for _, g := range genres {
		anime.Genres = append(anime.Genres, *g)
	}

	if ext.AlternativeTitles != nil {
		alt := strings.TrimSpace(ext.AlternativeTitles.En)
		if alt != "" && !strings.EqualFold(alt, title) {
			anime.AlternativeTitle = alt
		}
	}

	if ext.StartSeason != nil {
		anime.StartSeason = &domain.Season{Year: ext.StartSeason.Year, Name: ext.StartSeason.Season}
	}

	return anime, nil
}

func translateGenre(ext *malGenre) (*domain.Genre, error) {
	if err := ValidateRequired(ext.Name, "genre"); err != nil {
		return nil, err
	}

	return &domain.Genre{ID: ext.ID, Name: ext.Name}, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *MALClient) Name() string {
	return malServiceName
}

// Check requests a single ranked entry to verify connectivity and credentials.
// Implements ports.HealthChecker.
func (c *MALClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, "/anime/ranking?ranking_type=all&limit=1", "health check", "")
	if err != nil {
		return err
	}

	_ = body.Close()

	return nil
}
