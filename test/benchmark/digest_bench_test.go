package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/anime-digest/internal/adapters/http"
	"github.com/jsamuelsen/anime-digest/internal/adapters/http/handlers"
	"github.com/jsamuelsen/anime-digest/internal/adapters/slack"
	"github.com/jsamuelsen/anime-digest/internal/app"
	"github.com/jsamuelsen/anime-digest/internal/domain"
	"github.com/jsamuelsen/anime-digest/internal/ports"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

// staticChecker always reports healthy.
type staticChecker struct {
	name string
}

func (s staticChecker) Name() string                  { return s.name }
func (s staticChecker) Check(_ context.Context) error { return nil }

var genres = []string{"Action", "Adventure", "Drama", "Comedy", "Horror", "Romance"}

func records(n int) []domain.Anime {
	out := make([]domain.Anime, 0, n)
	for i := range n {
		out = append(out, domain.Anime{
			ID:               i + 1,
			Title:            fmt.Sprintf("Show %d", i+1),
			AlternativeTitle: fmt.Sprintf("Alt %d", i+1),
			Synopsis:         "A wizard and a robot travel across the galaxy to school.",
			Genres:           []domain.Genre{{ID: i % len(genres), Name: genres[i%len(genres)]}},
			Rating:           domain.RatingPG13,
			Mean:             8.25,
			MediaType:        "tv",
			NumEpisodes:      12,
			StartSeason:      &domain.Season{Year: 2026, Name: "fall"},
		})
	}

	return out
}

func newFormatter(b *testing.B) *app.Formatter {
	b.Helper()

	classifier, err := domain.NewClassifier(domain.DefaultRules(), firstRand{})
	if err != nil {
		b.Fatal(err)
	}

	return app.NewFormatter(app.FormatterConfig{
		Classifier: classifier,
		Messages:   []string{"Check out these top airing anime!"},
		Rand:       firstRand{},
	})
}

// BenchmarkFormatter_Format measures building one digest, the per-run hot path.
func BenchmarkFormatter_Format(b *testing.B) {
	for _, n := range []int{10, 50, 500} {
		b.Run(fmt.Sprintf("entries=%d", n), func(b *testing.B) {
			f := newFormatter(b)
			in := records(n)

			b.ReportAllocs()

			for b.Loop() {
				_ = f.Format(in)
			}
		})
	}
}

// BenchmarkClassifier_Assign measures a single marker assignment against a
// fresh used set.
func BenchmarkClassifier_Assign(b *testing.B) {
	classifier, err := domain.NewClassifier(domain.DefaultRules(), firstRand{})
	if err != nil {
		b.Fatal(err)
	}

	record := records(1)[0]
	record.Genres = []domain.Genre{{ID: 8, Name: "Drama"}}

	b.ReportAllocs()

	for b.Loop() {
		_ = classifier.Assign(&record, domain.NewUsedMarkers())
	}
}

// BenchmarkSanitizeMarker measures reaction name cleanup.
func BenchmarkSanitizeMarker(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		_ = slack.SanitizeMarker(":cherry-blossom!:")
	}
}

func newRouter() *gin.Engine {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(staticChecker{name: "myanimelist"})
	_ = registry.Register(staticChecker{name: "slack"})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ServiceName: "anime-digest",
		HealthHandler: handlers.NewHealthHandler(
			registry,
			handlers.NewBuildInfo("1.0.0", "abc123", "2026-10-01T00:00:00Z"),
			prometheus.NewRegistry(),
		),
	})

	return engine
}

// BenchmarkRouter_Probes measures probes through the full middleware chain.
func BenchmarkRouter_Probes(b *testing.B) {
	router := newRouter()

	for _, path := range []string{"/-/live", "/-/ready", "/-/build"} {
		b.Run(path, func(b *testing.B) {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)

			b.ReportAllocs()

			for b.Loop() {
				router.ServeHTTP(httptest.NewRecorder(), req)
			}
		})
	}
}
