package app

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// DefaultHeader is used when no header messages are configured.
const DefaultHeader = "Check out these top airing anime!"

// CallToAction closes every digest.
const CallToAction = "_React with an emoji to show which shows you're watching!_"

// Formatter renders ranked records into the Slack digest text.
type Formatter struct {
	classifier *domain.Classifier
	messages   []string
	rnd        domain.RandSource
}

// FormatterConfig contains the formatter's dependencies.
type FormatterConfig struct {
	Classifier *domain.Classifier
	Messages   []string
	Rand       domain.RandSource // header choice; nil uses math/rand/v2
}

// NewFormatter creates a formatter. It panics without a classifier.
func NewFormatter(cfg FormatterConfig) *Formatter {
	if cfg.Classifier == nil {
		panic("app: formatter requires a classifier")
	}

	messages := make([]string, 0, len(cfg.Messages))
	for _, m := range cfg.Messages {
		if m = strings.TrimSpace(m); m != "" {
			messages = append(messages, m)
		}
	}

	if len(messages) == 0 {
		messages = []string{DefaultHeader}
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = defaultRand{}
	}

	return &Formatter{
		classifier: cfg.Classifier,
		messages:   messages,
		rnd:        rnd,
	}
}

// Format classifies every record with one fresh UsedMarkers set and renders
// the digest:
//
//	*<header>*
//
//	1. :<marker>: *<title>* _(<alternative title>)_
//	<MEDIA> | <n> eps | <Year Season>
//	Rating: ⭐ <mean> | Genres: <a, b>
//
//	_React with an emoji to show which shows you're watching!_
func (f *Formatter) Format(records []domain.Anime) domain.Digest {
	header := f.messages[f.rnd.IntN(len(f.messages))]
	used := domain.NewUsedMarkers()

	digest := domain.Digest{
		Header:  header,
		Entries: make([]domain.DigestEntry, 0, len(records)),
	}

	blocks := make([]string, 0, len(records)+2)
	blocks = append(blocks, "*"+header+"*")

	for i := range records {
		record := &records[i]
		assignment := f.classifier.Assign(record, used)

		entry := domain.DigestEntry{
			Rank:   i + 1,
			Anime:  *record,
			Marker: assignment.Marker,
			Source: assignment.Source,
		}
		digest.Entries = append(digest.Entries, entry)
		blocks = append(blocks, renderEntry(&entry))
	}

	blocks = append(blocks, CallToAction)
	digest.Text = strings.Join(blocks, "\n\n")

	return digest
}

func renderEntry(e *domain.DigestEntry) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(e.Rank))
	b.WriteString(". :")
	b.WriteString(string(e.Marker))
	b.WriteString(": *")
	b.WriteString(e.Anime.Title)
	b.WriteString("*")

	if alt := strings.TrimSpace(e.Anime.AlternativeTitle); alt != "" {
		b.WriteString(" _(")
		b.WriteString(alt)
		b.WriteString(")_")
	}

	b.WriteString("\n")
	b.WriteString(strings.Join(detailFields(&e.Anime), " | "))
	b.WriteString("\n")
	b.WriteString(scoreLine(&e.Anime))

	return b.String()
}

func detailFields(a *domain.Anime) []string {
	fields := make([]string, 0, 3)

	media := "Unknown"
	if a.MediaType != "" {
		media = strings.ToUpper(a.MediaType)
	}

	fields = append(fields, media)

	if a.NumEpisodes > 0 {
		fields = append(fields, strconv.Itoa(a.NumEpisodes)+" eps")
	}

	fields = append(fields, SeasonLabel(a.StartSeason))

	return fields
}

// SeasonLabel renders "2024 Spring", or "TBA" when the season is unknown.
func SeasonLabel(s *domain.Season) string {
	if s == nil || s.Year == 0 || s.Name == "" {
		return "TBA"
	}

	return strconv.Itoa(s.Year) + " " + cases.Title(language.English).String(s.Name)
}

func scoreLine(a *domain.Anime) string {
	rating := "Rating: N/A"
	if a.Mean > 0 {
		rating = "Rating: ⭐ " + strconv.FormatFloat(a.Mean, 'f', -1, 64)
	}

	genres := "Unknown"
	if names := a.GenreNames(); len(names) > 0 {
		genres = strings.Join(names, ", ")
	}

	return rating + " | Genres: " + genres
}
