package domain

// MarkerID is a Slack emoji name such as "crossed_swords", used both inline
// in the digest text and as the reaction attached to the posted message.
type MarkerID string

// MarkerSource records which classifier stage produced a marker.
type MarkerSource string

// Classifier stages in evaluation order.
const (
	SourceGenre     MarkerSource = "genre"
	SourceTheme     MarkerSource = "theme"
	SourceRating    MarkerSource = "rating"
	SourceCatalogue MarkerSource = "catalogue"
	SourceExhausted MarkerSource = "exhausted"
)

// GenreRule maps an exact MAL genre name to a marker.
type GenreRule struct {
	Genre       string
	Marker      MarkerID
	Emoji       string // unicode rendering, informational
	Description string
}

// ThemeRule matches when any keyword is a substring of the lower-cased synopsis.
// Keywords are expected in lower case.
type ThemeRule struct {
	Keywords []string
	Marker   MarkerID
}

// RuleSet is the static marker catalogue, loaded once at startup.
type RuleSet struct {
	Genres    []GenreRule
	Themes    []ThemeRule // priority order
	Ratings   map[ContentRating]MarkerID
	Catalogue []MarkerID // ordered generic fallbacks
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() RuleSet {
	return RuleSet{
		Genres: []GenreRule{
			{Genre: "Action", Marker: "crossed_swords", Emoji: "⚔️", Description: "Action anime"},
			{Genre: "Adventure", Marker: "star", Emoji: "🌟", Description: "Adventure anime"},
		},
		Themes: []ThemeRule{
			{Keywords: []string{"school", "student"}, Marker: "school"},
			{Keywords: []string{"music", "band", "sing"}, Marker: "musical_note"},
			{Keywords: []string{"sport", "game", "competition"}, Marker: "soccer"},
			{Keywords: []string{"magic", "witch", "wizard"}, Marker: "sparkles"},
			{Keywords: []string{"robot", "mecha", "machine"}, Marker: "robot"},
			{Keywords: []string{"space", "planet", "galaxy"}, Marker: "rocket"},
			{Keywords: []string{"vampire", "demon", "monster"}, Marker: "ghost"},
			{Keywords: []string{"samurai", "sword", "ninja"}, Marker: "crossed_swords"},
			{Keywords: []string{"military", "war", "battle"}, Marker: "medal"},
			{Keywords: []string{"historical", "period", "era"}, Marker: "classical_building"},
		},
		Ratings: map[ContentRating]MarkerID{
			RatingG:     "baby",
			RatingPG:    "boy",
			RatingPG13:  "man",
			RatingR:     "underage",
			RatingRPlus: "underage",
		},
		Catalogue: []MarkerID{
			"tv", "popcorn", "clapper", "film_frames", "dango", "ramen",
			"rice_ball", "cherry_blossom", "japanese_goblin", "dragon", "fire", "zap",
		},
	}
}

// UsedMarkers is the set of markers already assigned during one digest pass.
// Create one per pass; it is not safe for concurrent use.
type UsedMarkers map[MarkerID]struct{}

// NewUsedMarkers returns an empty set.
func NewUsedMarkers() UsedMarkers {
	return make(UsedMarkers)
}

// Has reports whether m was already assigned.
func (u UsedMarkers) Has(m MarkerID) bool {
	_, ok := u[m]
	return ok
}

// Add marks m as assigned.
func (u UsedMarkers) Add(m MarkerID) {
	u[m] = struct{}{}
}

// Reset forgets every assignment.
func (u UsedMarkers) Reset() {
	clear(u)
}
