package model

// Category is the kind of media a record describes.
// The set is extensible; the engine only requires a non-empty lowercase tag.
type Category string

const (
	CategoryAnime Category = "anime"
	CategoryManga Category = "manga"
)

// Genre is a descriptive genre attached to a media record.
type Genre struct {
	Name string `json:"name"`
}

// CoverImage holds the artwork URLs for a record.
type CoverImage struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
}

// MediaRecord is the canonical external item fetched from a list-tracking
// service. It is immutable once fetched; one record per item per sync pass.
//
// Provider, Category and ExternalID together form the durable primary key
// linking the record to at most one local document — never the title or
// file location, both of which the user may change.
type MediaRecord struct {
	Provider   string   `json:"provider"`   // lowercase service tag, e.g. "mal", "anilist"
	Category   Category `json:"category"`   // "anime", "manga", ...
	ExternalID string   `json:"externalId"` // service-side ID, stringified
	Title      string   `json:"title"`
	UpdatedAt  string   `json:"updatedAt"` // ISO-8601 timestamp from the source service

	// Descriptive fields. All optional; the template resolver treats a
	// missing value as "no value", not as an error.
	TitleEnglish string      `json:"titleEnglish,omitempty"`
	TitleRomaji  string      `json:"titleRomaji,omitempty"`
	TitleNative  string      `json:"titleNative,omitempty"`
	Synonyms     []string    `json:"synonyms,omitempty"`
	Genres       []Genre     `json:"genres,omitempty"`
	Cover        *CoverImage `json:"cover,omitempty"`
	Description  string      `json:"description,omitempty"`
	URL          string      `json:"url,omitempty"`

	ListStatus  string `json:"listStatus,omitempty"`  // user's list state: watching, completed, ...
	MediaStatus string `json:"mediaStatus,omitempty"` // airing, finished, publishing, ...
	StartedAt   string `json:"startedAt,omitempty"`   // date the user started, ISO-8601 date
	CompletedAt string `json:"completedAt,omitempty"` // date the user finished, ISO-8601 date

	Score    *float64 `json:"score,omitempty"`    // user's score
	Progress *int     `json:"progress,omitempty"` // episodes watched / chapters read
	Episodes *int     `json:"episodes,omitempty"` // total episode count (anime)
	Chapters *int     `json:"chapters,omitempty"` // total chapter count (manga)
	Volumes  *int     `json:"volumes,omitempty"`  // total volume count (manga)
	Duration *int     `json:"duration,omitempty"` // episode length in minutes (anime)
}

// GenreNames returns the genre list as plain strings.
func (r *MediaRecord) GenreNames() []string {
	if len(r.Genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// Aliases returns every alternate title (english, romaji, native, synonyms)
// that differs from the main title, deduplicated, in stable order.
func (r *MediaRecord) Aliases() []string {
	seen := map[string]bool{r.Title: true, "": true}
	var out []string
	for _, t := range append([]string{r.TitleEnglish, r.TitleRomaji, r.TitleNative}, r.Synonyms...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
