package template

import (
	"path"
	"strconv"
	"strings"

	"mls-go/internal/model"
)

// accessor extracts one named variable from a record.
type accessor func(*model.MediaRecord) Value

// accessors is the fixed variable table the resolver looks names up in.
// An unknown name resolves to Absent — the token disappears from the
// output instead of surviving as a literal placeholder.
var accessors = map[string]accessor{
	"provider": func(r *model.MediaRecord) Value { return nonEmpty(r.Provider) },
	"category": func(r *model.MediaRecord) Value { return nonEmpty(string(r.Category)) },
	"id":       func(r *model.MediaRecord) Value { return nonEmpty(r.ExternalID) },

	"title":        func(r *model.MediaRecord) Value { return nonEmpty(r.Title) },
	"englishTitle": func(r *model.MediaRecord) Value { return nonEmpty(r.TitleEnglish) },
	"romajiTitle":  func(r *model.MediaRecord) Value { return nonEmpty(r.TitleRomaji) },
	"nativeTitle":  func(r *model.MediaRecord) Value { return nonEmpty(r.TitleNative) },
	"aliases":      func(r *model.MediaRecord) Value { return List(r.Aliases()) },
	"genres":       func(r *model.MediaRecord) Value { return List(r.GenreNames()) },

	"description": func(r *model.MediaRecord) Value { return nonEmpty(r.Description) },
	"url":         func(r *model.MediaRecord) Value { return nonEmpty(r.URL) },
	"updatedAt":   func(r *model.MediaRecord) Value { return nonEmpty(r.UpdatedAt) },

	"listStatus":  func(r *model.MediaRecord) Value { return nonEmpty(r.ListStatus) },
	"mediaStatus": func(r *model.MediaRecord) Value { return nonEmpty(r.MediaStatus) },
	"startedAt":   func(r *model.MediaRecord) Value { return nonEmpty(r.StartedAt) },
	"completedAt": func(r *model.MediaRecord) Value { return nonEmpty(r.CompletedAt) },

	"score":    func(r *model.MediaRecord) Value { return floatVal(r.Score) },
	"progress": func(r *model.MediaRecord) Value { return intVal(r.Progress) },
	"episodes": func(r *model.MediaRecord) Value { return intVal(r.Episodes) },
	"chapters": func(r *model.MediaRecord) Value { return intVal(r.Chapters) },
	"volumes":  func(r *model.MediaRecord) Value { return intVal(r.Volumes) },
	"duration": func(r *model.MediaRecord) Value { return intVal(r.Duration) },

	"coverUrl": func(r *model.MediaRecord) Value {
		if r.Cover == nil {
			return Absent()
		}
		return nonEmpty(r.Cover.Large)
	},
	"coverMediumUrl": func(r *model.MediaRecord) Value {
		if r.Cover == nil {
			return Absent()
		}
		return nonEmpty(r.Cover.Medium)
	},
	"coverName": func(r *model.MediaRecord) Value {
		if r.Cover == nil {
			return Absent()
		}
		return nonEmpty(coverName(r.Cover.Large))
	},
}

// Variables returns the sorted-insertion-free list of known variable names.
// Used by configuration checks to report unknown names before a sync runs.
func Variables() []string {
	names := make([]string, 0, len(accessors))
	for name := range accessors {
		names = append(names, name)
	}
	return names
}

func nonEmpty(s string) Value {
	if s == "" {
		return Absent()
	}
	return Scalar(s)
}

func intVal(n *int) Value {
	if n == nil {
		return Absent()
	}
	return Scalar(strconv.Itoa(*n))
}

func floatVal(f *float64) Value {
	if f == nil {
		return Absent()
	}
	return Scalar(strconv.FormatFloat(*f, 'f', -1, 64))
}

// coverName extracts a display name from an artwork URL: the final path
// segment without its extension.
func coverName(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	base := path.Base(rawURL)
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
