package template

import (
	"sort"

	"mls-go/internal/model"
)

// BuildFrontmatter assembles the full front matter property set for one
// record: the permanent sync-key and last-synced items take the identifier
// and the record's remote timestamp, every other item resolves its template
// and is coerced to its declared type. Items resolving to no value are
// omitted entirely — a document is never forced to carry empty properties.
//
// Output preserves the configured property order.
func BuildFrontmatter(rec *model.MediaRecord, cfg *model.TemplateConfig, syncID string) model.Properties {
	items := make([]model.PropertyItem, len(cfg.Properties))
	copy(items, cfg.Properties)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	props := make(model.Properties, 0, len(items))
	for i := range items {
		item := &items[i]

		switch item.ID {
		case model.PropSyncKey:
			props = append(props, model.Property{Key: item.Key(), Value: syncID})
			continue
		case model.PropLastSynced:
			if rec.UpdatedAt != "" {
				props = append(props, model.Property{Key: item.Key(), Value: rec.UpdatedAt})
			}
			continue
		}

		v := Resolve(item.Template, rec)
		if v.IsAbsent() {
			continue
		}
		formatted := Format(v, item.Type)
		if omit(formatted) {
			continue
		}
		props = append(props, model.Property{Key: item.Key(), Value: formatted})
	}
	return props
}

// omit reports whether a formatted value should be dropped from the output.
func omit(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
