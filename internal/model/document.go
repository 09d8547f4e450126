package model

// Property is one front matter key/value pair.
type Property struct {
	Key   string
	Value any
}

// Properties is an ordered front matter property set. Order is significant:
// documents are written with keys in the order the template configuration
// declares them, and merges must not reshuffle a user's existing keys.
type Properties []Property

// Get returns the value for key and whether it was present.
func (ps Properties) Get(key string) (any, bool) {
	for i := range ps {
		if ps[i].Key == key {
			return ps[i].Value, true
		}
	}
	return nil, false
}

// GetString returns the value for key as a string, or "" if the key is
// absent or not a string.
func (ps Properties) GetString(key string) string {
	v, ok := ps.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set replaces the value for key in place, or appends the pair if absent.
func (ps Properties) Set(key string, value any) Properties {
	for i := range ps {
		if ps[i].Key == key {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Property{Key: key, Value: value})
}

// Merge applies every pair from other onto ps, preserving the position of
// existing keys and appending new ones. Keys absent from other are untouched.
func (ps Properties) Merge(other Properties) Properties {
	out := ps
	for _, p := range other {
		out = out.Set(p.Key, p.Value)
	}
	return out
}

// Document is an addressable unit in the store: a front matter property set
// plus free-form body text.
type Document struct {
	Path        string
	Frontmatter Properties
	Body        string
}

// DocumentInfo is the lightweight result of a folder-scoped index query:
// enough to match documents without reading their bodies.
type DocumentInfo struct {
	Path  string
	Title string         // file name without extension
	Props map[string]any // front matter properties
}
