package model

// PropertyType declares how a resolved template value is coerced before it
// is written into a document's front matter.
type PropertyType string

const (
	TypeText      PropertyType = "text"
	TypeNumber    PropertyType = "number"
	TypeDate      PropertyType = "date"
	TypeDatetime  PropertyType = "datetime"
	TypeCheckbox  PropertyType = "checkbox"
	TypeMultitext PropertyType = "multitext"
)

// IDs of the two permanent property items. They encode the sync identifier
// and the last-synced timestamp and cannot be removed from a template
// configuration — document matching and skip detection depend on them.
const (
	PropSyncKey    = "syncKey"
	PropLastSynced = "lastSynced"
)

// PropertyItem is one user-configured front matter property.
type PropertyItem struct {
	ID         string       `toml:"id"`
	Template   string       `toml:"template"`    // "{{variable|filter}}" template, ignored for permanent items
	CustomName string       `toml:"custom_name"` // front matter key override; defaults to ID
	Order      int          `toml:"order"`
	Type       PropertyType `toml:"type,omitempty"` // empty means pass-through
}

// Key returns the front matter key this item writes to.
func (p *PropertyItem) Key() string {
	if p.CustomName != "" {
		return p.CustomName
	}
	return p.ID
}

// Permanent reports whether this item is one of the two non-removable ones.
func (p *PropertyItem) Permanent() bool {
	return p.ID == PropSyncKey || p.ID == PropLastSynced
}

// TemplateConfig is the user-owned sync configuration. The core treats it
// as a read-only snapshot per sync call; it is created and edited elsewhere.
type TemplateConfig struct {
	Folder          string         `toml:"folder"`            // target folder inside the document store
	FileNamePattern string         `toml:"file_name_pattern"` // template for new file names; falls back to the record title
	ContentTemplate string         `toml:"content_template"`  // body template, applied at creation time only
	Properties      []PropertyItem `toml:"properties"`
}

// SyncKeyName returns the front matter key carrying the sync identifier.
func (c *TemplateConfig) SyncKeyName() string {
	return c.propertyKey(PropSyncKey)
}

// LastSyncedName returns the front matter key carrying the remote timestamp.
func (c *TemplateConfig) LastSyncedName() string {
	return c.propertyKey(PropLastSynced)
}

func (c *TemplateConfig) propertyKey(id string) string {
	for i := range c.Properties {
		if c.Properties[i].ID == id {
			return c.Properties[i].Key()
		}
	}
	return id
}
