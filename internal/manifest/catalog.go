package manifest

import (
	"maps"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata is the dashboard view of one service or sub-service.
type Metadata struct {
	Description string
	Icon        string
	Category    string
	Exclude     bool
	Widget      map[string]any
}

// Catalog is a flattened, read-only lookup from container name to Metadata.
// It is built once per invocation and never refreshed.
type Catalog struct {
	entries map[string]Metadata
}

// NewCatalog flattens manifests. A manifest with sub-services contributes one
// entry per sub-service instead of an entry of its own; sub-services inherit
// description, icon and category from their parent.
func NewCatalog(manifests map[string]*ServiceManifest) *Catalog {
	c := &Catalog{entries: make(map[string]Metadata, len(manifests))}

	// Sorted so that a sub-service name colliding with another manifest
	// resolves the same way every run.
	for _, name := range Names(manifests) {
		m := manifests[name]
		if len(m.SubServices) == 0 {
			c.entries[m.Name] = Metadata{
				Description: m.Description,
				Icon:        m.Icon,
				Category:    m.Category,
				Exclude:     m.DashboardExclude,
				Widget:      m.Widget,
			}
			continue
		}

		for subName, sub := range m.SubServices {
			md := Metadata{
				Description: m.Description,
				Icon:        m.Icon,
				Category:    m.Category,
				Exclude:     sub.Exclude,
				Widget:      sub.Widget,
			}
			if sub.Description != nil {
				md.Description = *sub.Description
			}
			if sub.Icon != nil {
				md.Icon = *sub.Icon
			}
			c.entries[subName] = md
		}
	}
	return c
}

// Lookup returns the metadata for name and whether it is known.
func (c *Catalog) Lookup(name string) (Metadata, bool) {
	md, ok := c.entries[name]
	return md, ok
}

func (c *Catalog) Description(name string) string {
	return c.entries[name].Description
}

// Icon falls back to DefaultIcon for unknown names.
func (c *Catalog) Icon(name string) string {
	if md, ok := c.entries[name]; ok && md.Icon != "" {
		return md.Icon
	}
	return DefaultIcon
}

// Category returns the title-cased display category, "Other" when unknown.
func (c *Catalog) Category(name string) string {
	category := DefaultCategory
	if md, ok := c.entries[name]; ok && md.Category != "" {
		category = md.Category
	}
	return TitleCase(category)
}

// Widget returns a copy of the widget template, nil when none is declared.
func (c *Catalog) Widget(name string) map[string]any {
	w := c.entries[name].Widget
	if len(w) == 0 {
		return nil
	}
	return maps.Clone(w)
}

// Len is the number of flattened entries.
func (c *Catalog) Len() int { return len(c.entries) }

// TitleCase upper-cases the first letter of every word ("home automation"
// becomes "Home Automation").
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}
