package homepage

// ServicesConfig represents the top-level structure of services.yaml.
// Homepage uses dynamic keys: a list of {category: [{service: props}]}.
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps contains the actual service properties. Field order is the
// order written to disk.
type ServiceProps struct {
	Href        string         `yaml:"href"`
	Description string         `yaml:"description"`
	Icon        string         `yaml:"icon"`
	Target      string         `yaml:"target,omitempty"`
	Ping        string         `yaml:"ping,omitempty"`
	SiteMonitor string         `yaml:"siteMonitor,omitempty"`
	Widget      map[string]any `yaml:"widget,omitempty"`
}

// BookmarkEntry represents a single bookmark entry in the YAML
type BookmarkEntry struct {
	Icon string `yaml:"icon,omitempty"`
	Abbr string `yaml:"abbr,omitempty"`
	Href string `yaml:"href"`
}

// BookmarkCategory is {category: [{bookmark: [entry]}]}. Each bookmark name
// maps to a list holding a single entry.
type BookmarkCategory map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root structure for bookmarks.yaml
type BookmarksConfig []BookmarkCategory

// Settings is settings.yaml.
type Settings struct {
	Title       string                  `yaml:"title"`
	Background  Background              `yaml:"background"`
	Color       string                  `yaml:"color"`
	CardBlur    string                  `yaml:"cardBlur"`
	HeaderStyle string                  `yaml:"headerStyle"`
	StatusStyle string                  `yaml:"statusStyle"`
	HideVersion bool                    `yaml:"hideVersion"`
	Layout      map[string]LayoutConfig `yaml:"layout"`
}

type Background struct {
	Image   string `yaml:"image"`
	Opacity int    `yaml:"opacity"`
}

type LayoutConfig struct {
	Style   string `yaml:"style"`
	Columns int    `yaml:"columns"`
}

// WidgetsConfig is widgets.yaml: a list of single-key {widget: options}.
type WidgetsConfig []map[string]map[string]any
