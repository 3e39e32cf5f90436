package generate

import (
	"github.com/MrSnakeDoc/nexus/internal/homepage"
)

// WeatherOptions locate the openmeteo widget.
type WeatherOptions struct {
	Latitude  float64
	Longitude float64
	Timezone  string
	Units     string // "metric" | "imperial"
}

// DefaultWeather is Vancouver, metric.
var DefaultWeather = WeatherOptions{
	Latitude:  49.2827,
	Longitude: -123.1207,
	Timezone:  "America/Vancouver",
	Units:     "metric",
}

// Settings returns settings.yaml. No theme is set so Homepage follows the
// OS light/dark preference.
func Settings() homepage.Settings {
	row := homepage.LayoutConfig{Style: "row", Columns: 2}
	return homepage.Settings{
		Title: "Nexus",
		Background: homepage.Background{
			Image:   "/images/background.png",
			Opacity: 30,
		},
		Color:       "slate",
		CardBlur:    "md",
		HeaderStyle: "clean",
		StatusStyle: "dot",
		HideVersion: true,
		Layout: map[string]homepage.LayoutConfig{
			"Media":     row,
			"Finance":   row,
			"Gaming":    row,
			"Core":      row,
			"Utilities": row,
		},
	}
}

// Bookmarks returns bookmarks.yaml.
func Bookmarks() homepage.BookmarksConfig {
	bookmark := func(name, icon, href string) map[string][]homepage.BookmarkEntry {
		return map[string][]homepage.BookmarkEntry{name: {{Icon: icon, Href: href}}}
	}
	return homepage.BookmarksConfig{
		{
			"Productivity": {
				bookmark("Github", "si-github", "https://github.com/"),
				bookmark("Gmail", "si-gmail", "https://mail.google.com/"),
				bookmark("ProtonMail", "si-protonmail", "https://mail.proton.me/"),
				bookmark("Cloudflare", "si-cloudflare", "https://dash.cloudflare.com/"),
				bookmark("Tailscale", "si-tailscale", "https://login.tailscale.com/admin/machines"),
				bookmark("SimpleFIN", "mdi-bank", "https://beta-bridge.simplefin.org/"),
			},
		},
	}
}

// Widgets returns widgets.yaml for the header bar.
func Widgets(w WeatherOptions) homepage.WidgetsConfig {
	return homepage.WidgetsConfig{
		{"greeting": {
			"text_size": "xl",
			"text":      "Nexus",
		}},
		{"resources": {
			"cpu":    true,
			"memory": true,
			"disk":   "/",
		}},
		{"search": {
			"provider": "google",
			"target":   "_blank",
		}},
		{"datetime": {
			"text_size": "lg",
			"format": map[string]any{
				"dateStyle": "long",
				"timeStyle": "short",
				"hour12":    true,
			},
		}},
		{"openmeteo": {
			"label":     "Weather",
			"latitude":  w.Latitude,
			"longitude": w.Longitude,
			"timezone":  w.Timezone,
			"units":     w.Units,
			"cache":     5,
		}},
	}
}
