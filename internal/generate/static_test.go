package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetsOrder(t *testing.T) {
	got := Widgets(DefaultWeather)

	var names []string
	for _, w := range got {
		require.Len(t, w, 1)
		for name := range w {
			names = append(names, name)
		}
	}
	assert.Equal(t, []string{"greeting", "resources", "search", "datetime", "openmeteo"}, names)

	meteo := got[4]["openmeteo"]
	assert.Equal(t, 49.2827, meteo["latitude"])
	assert.Equal(t, "metric", meteo["units"])
}

func TestWidgetsWeatherOverride(t *testing.T) {
	opts := WeatherOptions{Latitude: 48.85, Longitude: 2.35, Timezone: "Europe/Paris", Units: "imperial"}
	meteo := Widgets(opts)[4]["openmeteo"]

	assert.Equal(t, 48.85, meteo["latitude"])
	assert.Equal(t, 2.35, meteo["longitude"])
	assert.Equal(t, "Europe/Paris", meteo["timezone"])
	assert.Equal(t, "imperial", meteo["units"])
}

func TestBookmarks(t *testing.T) {
	got := Bookmarks()
	require.Len(t, got, 1)

	productivity := got[0]["Productivity"]
	require.Len(t, productivity, 6)
	for _, b := range productivity {
		require.Len(t, b, 1)
		for name, entries := range b {
			require.Len(t, entries, 1, name)
			assert.NotEmpty(t, entries[0].Href, name)
		}
	}
}

func TestSettingsRender(t *testing.T) {
	out, err := Render(Settings())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "title: Nexus")
	assert.Contains(t, s, "hideVersion: true")
	assert.NotContains(t, s, "theme")
}
