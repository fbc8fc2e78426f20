package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {
				"Artist": "Tyler Childers",
				"Venue": "Rupp Arena",
				"Date": "2024-07-10",
				"Time": "07:30 PM",
				"ArtistImage": "artist_images/Tyler_Childers.jpg",
				"ArtistLink": "https://www.songkick.com/artists/1"
			},
			"geometry": {"type": "Point", "coordinates": [-84.4977, 38.0494]}
		},
		{
			"type": "Feature",
			"properties": {
				"Artist": "Local Band",
				"Location": "Al's Bar of Lexington",
				"Datetime": "2024-07-11T21:00:00-0500",
				"Time": NaN,
				"ArtistImage": NaN,
				"ArtistLink": null
			},
			"geometry": {"type": "Point", "coordinates": [-84.4863297, 38.0540236]}
		},
		{
			"type": "Feature",
			"properties": {"Artist": "Nowhere"},
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}
		}
	]
}`

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadEventsFromGeoJSON(t *testing.T) {
	// Arrange
	path := createTempFile(t, sampleCollection)

	// Act
	records, err := ReadEventsFromGeoJSON(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 2, "line features must be skipped")

	first := records[0]
	assert.Equal(t, "Tyler Childers", first.Artist)
	assert.Equal(t, "Rupp Arena", first.Venue)
	assert.Equal(t, "2024-07-10", first.Date)
	assert.Equal(t, "07:30 PM", first.Time)
	assert.InDelta(t, 38.0494, first.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -84.4977, first.Coordinates.Lng, 1e-9)
	assert.True(t, first.HasImage())
}

func TestParseEventsGeoJSON_FallsBackToDatetimeAndLocation(t *testing.T) {
	records, err := ParseEventsGeoJSON([]byte(sampleCollection))
	require.NoError(t, err)

	second := records[1]
	assert.Equal(t, "Al's Bar of Lexington", second.Venue)
	assert.Equal(t, "2024-07-11", second.Date)
	assert.Equal(t, "09:00 PM", second.Time)
	assert.False(t, second.HasImage())
	assert.Equal(t, "", second.ArtistLink)
}

func TestParseEventsGeoJSON_Malformed(t *testing.T) {
	_, err := ParseEventsGeoJSON([]byte(`{"type": "FeatureCollection", "features": [`))
	assert.Error(t, err)
}

func TestReadEventsFromGeoJSON_MissingFile(t *testing.T) {
	_, err := ReadEventsFromGeoJSON(filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Error(t, err)
}

func TestRepairNaN(t *testing.T) {
	got := RepairNaN([]byte(`{"a": NaN, "b":NaN, "c": "NaN"}`))
	assert.Equal(t, `{"a": null, "b": null, "c": "NaN"}`, string(got))
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19:00", "07:00 PM"},
		{"7:00 PM", "07:00 PM"},
		{"07:00 pm", "07:00 PM"},
		{"", ""},
		{"doors at dusk", "doors at dusk"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.in))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-07-10", NormalizeDate("2024-07-10"))
	assert.Equal(t, "2024-07-10", NormalizeDate("2024-07-10T19:00:00-0500"))
	assert.Equal(t, "", NormalizeDate("July 10"))
	assert.Equal(t, "", NormalizeDate(""))
}

func TestTimeSortKey(t *testing.T) {
	assert.Equal(t, 19*60+30, TimeSortKey("07:30 PM"))
	assert.Equal(t, 9*60, TimeSortKey("09:00 AM"))
	assert.Equal(t, 24*60, TimeSortKey(""))
	assert.Less(t, TimeSortKey("08:00 PM"), TimeSortKey("TBA"))
}
