package util

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"gigmap-server/models/event"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON property names of the source collection.
const (
	PROP_ARTIST       = "Artist"
	PROP_VENUE        = "Venue"
	PROP_LOCATION     = "Location"
	PROP_DATE         = "Date"
	PROP_TIME         = "Time"
	PROP_DATETIME     = "Datetime"
	PROP_ARTIST_IMAGE = "ArtistImage"
	PROP_ARTIST_LINK  = "ArtistLink"
)

const imperialTimeLayout = "03:04 PM"

var nanLiteral = regexp.MustCompile(`:\s*NaN\b`)

// timeLayouts are tried in order when reading a performance time.
var timeLayouts = []string{imperialTimeLayout, "3:04 PM", "3:04PM", "03:04PM", "15:04", "15:04:05"}

// ReadEventsFromGeoJSON loads event records from a GeoJSON file on disk.
func ReadEventsFromGeoJSON(filePath string) ([]event.EventRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return ParseEventsGeoJSON(data)
}

// ParseEventsGeoJSON decodes a FeatureCollection of gig points. Features that
// are not points are skipped; absent or placeholder properties become empty.
func ParseEventsGeoJSON(data []byte) ([]event.EventRecord, error) {
	fc, err := geojson.UnmarshalFeatureCollection(RepairNaN(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event collection: %w", err)
	}

	records := make([]event.EventRecord, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			skipped++
			continue
		}
		records = append(records, recordFromFeature(f.Properties, point))
	}
	if skipped > 0 {
		log.Printf("[GeoJSONReader] skipped %d non-point features", skipped)
	}
	return records, nil
}

// RepairNaN rewrites bare NaN values, which some exporters emit, to null.
func RepairNaN(data []byte) []byte {
	return nanLiteral.ReplaceAll(data, []byte(": null"))
}

func recordFromFeature(props geojson.Properties, point orb.Point) event.EventRecord {
	venue := cleanString(props.MustString(PROP_VENUE, ""))
	if venue == "" {
		venue = cleanString(props.MustString(PROP_LOCATION, ""))
	}

	date := NormalizeDate(cleanString(props.MustString(PROP_DATE, "")))
	eventTime := NormalizeTime(cleanString(props.MustString(PROP_TIME, "")))

	// Scraped rows sometimes only carry the raw ISO datetime.
	if datetime := cleanString(props.MustString(PROP_DATETIME, "")); datetime != "" {
		if date == "" {
			date = NormalizeDate(datetime)
		}
		if eventTime == "" {
			eventTime = timeFromDatetime(datetime)
		}
	}

	return event.EventRecord{
		Artist:      cleanString(props.MustString(PROP_ARTIST, "")),
		Venue:       venue,
		Date:        date,
		Time:        eventTime,
		Coordinates: event.Coordinates{Lat: point.Lat(), Lng: point.Lon()},
		ArtistImage: cleanString(props.MustString(PROP_ARTIST_IMAGE, "")),
		ArtistLink:  cleanString(props.MustString(PROP_ARTIST_LINK, "")),
	}
}

// NormalizeDate returns the ISO calendar day of s, or "" when s holds none.
func NormalizeDate(s string) string {
	if len(s) >= len(event.DateLayout) {
		day := s[:len(event.DateLayout)]
		if _, err := time.Parse(event.DateLayout, day); err == nil {
			return day
		}
	}
	return ""
}

// NormalizeTime converts a performance time to 12-hour "03:04 PM" form.
// Unparseable non-empty values are returned unchanged.
func NormalizeTime(s string) string {
	if s == "" {
		return ""
	}
	if t, ok := ParseTimeOfDay(s); ok {
		return t.Format(imperialTimeLayout)
	}
	return s
}

// ParseTimeOfDay parses a performance time in any of the accepted layouts.
func ParseTimeOfDay(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimeSortKey orders performance times: minutes after midnight, unknown last.
func TimeSortKey(s string) int {
	t, ok := ParseTimeOfDay(s)
	if !ok {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}

func timeFromDatetime(datetime string) string {
	i := strings.IndexByte(datetime, 'T')
	if i < 0 || len(datetime) < i+6 {
		return ""
	}
	return NormalizeTime(datetime[i+1 : i+6])
}

func cleanString(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "n/a", "none", "null":
		return ""
	}
	return s
}
