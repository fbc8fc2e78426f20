package gigs

import (
	"time"

	"gigmap-server/models/event"
)

// MapData is everything one load derives from the record list.
type MapData struct {
	Records []event.EventRecord
	Buckets DateBuckets
	Colors  ColorAssignment
	Venues  VenueGroups
	Markers []Marker
	Legend  []LegendEntry
	Dropped int
}

// BuildMapData runs the grouping pipeline: date buckets first, colors from
// the buckets, then a venue-coordinate merge of the dated records for markers.
func BuildMapData(records []event.EventRecord, today time.Time) MapData {
	buckets, dropped := GroupByDate(records)
	colors := AssignColors(buckets, today)
	dated := buckets.Records()
	venues := GroupByVenue(dated)

	return MapData{
		Records: dated,
		Buckets: buckets,
		Colors:  colors,
		Venues:  venues,
		Markers: BuildMarkers(venues, colors, today),
		Legend:  BuildLegend(buckets, colors, today),
		Dropped: dropped,
	}
}
