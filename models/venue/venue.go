package venue

import "gigmap-server/models/event"

// VenueGroup is every dated event at one coordinate key, as stored in the
// geo index.
type VenueGroup struct {
	Key       string              `json:"key"`
	VenueName string              `json:"venue_name"`
	VenueLat  float64             `json:"venue_lat"`
	VenueLon  float64             `json:"venue_lng"`
	Color     string              `json:"color"`
	Events    []event.EventRecord `json:"events"`
}

// EventCount is the number of events at the venue.
func (v *VenueGroup) EventCount() int {
	return len(v.Events)
}
