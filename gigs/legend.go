package gigs

import (
	"time"

	"gigmap-server/models/event"
)

// LegendEvent is one event listed under a legend day.
type LegendEvent struct {
	Artist      string            `json:"artist"`
	Venue       string            `json:"venue"`
	Time        string            `json:"time"`
	Coordinates event.Coordinates `json:"coordinates"`
	MarkerKey   string            `json:"marker_key"`
}

// LegendEntry is one calendar day of the legend.
type LegendEntry struct {
	Date    string        `json:"date"`
	Day     int           `json:"day"`
	Weekday string        `json:"weekday"`
	Month   string        `json:"month"`
	Label   string        `json:"label"`
	Color   Color         `json:"color"`
	Count   int           `json:"count"`
	Events  []LegendEvent `json:"events"`
}

// Target is where selecting the entry flies to: the day's first event.
func (e LegendEntry) Target() (event.Coordinates, bool) {
	if len(e.Events) == 0 {
		return event.Coordinates{}, false
	}
	return e.Events[0].Coordinates, true
}

// BuildLegend emits one entry per date bucket, ascending.
func BuildLegend(buckets DateBuckets, colors ColorAssignment, today time.Time) []LegendEntry {
	entries := make([]LegendEntry, 0, buckets.Len())
	for _, key := range buckets.keys {
		day, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		records := buckets.buckets[key]
		entry := LegendEntry{
			Date:    key,
			Day:     day.Day(),
			Weekday: day.Format("Mon"),
			Month:   day.Format("January 2006"),
			Label:   RelativeLabel(day, today),
			Color:   colorFor(key, colors, today),
			Count:   len(records),
			Events:  make([]LegendEvent, 0, len(records)),
		}
		for _, r := range records {
			t := r.Time
			if t == "" {
				t = PLACEHOLDER_TIME
			}
			entry.Events = append(entry.Events, LegendEvent{
				Artist:      r.Artist,
				Venue:       r.Venue,
				Time:        t,
				Coordinates: r.Coordinates,
				MarkerKey:   CoordinateKey(r.Coordinates),
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// FindLegendEntry looks an entry up by date.
func FindLegendEntry(entries []LegendEntry, date string) (LegendEntry, bool) {
	for _, e := range entries {
		if e.Date == date {
			return e, true
		}
	}
	return LegendEntry{}, false
}
