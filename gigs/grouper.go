package gigs

import (
	"encoding/json"
	"fmt"
	"sort"

	"gigmap-server/models/event"
	"gigmap-server/util"
)

// COORDINATE_KEY_FORMAT rounds to five decimals (about a metre) so points
// geocoded for the same venue merge.
const COORDINATE_KEY_FORMAT = "%.5f,%.5f"

// DateBuckets maps ISO dates to the events on that day, keys ascending.
type DateBuckets struct {
	keys    []string
	buckets map[string][]event.EventRecord
}

// DateBucket is one day of the ordered mapping.
type DateBucket struct {
	Date   string              `json:"date"`
	Events []event.EventRecord `json:"events"`
}

// GroupByDate buckets records by their exact Date string. Records without a
// date are dropped; the number dropped is returned so callers can report it.
func GroupByDate(records []event.EventRecord) (DateBuckets, int) {
	buckets := make(map[string][]event.EventRecord)
	dropped := 0
	for _, r := range records {
		if r.Date == "" {
			dropped++
			continue
		}
		buckets[r.Date] = append(buckets[r.Date], r)
	}

	keys := make([]string, 0, len(buckets))
	for k, events := range buckets {
		keys = append(keys, k)
		SortEvents(events)
	}
	sort.Strings(keys)

	return DateBuckets{keys: keys, buckets: buckets}, dropped
}

// Keys returns the bucket dates in ascending order.
func (b DateBuckets) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Get returns the events on date.
func (b DateBuckets) Get(date string) []event.EventRecord {
	return b.buckets[date]
}

func (b DateBuckets) Len() int {
	return len(b.keys)
}

// Records flattens the buckets in date order.
func (b DateBuckets) Records() []event.EventRecord {
	var out []event.EventRecord
	for _, k := range b.keys {
		out = append(out, b.buckets[k]...)
	}
	return out
}

// Buckets returns the ordered list form.
func (b DateBuckets) Buckets() []DateBucket {
	out := make([]DateBucket, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, DateBucket{Date: k, Events: b.buckets[k]})
	}
	return out
}

func (b DateBuckets) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Buckets())
}

// VenueGroups maps coordinate keys to the events sharing that location.
type VenueGroups struct {
	keys   []string
	groups map[string][]event.EventRecord
}

// GroupByVenue merges records that share a coordinate key. Each group is
// sorted by date, then time, then artist.
func GroupByVenue(records []event.EventRecord) VenueGroups {
	groups := make(map[string][]event.EventRecord)
	for _, r := range records {
		key := CoordinateKey(r.Coordinates)
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for k, events := range groups {
		keys = append(keys, k)
		SortEvents(events)
	}
	sort.Strings(keys)

	return VenueGroups{keys: keys, groups: groups}
}

// Keys returns the coordinate keys in ascending order.
func (g VenueGroups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the events at key.
func (g VenueGroups) Get(key string) []event.EventRecord {
	return g.groups[key]
}

func (g VenueGroups) Len() int {
	return len(g.keys)
}

// CoordinateKey derives the venue grouping key of a position.
func CoordinateKey(c event.Coordinates) string {
	return fmt.Sprintf(COORDINATE_KEY_FORMAT, c.Lat, c.Lng)
}

// SortEvents orders events by date, then performance time, then artist.
func SortEvents(events []event.EventRecord) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		ta, tb := util.TimeSortKey(a.Time), util.TimeSortKey(b.Time)
		if ta != tb {
			return ta < tb
		}
		return a.Artist < b.Artist
	})
}
