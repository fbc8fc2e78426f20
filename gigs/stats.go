package gigs

import (
	"sort"

	"gigmap-server/models/event"
)

// VenueStat counts events at one venue name.
type VenueStat struct {
	Venue  string `json:"venue"`
	Events int    `json:"events"`
}

// VenueStats counts events per venue, busiest first, ties by name.
// Records without a venue name are counted under "".
func VenueStats(records []event.EventRecord) []VenueStat {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Venue]++
	}
	stats := make([]VenueStat, 0, len(counts))
	for venue, n := range counts {
		stats = append(stats, VenueStat{Venue: venue, Events: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Events != stats[j].Events {
			return stats[i].Events > stats[j].Events
		}
		return stats[i].Venue < stats[j].Venue
	})
	return stats
}
