package gigs

import (
	"sort"

	"gigmap-server/models/event"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const METERS_PER_MILE = 1609.344

// VenueDistance is one venue's distance from the map origin.
type VenueDistance struct {
	Key           string            `json:"key"`
	Venue         string            `json:"venue"`
	Coordinates   event.Coordinates `json:"coordinates"`
	DistanceMiles float64           `json:"distance_miles"`
	Events        int               `json:"events"`
}

// BoundsReport tells whether the default view shows every venue and, if not,
// where to center instead.
type BoundsReport struct {
	Origin           event.Coordinates  `json:"origin"`
	OriginZoom       int                `json:"origin_zoom"`
	Venues           []VenueDistance    `json:"venues"`
	MaxDistanceMiles float64            `json:"max_distance_miles"`
	WithinRange      bool               `json:"within_range"`
	SuggestedCenter  *event.Coordinates `json:"suggested_center,omitempty"`
	SuggestedZoom    int                `json:"suggested_zoom"`
}

// AnalyzeBounds measures every venue group against origin. Venues farther
// than maxMiles trigger a suggested center at the midpoint of all venues and
// a zoom derived from their span.
func AnalyzeBounds(groups VenueGroups, origin event.Coordinates, originZoom int, maxMiles float64) BoundsReport {
	report := BoundsReport{
		Origin:        origin,
		OriginZoom:    originZoom,
		Venues:        make([]VenueDistance, 0, groups.Len()),
		WithinRange:   true,
		SuggestedZoom: originZoom,
	}

	originPoint := orb.Point{origin.Lng, origin.Lat}
	points := make(orb.MultiPoint, 0, groups.Len())
	for _, key := range groups.keys {
		events := groups.groups[key]
		if len(events) == 0 {
			continue
		}
		c := events[0].Coordinates
		p := orb.Point{c.Lng, c.Lat}
		points = append(points, p)

		miles := geo.Distance(originPoint, p) / METERS_PER_MILE
		if miles > report.MaxDistanceMiles {
			report.MaxDistanceMiles = miles
		}
		report.Venues = append(report.Venues, VenueDistance{
			Key:           key,
			Venue:         events[0].Venue,
			Coordinates:   c,
			DistanceMiles: miles,
			Events:        len(events),
		})
	}
	sort.SliceStable(report.Venues, func(i, j int) bool {
		return report.Venues[i].DistanceMiles > report.Venues[j].DistanceMiles
	})

	if len(points) == 0 || report.MaxDistanceMiles <= maxMiles {
		return report
	}

	bound := points.Bound()
	center := bound.Center()
	report.WithinRange = false
	report.SuggestedCenter = &event.Coordinates{Lat: center.Lat(), Lng: center.Lon()}
	report.SuggestedZoom = SuggestZoom(bound)
	return report
}

// SuggestZoom picks a zoom level from the larger degree span of bound.
func SuggestZoom(bound orb.Bound) int {
	span := bound.Max.Lat() - bound.Min.Lat()
	if lon := bound.Max.Lon() - bound.Min.Lon(); lon > span {
		span = lon
	}
	switch {
	case span > 0.5:
		return 9
	case span > 0.2:
		return 10
	case span > 0.1:
		return 11
	case span > 0.05:
		return 12
	default:
		return 13
	}
}
