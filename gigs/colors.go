package gigs

import (
	"fmt"
	"math"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fixed saturation and lightness of the hue ramp.
const (
	RAMP_SATURATION = 0.85
	RAMP_LIGHTNESS  = 0.50
)

// Band is a day-distance range sharing a color family and label.
type Band int

const (
	BandImminent Band = iota // day distance <= 1
	BandSoon                 // 2..3
	BandThisWeek             // 4..7
	BandNextWeek             // 8..14
	BandLater                // >= 15
)

func (b Band) String() string {
	switch b {
	case BandImminent:
		return "imminent"
	case BandSoon:
		return "soon"
	case BandThisWeek:
		return "this_week"
	case BandNextWeek:
		return "next_week"
	default:
		return "later"
	}
}

type hueRamp struct {
	fromDays, toDays int
	fromHue, toHue   float64
}

// ramps is indexed by Band. The imminent ramp starts at day 0 and the later
// ramp saturates at day 60; distances outside are clamped.
var ramps = [...]hueRamp{
	BandImminent: {0, 1, 0, 20},
	BandSoon:     {2, 3, 30, 50},
	BandThisWeek: {4, 7, 55, 110},
	BandNextWeek: {8, 14, 120, 180},
	BandLater:    {15, 60, 200, 280},
}

// Color is a bucket color in the forms the map surface needs.
type Color struct {
	Hue  float64 `json:"hue"`
	Hex  string  `json:"hex"`
	CSS  string  `json:"css"`
	Band string  `json:"band"`
}

// ColorAssignment maps bucket keys to colors.
type ColorAssignment map[string]Color

// DayDistance is the number of calendar days from today to date, negative
// for past dates. Only the calendar day of each argument is considered.
func DayDistance(date, today time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(d.Sub(t).Hours() / 24))
}

// BandFor places a day distance in its band. Bands cover every integer.
func BandFor(days int) Band {
	switch {
	case days <= 1:
		return BandImminent
	case days <= 3:
		return BandSoon
	case days <= 7:
		return BandThisWeek
	case days <= 14:
		return BandNextWeek
	default:
		return BandLater
	}
}

// HueForDistance interpolates the hue linearly within the day's band.
func HueForDistance(days int) float64 {
	r := ramps[BandFor(days)]
	if r.toDays == r.fromDays {
		return r.fromHue
	}
	t := float64(days-r.fromDays) / float64(r.toDays-r.fromDays)
	t = math.Max(0, math.Min(1, t))
	return r.fromHue + t*(r.toHue-r.fromHue)
}

// ColorForDistance is the pure color function of a day distance.
func ColorForDistance(days int) Color {
	return colorForHue(HueForDistance(days), BandFor(days))
}

// ColorForDate colors a calendar date relative to today.
func ColorForDate(date, today time.Time) Color {
	return ColorForDistance(DayDistance(date, today))
}

// AssignColors colors every date bucket by its distance from today.
func AssignColors(buckets DateBuckets, today time.Time) ColorAssignment {
	colors := make(ColorAssignment, buckets.Len())
	for _, key := range buckets.keys {
		day, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		colors[key] = ColorForDate(day, today)
	}
	return colors
}

// PaletteColors spaces hues evenly around the wheel, one per key in order.
func PaletteColors(keys []string) ColorAssignment {
	colors := make(ColorAssignment, len(keys))
	if len(keys) == 0 {
		return colors
	}
	step := 360.0 / float64(len(keys))
	for i, key := range keys {
		c := colorForHue(float64(i)*step, BandLater)
		c.Band = "palette"
		colors[key] = c
	}
	return colors
}

func colorForHue(hue float64, band Band) Color {
	return Color{
		Hue:  hue,
		Hex:  colorful.Hsl(hue, RAMP_SATURATION, RAMP_LIGHTNESS).Hex(),
		CSS:  fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hue, RAMP_SATURATION*100, RAMP_LIGHTNESS*100),
		Band: band.String(),
	}
}
