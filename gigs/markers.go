package gigs

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"sort"
	"time"

	"gigmap-server/models/event"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var popupTemplate = template.Must(template.New("popup").Parse(
	`<div class="popup"><strong>{{.Title}}</strong>` +
		`{{if gt .Count 1}} <span class="popup-count">{{.Count}} events</span>{{end}}<br><hr>` +
		`{{range .Events}}<div class="popup-event" style="border-left-color: {{.Color}}">` +
		`{{if .ShowImage}}<img class="artist-image" src="{{.ImageURL}}" alt="{{.Artist}}">{{end}}` +
		`{{if .LinkURL}}<a href="{{.LinkURL}}" target="_blank" rel="noopener">{{.Artist}}</a>{{else}}{{.Artist}}{{end}}<br>` +
		`<span class="popup-day">{{.DayLabel}}</span>` +
		`{{if ne .DayLabel .DayText}} <span class="popup-date">{{.DayText}}</span>{{end}}` +
		` &middot; <span class="popup-time">{{.Time}}</span>` +
		`</div>{{end}}</div>`))

// PopupEvent is one row of a popup with placeholders already applied.
type PopupEvent struct {
	Artist    string `json:"artist"`
	Venue     string `json:"venue"`
	Date      string `json:"date"`
	DayLabel  string `json:"day_label"`
	DayText   string `json:"day_text"`
	Time      string `json:"time"`
	ImageURL  string `json:"image_url,omitempty"`
	ShowImage bool   `json:"show_image"`
	LinkURL   string `json:"link_url,omitempty"`
	Color     string `json:"color"`
}

// Popup is the payload shown when a marker is opened.
type Popup struct {
	Title  string       `json:"title"`
	Count  int          `json:"count"`
	Events []PopupEvent `json:"events"`
	HTML   string       `json:"html"`
}

// Marker is one map marker per venue location.
type Marker struct {
	Key         string              `json:"key"`
	Venue       string              `json:"venue"`
	Coordinates event.Coordinates   `json:"coordinates"`
	Color       Color               `json:"color"`
	Count       int                 `json:"count"`
	Events      []event.EventRecord `json:"events"`
	Tooltip     string              `json:"tooltip"`
	Popup       Popup               `json:"popup"`
	Selected    bool                `json:"selected"`
}

// BuildMarkers emits one marker per venue group. A marker takes the color of
// its earliest event's date bucket. A popup that fails to render leaves that
// marker without HTML instead of failing the batch.
func BuildMarkers(groups VenueGroups, colors ColorAssignment, today time.Time) []Marker {
	markers := make([]Marker, 0, groups.Len())
	for _, key := range groups.keys {
		events := groups.groups[key]
		if len(events) == 0 {
			continue
		}
		first := events[0]
		m := Marker{
			Key:         key,
			Venue:       first.Venue,
			Coordinates: first.Coordinates,
			Color:       colorFor(first.Date, colors, today),
			Count:       len(events),
			Events:      events,
			Tooltip:     tooltipFor(events),
		}
		popup, err := BuildPopup(events, colors, today)
		if err != nil {
			log.Printf("[MarkerBuilder] popup for %s failed to render: %v", key, err)
		}
		m.Popup = popup
		markers = append(markers, m)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		if markers[i].Events[0].Date != markers[j].Events[0].Date {
			return markers[i].Events[0].Date < markers[j].Events[0].Date
		}
		return markers[i].Key < markers[j].Key
	})
	return markers
}

// BuildPopup assembles the popup of one location. events must already be
// sorted ascending.
func BuildPopup(events []event.EventRecord, colors ColorAssignment, today time.Time) (Popup, error) {
	p := Popup{Count: len(events), Events: make([]PopupEvent, 0, len(events))}
	if len(events) > 0 {
		p.Title = events[0].Venue
	}
	for _, e := range events {
		p.Events = append(p.Events, popupEvent(e, colors, today))
	}

	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, p); err != nil {
		return p, fmt.Errorf("failed to render popup: %w", err)
	}
	p.HTML = buf.String()
	return p, nil
}

// WithSelection returns a copy of markers with only key flagged selected.
func WithSelection(markers []Marker, key string) []Marker {
	out := make([]Marker, len(markers))
	copy(out, markers)
	for i := range out {
		out[i].Selected = out[i].Key == key
	}
	return out
}

// FindMarker looks a marker up by key.
func FindMarker(markers []Marker, key string) (Marker, bool) {
	for _, m := range markers {
		if m.Key == key {
			return m, true
		}
	}
	return Marker{}, false
}

// MarkersToFeatureCollection exports markers as GeoJSON points.
func MarkersToFeatureCollection(markers []Marker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		f := geojson.NewFeature(orb.Point{m.Coordinates.Lng, m.Coordinates.Lat})
		f.ID = m.Key
		f.Properties["key"] = m.Key
		f.Properties["venue"] = m.Venue
		f.Properties["color"] = m.Color.Hex
		f.Properties["color_css"] = m.Color.CSS
		f.Properties["band"] = m.Color.Band
		f.Properties["count"] = m.Count
		f.Properties["tooltip"] = m.Tooltip
		f.Properties["popup_html"] = m.Popup.HTML
		f.Properties["events"] = m.Popup.Events
		f.Properties["selected"] = m.Selected
		fc.Append(f)
	}
	return fc
}

func popupEvent(e event.EventRecord, colors ColorAssignment, today time.Time) PopupEvent {
	pe := PopupEvent{
		Artist:    e.Artist,
		Venue:     e.Venue,
		Date:      e.Date,
		DayLabel:  e.Date,
		DayText:   e.Date,
		Time:      e.Time,
		ImageURL:  e.ArtistImage,
		ShowImage: e.HasImage(),
		LinkURL:   e.ArtistLink,
		Color:     colorFor(e.Date, colors, today).Hex,
	}
	if d, err := e.Day(); err == nil {
		pe.DayLabel = RelativeLabel(d, today)
		pe.DayText = FormatDay(d)
	}
	if pe.Artist == "" {
		pe.Artist = PLACEHOLDER_ARTIST
	}
	if !e.HasTime() {
		pe.Time = PLACEHOLDER_TIME
	}
	return pe
}

func colorFor(date string, colors ColorAssignment, today time.Time) Color {
	if c, ok := colors[date]; ok {
		return c
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return ColorForDistance(0)
	}
	return ColorForDate(day, today)
}

func tooltipFor(events []event.EventRecord) string {
	if len(events) == 1 {
		artist := events[0].Artist
		if artist == "" {
			artist = PLACEHOLDER_ARTIST
		}
		return fmt.Sprintf("%s @ %s", artist, events[0].Venue)
	}
	return fmt.Sprintf("%s (%d events)", events[0].Venue, len(events))
}
