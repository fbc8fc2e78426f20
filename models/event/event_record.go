package event

import "time"

// DateLayout is the ISO calendar-day layout used for dates and bucket keys.
const DateLayout = "2006-01-02"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EventRecord is one gig read from the source collection. Date and Time are
// kept as the normalized strings found in the data; empty means absent.
type EventRecord struct {
	Artist      string      `json:"artist"`
	Venue       string      `json:"venue"`
	Date        string      `json:"date"`
	Time        string      `json:"time,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	ArtistImage string      `json:"artist_image,omitempty"`
	ArtistLink  string      `json:"artist_link,omitempty"`
}

// Day parses Date as a calendar day at midnight UTC.
func (e EventRecord) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// HasTime reports whether a performance time is known.
func (e EventRecord) HasTime() bool {
	return e.Time != ""
}

// HasImage reports whether an artist image is known.
func (e EventRecord) HasImage() bool {
	return e.ArtistImage != ""
}
