package gigs

import (
	"context"
	"fmt"

	"gigmap-server/models/event"
	"gigmap-server/util"
)

// GigsFileSource reads the collection from a local file on every fetch.
type GigsFileSource struct {
	path string
}

func NewGigsFileSource(path string) *GigsFileSource {
	return &GigsFileSource{path: path}
}

func (s *GigsFileSource) FetchEvents(ctx context.Context) ([]event.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := util.ReadEventsFromGeoJSON(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events from %s: %w", s.path, err)
	}
	return records, nil
}
