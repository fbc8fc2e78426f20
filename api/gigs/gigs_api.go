package gigs

import (
	"context"

	"gigmap-server/models/event"
)

// GigsAPI loads the event collection once per call.
type GigsAPI interface {
	FetchEvents(ctx context.Context) ([]event.EventRecord, error)
}
