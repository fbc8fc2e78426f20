package gigs

import (
	"context"
	"sync"

	"gigmap-server/models/event"
)

// GigsApiClientMock returns canned records or a canned error.
type GigsApiClientMock struct {
	mu      sync.Mutex
	records []event.EventRecord
	err     error
	calls   int
}

func NewGigsApiClientMock(records []event.EventRecord) *GigsApiClientMock {
	return &GigsApiClientMock{records: records}
}

// SetResult replaces what the next fetches return.
func (c *GigsApiClientMock) SetResult(records []event.EventRecord, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.err = err
}

func (c *GigsApiClientMock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *GigsApiClientMock) FetchEvents(ctx context.Context) ([]event.EventRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]event.EventRecord, len(c.records))
	copy(out, c.records)
	return out, nil
}
