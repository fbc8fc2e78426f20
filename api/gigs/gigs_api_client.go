package gigs

import (
	"context"
	"fmt"
	"net/http"

	"gigmap-server/api"
	"gigmap-server/models/event"
	"gigmap-server/util"
)

// GigsApiClient fetches the GeoJSON collection over HTTP.
type GigsApiClient struct {
	*api.HTTPClient
	path string
}

// NewGigsApiClient fetches path relative to the client's base URL. The whole
// URL may be in the base with an empty path.
func NewGigsApiClient(httpClient *api.HTTPClient, path string) *GigsApiClient {
	return &GigsApiClient{HTTPClient: httpClient, path: path}
}

func (c *GigsApiClient) FetchEvents(ctx context.Context) ([]event.EventRecord, error) {
	body, err := c.Do(ctx, http.MethodGet, c.path, map[string]string{"Accept": "application/geo+json, application/json"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	records, err := util.ParseEventsGeoJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return records, nil
}
