package redis

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gigmap-server/db"
	"gigmap-server/models/venue"
)

const VENUES_GEO_KEY_V1 = "venues_geo_v1"
const VENUES_GEO_PLACE_MEMBER_FORMAT_V1 = "venues_geo_place_v1:%s"

// RedisVenueDAO handles venue group operations using Redis.
type RedisVenueDAO struct {
	client db.RedisClient
}

// NewRedisVenueDAO initializes a RedisVenueDAO with the Redis client.
func NewRedisVenueDAO(client db.RedisClient) *RedisVenueDAO {
	return &RedisVenueDAO{client: client}
}

// UpsertVenueGroup stores the group as a geolocation with its JSON data.
func (dao *RedisVenueDAO) UpsertVenueGroup(v venue.VenueGroup) error {
	ctx := dao.client.GetContext()
	memberKey := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, v.Key)
	if err := dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, memberKey, v.VenueLat, v.VenueLon, v); err != nil {
		return fmt.Errorf("[RedisVenueDAO] failed to upsert venue %s: %w", v.Key, err)
	}
	return nil
}

// GetNearbyVenues retrieves venue groups within radiusKm, nearest first.
func (dao *RedisVenueDAO) GetNearbyVenues(lat, lon, radiusKm float64) ([]venue.VenueGroup, error) {
	venuesJSON, err := dao.client.GetLocationsWithinRadius(VENUES_GEO_KEY_V1, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.VenueGroup, len(venuesJSON))
	for i, venueJSON := range venuesJSON {
		if err := json.Unmarshal([]byte(venueJSON), &venues[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
		}
	}
	return venues, nil
}

// ListAllVenueKeys returns the coordinate keys present in the geo index.
func (dao *RedisVenueDAO) ListAllVenueKeys() ([]string, error) {
	pattern := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, "*")
	keys, err := dao.client.Keys(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue geo keys: %w", err)
	}
	prefix := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, "")
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

// ReplaceVenueGroups upserts every group, then removes members that are not
// among them. Unchanged venues stay queryable throughout.
func (dao *RedisVenueDAO) ReplaceVenueGroups(groups []venue.VenueGroup) (int, error) {
	keep := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if err := dao.UpsertVenueGroup(g); err != nil {
			return 0, err
		}
		keep[g.Key] = struct{}{}
	}

	existing, err := dao.ListAllVenueKeys()
	if err != nil {
		return 0, err
	}
	var stale []string
	for _, key := range existing {
		if _, ok := keep[key]; !ok {
			stale = append(stale, fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, key))
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := dao.client.RemoveLocations(VENUES_GEO_KEY_V1, stale...); err != nil {
		return 0, fmt.Errorf("failed to remove stale venues: %w", err)
	}
	log.Printf("[RedisVenueDAO] Removed %d stale venues", len(stale))
	return len(stale), nil
}
