package db

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient is the subset of Redis the DAOs need.
type RedisClient interface {
	Set(key, value string) error
	Get(key string) (string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	// GetLocationsWithinRadius returns the JSON of every member within
	// radiusKm, nearest first.
	GetLocationsWithinRadius(key string, lat, lon, radiusKm float64) ([]string, error)
	GetContext() context.Context
	Ping() error
	Keys(pattern string) ([]string, error)
	Del(keys ...string) error
	// RemoveLocations drops members from the geo set along with their JSON.
	RemoveLocations(geoKey string, memberKeys ...string) error
}
