package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	gigsapi "gigmap-server/api/gigs"
	"gigmap-server/config"
	"gigmap-server/dao/redis"
	"gigmap-server/gigs"
	"gigmap-server/models/event"
	"gigmap-server/models/venue"
)

// ErrNoSnapshot is returned while no load has succeeded yet.
var ErrNoSnapshot = errors.New("event data is not loaded")

// UNAVAILABLE_MESSAGE is shown to users when no event data can be served.
const UNAVAILABLE_MESSAGE = "Could not load gig data. Please try again later."

// Snapshot is the immutable result of one successful load.
type Snapshot struct {
	Data     gigs.MapData
	Stats    []gigs.VenueStat
	Bounds   gigs.BoundsReport
	Today    time.Time
	LoadedAt time.Time
}

// EventsService loads the event collection and keeps the latest snapshot.
type EventsService struct {
	source       gigsapi.GigsAPI
	venueDao     *redis.RedisVenueDAO
	mapConfig    config.MapConfig
	fetchTimeout time.Duration
	now          func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
	lastErr  error
}

func NewEventsService(
	source gigsapi.GigsAPI,
	venueDao *redis.RedisVenueDAO,
	mapConfig config.MapConfig,
	fetchTimeout time.Duration,
) *EventsService {
	return &EventsService{
		source:       source,
		venueDao:     venueDao,
		mapConfig:    mapConfig,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// SetClock replaces the wall clock; tests pin "today" with it.
func (s *EventsService) SetClock(now func() time.Time) {
	s.now = now
}

// Today is the current calendar day in the map's time zone.
func (s *EventsService) Today() time.Time {
	loc := s.mapConfig.Location
	if loc == nil {
		loc = time.UTC
	}
	return s.now().In(loc)
}

// Load fetches the collection once and swaps in a new snapshot. On failure
// the previous snapshot stays in place.
func (s *EventsService) Load(ctx context.Context) error {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	records, err := s.source.FetchEvents(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("[EventsService] Failed to load events: %v", err)
		return fmt.Errorf("failed to load events: %w", err)
	}

	today := s.Today()
	data := gigs.BuildMapData(records, today)
	if data.Dropped > 0 {
		log.Printf("[EventsService] Dropped %d records without a date", data.Dropped)
	}

	origin := event.Coordinates{Lat: s.mapConfig.OriginLat, Lng: s.mapConfig.OriginLng}
	snapshot := &Snapshot{
		Data:     data,
		Stats:    gigs.VenueStats(data.Records),
		Bounds:   gigs.AnalyzeBounds(data.Venues, origin, s.mapConfig.OriginZoom, config.MAP_BOUNDS_MAX_DISTANCE_MILES),
		Today:    today,
		LoadedAt: s.now(),
	}
	if !snapshot.Bounds.WithinRange {
		log.Printf("[EventsService] Venues reach %.1f miles from the origin; suggested zoom %d",
			snapshot.Bounds.MaxDistanceMiles, snapshot.Bounds.SuggestedZoom)
	}

	s.syncVenues(data)

	s.mu.Lock()
	s.snapshot = snapshot
	s.lastErr = nil
	s.mu.Unlock()

	log.Printf("[EventsService] Loaded %d events in %d buckets at %d venues",
		len(data.Records), data.Buckets.Len(), data.Venues.Len())
	return nil
}

// Snapshot returns the latest snapshot or ErrNoSnapshot.
func (s *EventsService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		if s.lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, s.lastErr)
		}
		return nil, ErrNoSnapshot
	}
	return s.snapshot, nil
}

// LastError is the error of the most recent load, nil after a success.
func (s *EventsService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// syncVenues brings the geo index in line with the new venue groups.
// Failures are logged; the snapshot does not depend on Redis.
func (s *EventsService) syncVenues(data gigs.MapData) {
	if s.venueDao == nil {
		return
	}
	groups := make([]venue.VenueGroup, 0, data.Venues.Len())
	for _, key := range data.Venues.Keys() {
		events := data.Venues.Get(key)
		if len(events) == 0 {
			continue
		}
		groups = append(groups, venue.VenueGroup{
			Key:       key,
			VenueName: events[0].Venue,
			VenueLat:  events[0].Coordinates.Lat,
			VenueLon:  events[0].Coordinates.Lng,
			Color:     data.Colors[events[0].Date].Hex,
			Events:    events,
		})
	}
	if _, err := s.venueDao.ReplaceVenueGroups(groups); err != nil {
		log.Printf("[EventsService] Failed to sync venue index: %v", err)
	}
}
