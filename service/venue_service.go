package services

import (
	"gigmap-server/dao/redis"
	"gigmap-server/gigs"
	"gigmap-server/models/venue"
)

type VenueService struct {
	venueDao      *redis.RedisVenueDAO
	eventsService *EventsService
}

// NewVenueService constructs a new VenueService with Redis dependency injection.
func NewVenueService(venueDao *redis.RedisVenueDAO, eventsService *EventsService) *VenueService {
	return &VenueService{
		venueDao:      venueDao,
		eventsService: eventsService,
	}
}

// GetVenuesNearby queries the geo index within radiusKm.
func (vs *VenueService) GetVenuesNearby(lat, lon, radiusKm float64) ([]venue.VenueGroup, error) {
	return vs.venueDao.GetNearbyVenues(lat, lon, radiusKm)
}

// GetVenueStats returns events per venue from the latest snapshot.
func (vs *VenueService) GetVenueStats() ([]gigs.VenueStat, error) {
	snapshot, err := vs.eventsService.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Stats, nil
}

// GetBounds returns the map bounds analysis from the latest snapshot.
func (vs *VenueService) GetBounds() (gigs.BoundsReport, error) {
	snapshot, err := vs.eventsService.Snapshot()
	if err != nil {
		return gigs.BoundsReport{}, err
	}
	return snapshot.Bounds, nil
}
