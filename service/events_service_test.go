package services

import (
	"context"
	"errors"
	"testing"
	"time"

	gigsapi "gigmap-server/api/gigs"
	"gigmap-server/config"
	"gigmap-server/dao/redis"
	"gigmap-server/db"
	"gigmap-server/models/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rupp = event.Coordinates{Lat: 38.0494, Lng: -84.4977}
var alsBar = event.Coordinates{Lat: 38.05402, Lng: -84.48633}

func sampleRecords() []event.EventRecord {
	return []event.EventRecord{
		{Artist: "Headliner", Venue: "Rupp Arena", Date: "2024-07-10", Time: "08:00 PM", Coordinates: rupp},
		{Artist: "Second Night", Venue: "Rupp Arena", Date: "2024-07-11", Coordinates: rupp},
		{Artist: "Opener", Venue: "Al's Bar", Date: "2024-07-10", Time: "06:00 PM", Coordinates: alsBar},
		{Artist: "No Date", Venue: "Al's Bar", Coordinates: alsBar},
	}
}

func testMapConfig() config.MapConfig {
	loc, _ := time.LoadLocation("America/New_York")
	return config.MapConfig{
		OriginLat:  38.0406,
		OriginLng:  -84.5037,
		OriginZoom: 13,
		Location:   loc,
	}
}

func newTestEventsService(source gigsapi.GigsAPI) (*EventsService, *redis.RedisVenueDAO) {
	dao := redis.NewRedisVenueDAO(db.NewMemoryRedisClient(context.Background()))
	s := NewEventsService(source, dao, testMapConfig(), time.Second)
	s.SetClock(func() time.Time {
		// 2024-07-10 21:00 in Lexington, already July 11 in UTC.
		return time.Date(2024, 7, 11, 1, 0, 0, 0, time.UTC)
	})
	return s, dao
}

func TestEventsService_SnapshotBeforeLoad(t *testing.T) {
	s, _ := newTestEventsService(gigsapi.NewGigsApiClientMock(nil))

	_, err := s.Snapshot()

	assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestEventsService_Load(t *testing.T) {
	s, dao := newTestEventsService(gigsapi.NewGigsApiClientMock(sampleRecords()))

	require.NoError(t, s.Load(context.Background()))
	snapshot, err := s.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.Data.Dropped)
	assert.Equal(t, []string{"2024-07-10", "2024-07-11"}, snapshot.Data.Buckets.Keys())
	assert.Len(t, snapshot.Data.Markers, 2)
	assert.Equal(t, "imminent", snapshot.Data.Colors["2024-07-10"].Band)
	assert.Equal(t, 10, snapshot.Today.Day(), "today follows the map time zone")
	assert.True(t, snapshot.Bounds.WithinRange)
	require.Len(t, snapshot.Stats, 2)
	assert.Equal(t, "Rupp Arena", snapshot.Stats[0].Venue)

	venues, err := dao.GetNearbyVenues(rupp.Lat, rupp.Lng, 5)
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "Rupp Arena", venues[0].VenueName)
	assert.Equal(t, 2, venues[0].EventCount())
}

func TestEventsService_FailedLoadKeepsSnapshot(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(sampleRecords())
	s, _ := newTestEventsService(source)
	require.NoError(t, s.Load(context.Background()))

	source.SetResult(nil, errors.New("connection refused"))
	err := s.Load(context.Background())

	require.Error(t, err)
	assert.EqualError(t, s.LastError(), "connection refused")
	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snapshot.Data.Records, 3)
}

func TestEventsService_FailedFirstLoad(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(nil)
	source.SetResult(nil, errors.New("timeout"))
	s, _ := newTestEventsService(source)

	require.Error(t, s.Load(context.Background()))
	_, err := s.Snapshot()

	assert.True(t, errors.Is(err, ErrNoSnapshot))
	assert.Contains(t, err.Error(), "timeout")
}

func TestEventsService_ReloadDropsStaleVenues(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(sampleRecords())
	s, dao := newTestEventsService(source)
	require.NoError(t, s.Load(context.Background()))

	source.SetResult(sampleRecords()[:2], nil)
	require.NoError(t, s.Load(context.Background()))

	keys, err := dao.ListAllVenueKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"38.04940,-84.49770"}, keys)
}

func TestEventsService_ReloadKeepsVenuesQueryable(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(sampleRecords())
	s, dao := newTestEventsService(source)
	vs := NewVenueService(dao, s)
	require.NoError(t, s.Load(context.Background()))

	done := make(chan struct{})
	var queries, short int
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			nearby, err := vs.GetVenuesNearby(rupp.Lat, rupp.Lng, 5)
			if err != nil || len(nearby) != 2 {
				short++
			}
			queries++
		}
	}()

	for i := 0; i < 200; i++ {
		require.NoError(t, s.Load(context.Background()))
	}
	<-done

	assert.Equal(t, 200, queries)
	assert.Zero(t, short, "nearby queries saw a partial venue index during reloads")
}

func TestEventsRefresherService_RefreshAndStop(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(sampleRecords())
	s, _ := newTestEventsService(source)
	refresher := NewEventsRefresherService(s)

	require.NoError(t, refresher.RefreshEventsData(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	refresher.StartPeriodicJob(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return source.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestEventsRefresherService_NonPositiveIntervalDoesNotStart(t *testing.T) {
	source := gigsapi.NewGigsApiClientMock(sampleRecords())
	s, _ := newTestEventsService(source)
	refresher := NewEventsRefresherService(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NotPanics(t, func() {
		refresher.StartPeriodicJob(ctx, 0)
		refresher.StartPeriodicJob(ctx, -time.Minute)
	})

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, source.Calls())
}

func TestVenueService(t *testing.T) {
	s, dao := newTestEventsService(gigsapi.NewGigsApiClientMock(sampleRecords()))
	vs := NewVenueService(dao, s)

	_, err := vs.GetVenueStats()
	assert.True(t, errors.Is(err, ErrNoSnapshot))

	require.NoError(t, s.Load(context.Background()))

	stats, err := vs.GetVenueStats()
	require.NoError(t, err)
	assert.Len(t, stats, 2)

	bounds, err := vs.GetBounds()
	require.NoError(t, err)
	assert.Len(t, bounds.Venues, 2)

	nearby, err := vs.GetVenuesNearby(alsBar.Lat, alsBar.Lng, 0.5)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "Al's Bar", nearby[0].VenueName)
}
