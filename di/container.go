package di

import (
	"context"
	"fmt"
	"log"
	"time"

	"gigmap-server/api"
	gigsapi "gigmap-server/api/gigs"
	"gigmap-server/config"
	"gigmap-server/dao/redis"
	"gigmap-server/db"
	"gigmap-server/server"
	"gigmap-server/server/handlers"
	services "gigmap-server/service"
	"gigmap-server/view"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config                 *config.Config
	RedisClient            db.RedisClient
	RedisVenueDao          *redis.RedisVenueDAO
	RedisAssetDao          *redis.RedisAssetDAO
	GigsAPI                gigsapi.GigsAPI
	EventsService          *services.EventsService
	VenueService           *services.VenueService
	AssetCacheService      *services.AssetCacheService
	EventsRefresherService *services.EventsRefresherService
	EventsHandler          *handlers.EventsHandler
	VenueHandler           *handlers.VenueHandler
	ViewHandler            *handlers.ViewHandler
	MuxRouter              *mux.Router
	Router                 *server.Router
	GigMapHttpServer       *server.GigMapHttpServer
}

// NewContainer initializes and wires up all dependencies. ctx bounds the
// Redis client and every view session.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Printf("[Container] initializing container - env: %s", cfg.Env)

	redisClient, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisVenueDao := redis.NewRedisVenueDAO(redisClient)
	redisAssetDao := redis.NewRedisAssetDAO(redisClient)

	gigsAPI := newGigsAPI(cfg.Source)

	eventsService := services.NewEventsService(gigsAPI, redisVenueDao, cfg.Map, cfg.Source.FetchTimeout)
	venueService := services.NewVenueService(redisVenueDao, eventsService)
	assetCacheService := services.NewAssetCacheService(
		redisAssetDao,
		services.NewStaticOrigin(cfg.Assets.StaticDir),
		cfg.Assets,
		cfg.IsLocal(),
	)
	eventsRefresherService := services.NewEventsRefresherService(eventsService)

	eventsHandler := handlers.NewEventsHandler(eventsService)
	venueHandler := handlers.NewVenueHandler(venueService)
	viewHandler := handlers.NewViewHandler(ctx, view.SettingsFromConfig(cfg.Map), cfg.Map.ResizeDebounce, eventsService)
	viewHandler.SetAllowedOrigins(cfg.Server.CORSOrigins)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(eventsHandler, venueHandler, viewHandler, assetCacheService, muxRouter)
	gigMapHttpServer := server.NewGigMapHttpServer(
		router,
		muxRouter,
		cfg.Server.Addr,
		cfg.Server.CORSOrigins,
		config.SERVER_SHUTDOWN_TIMEOUT_SECONDS*time.Second,
	)

	return &Container{
		Config:                 cfg,
		RedisClient:            redisClient,
		RedisVenueDao:          redisVenueDao,
		RedisAssetDao:          redisAssetDao,
		GigsAPI:                gigsAPI,
		EventsService:          eventsService,
		VenueService:           venueService,
		AssetCacheService:      assetCacheService,
		EventsRefresherService: eventsRefresherService,
		EventsHandler:          eventsHandler,
		VenueHandler:           venueHandler,
		ViewHandler:            viewHandler,
		MuxRouter:              muxRouter,
		Router:                 router,
		GigMapHttpServer:       gigMapHttpServer,
	}, nil
}

// newRedisClient connects to Redis. Local development falls back to the
// in-process client when no server is reachable.
func newRedisClient(ctx context.Context, cfg *config.Config) (db.RedisClient, error) {
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	redisClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
	if err == nil {
		return redisClient, nil
	}
	redisInternalClient.Close()
	if cfg.IsLocal() {
		log.Printf("[Container] Redis unavailable at %s, using in-memory store: %v", cfg.Redis.Addr, err)
		return db.NewMemoryRedisClient(ctx), nil
	}
	return nil, fmt.Errorf("failed to connect to Redis: %w", err)
}

func newGigsAPI(src config.SourceConfig) gigsapi.GigsAPI {
	if src.URL != "" {
		log.Printf("[Container] Using gigs data from %s", src.URL)
		return gigsapi.NewGigsApiClient(api.NewHTTPClient(src.URL, src.FetchTimeout), "")
	}
	log.Printf("[Container] Using gigs data file %s", src.File)
	return gigsapi.NewGigsFileSource(src.File)
}
