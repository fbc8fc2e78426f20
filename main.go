package main

import (
	"context"
	"log"

	"gigmap-server/config"
	"gigmap-server/di"
)

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	// A failed first load is not fatal: the API answers 503 until a refresh succeeds.
	log.Println("[MAIN] Loading events")
	container.EventsRefresherService.RefreshEventsData(ctx)

	container.AssetCacheService.Install(ctx)
	if err := container.AssetCacheService.Activate(); err != nil {
		log.Printf("[MAIN] Failed to activate asset cache: %v", err)
	}

	log.Printf("[MAIN] Starting periodic job every %s", cfg.RefreshInterval)
	container.EventsRefresherService.StartPeriodicJob(ctx, cfg.RefreshInterval)

	if err := container.GigMapHttpServer.Start(ctx); err != nil {
		log.Fatalf("[MAIN] Server error: %v", err)
	}
}
