package services

import (
	"context"
	"log"
	"time"
)

// EventsRefresherService periodically reloads the event collection.
type EventsRefresherService struct {
	eventsService *EventsService
}

func NewEventsRefresherService(eventsService *EventsService) *EventsRefresherService {
	return &EventsRefresherService{eventsService: eventsService}
}

// StartPeriodicJob launches the background loop at the given interval. The
// loop ends when ctx is done. A non-positive interval starts nothing.
func (er *EventsRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Printf("[EventsRefresherService] Invalid interval %v, periodic refresh disabled.", interval)
		return
	}
	go er.startPeriodicJob(ctx, interval)
}

func (er *EventsRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[EventsRefresherService] Stopping periodic events refresher job.")
			return
		case <-ticker.C:
			log.Println("[EventsRefresherService] Running periodic events refresher job.")
			er.RefreshEventsData(ctx)
		}
	}
}

// RefreshEventsData runs one load. Errors are logged; the previous snapshot
// keeps serving.
func (er *EventsRefresherService) RefreshEventsData(ctx context.Context) error {
	if err := er.eventsService.Load(ctx); err != nil {
		log.Printf("[EventsRefresherService] RefreshEventsData returned error: %v", err)
		return err
	}
	log.Println("[EventsRefresherService] RefreshEventsData completed successfully.")
	return nil
}
