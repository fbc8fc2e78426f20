package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type EventRoutes interface {
	GetMarkers(w http.ResponseWriter, r *http.Request)
	GetBuckets(w http.ResponseWriter, r *http.Request)
	GetLegend(w http.ResponseWriter, r *http.Request)
	GetLegendChart(w http.ResponseWriter, r *http.Request)
}

type VenueRoutes interface {
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
	GetVenueStats(w http.ResponseWriter, r *http.Request)
	GetBounds(w http.ResponseWriter, r *http.Request)
}

type ViewRoutes interface {
	GetInitialView(w http.ResponseWriter, r *http.Request)
	HandleWebSocket(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	eventsHandler EventRoutes
	venueHandler  VenueRoutes
	viewHandler   ViewRoutes
	assets        http.Handler
	router        *mux.Router
}

// NewRouter creates a router with the app's routes. Paths no API route
// claims fall through to assets.
func NewRouter(
	eventsHandler EventRoutes,
	venueHandler VenueRoutes,
	viewHandler ViewRoutes,
	assets http.Handler,
	router *mux.Router) *Router {
	return &Router{
		eventsHandler: eventsHandler,
		venueHandler:  venueHandler,
		viewHandler:   viewHandler,
		assets:        assets,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", ping).Methods("GET")

	r.router.HandleFunc("/v1/markers", r.eventsHandler.GetMarkers).Methods("GET")
	r.router.HandleFunc("/v1/buckets", r.eventsHandler.GetBuckets).Methods("GET")
	r.router.HandleFunc("/v1/legend", r.eventsHandler.GetLegend).Methods("GET")
	r.router.HandleFunc("/v1/legend/chart", r.eventsHandler.GetLegendChart).Methods("GET")

	r.router.HandleFunc("/v1/venues", r.venueHandler.GetVenueStats).Methods("GET")
	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={km(float)}
	r.router.HandleFunc("/v1/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")
	r.router.HandleFunc("/v1/bounds", r.venueHandler.GetBounds).Methods("GET")

	r.router.HandleFunc("/v1/view/initial", r.viewHandler.GetInitialView).Methods("GET")
	r.router.HandleFunc("/v1/view/ws", r.viewHandler.HandleWebSocket).Methods("GET")

	if r.assets != nil {
		r.router.PathPrefix("/").Handler(r.assets)
	}
}

func ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
