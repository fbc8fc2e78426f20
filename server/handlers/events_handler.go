package handlers

import (
	"log"
	"net/http"
	"time"

	"gigmap-server/gigs"
	services "gigmap-server/service"
	"gigmap-server/util"
)

// BucketsResponse is the body of /v1/buckets.
type BucketsResponse struct {
	Today   string               `json:"today"`
	Dropped int                  `json:"dropped"`
	Buckets gigs.DateBuckets     `json:"buckets"`
	Colors  gigs.ColorAssignment `json:"colors"`
}

// LegendResponse is the body of /v1/legend.
type LegendResponse struct {
	Today   string             `json:"today"`
	Entries []gigs.LegendEntry `json:"entries"`
}

type EventsHandler struct {
	eventsService *services.EventsService
}

func NewEventsHandler(eventsService *services.EventsService) *EventsHandler {
	return &EventsHandler{eventsService: eventsService}
}

// GetMarkers returns the markers as a GeoJSON FeatureCollection. An optional
// ?selected=<marker key> flags one marker as selected.
func (h *EventsHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.eventsService.Snapshot()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}

	markers := snapshot.Data.Markers
	if key := r.URL.Query().Get(SELECTED_QUERY_ARG); key != "" {
		if _, ok := gigs.FindMarker(markers, key); !ok {
			writeError(w, http.StatusNotFound, "Unknown marker: "+key)
			return
		}
		markers = gigs.WithSelection(markers, key)
	}

	data, err := gigs.MarkersToFeatureCollection(markers).MarshalJSON()
	if err != nil {
		log.Printf("[EventsHandler] Failed to encode markers: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *EventsHandler) GetBuckets(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.eventsService.Snapshot()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BucketsResponse{
		Today:   snapshot.Today.Format(time.DateOnly),
		Dropped: snapshot.Data.Dropped,
		Buckets: snapshot.Data.Buckets,
		Colors:  snapshot.Data.Colors,
	})
}

func (h *EventsHandler) GetLegend(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.eventsService.Snapshot()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LegendResponse{
		Today:   snapshot.Today.Format(time.DateOnly),
		Entries: snapshot.Data.Legend,
	})
}

// GetLegendChart renders the legend as an HTML bar chart, one bar per day.
func (h *EventsHandler) GetLegendChart(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.eventsService.Snapshot()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}

	bars := make([]util.ChartBar, 0, len(snapshot.Data.Legend))
	for _, e := range snapshot.Data.Legend {
		bars = append(bars, util.ChartBar{
			Label: e.Weekday + " " + e.Date[len(e.Date)-2:],
			Value: e.Count,
			Color: e.Color.Hex,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotCountChart(w, "Upcoming Gigs", bars); err != nil {
		log.Printf("[EventsHandler] %v", err)
	}
}
