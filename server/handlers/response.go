package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	services "gigmap-server/service"
)

const (
	LAT_QUERY_ARG      = "lat"
	LON_QUERY_ARG      = "lon"
	RADIUS_QUERY_ARG   = "radius"
	SELECTED_QUERY_ARG = "selected"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSnapshotError maps a snapshot lookup failure to a response.
func writeSnapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrNoSnapshot) {
		writeError(w, http.StatusServiceUnavailable, services.UNAVAILABLE_MESSAGE)
		return
	}
	log.Printf("[Handlers] Unexpected snapshot error: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
