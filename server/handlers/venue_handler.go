package handlers

import (
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"gigmap-server/config"
	"gigmap-server/gigs"
	"gigmap-server/models"
	services "gigmap-server/service"
)

// BoundsResponse is the bounds analysis plus the view that covers it.
type BoundsResponse struct {
	gigs.BoundsReport
	BoundingBox *models.BoundingBox `json:"bounding_box,omitempty"`
}

type VenueHandler struct {
	venueService *services.VenueService
}

func NewVenueHandler(venueService *services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// GetVenuesNearby expects ?lat={float}&lon={float}[&radius={km}].
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	lat, lon, radius, ok := h.parseArgs(r.URL.Query(), w)
	if !ok {
		return
	}

	venues, err := h.venueService.GetVenuesNearby(lat, lon, radius)
	if err != nil {
		log.Println("[VenueHandler] Error loading nearby venues:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *VenueHandler) GetVenueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.venueService.GetVenueStats()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *VenueHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	report, err := h.venueService.GetBounds()
	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BoundsResponse{BoundsReport: report, BoundingBox: boundingBoxFor(report)})
}

func (h *VenueHandler) parseArgs(vals url.Values, w http.ResponseWriter) (lat, lon, radius float64, ok bool) {
	var err error
	if lat, err = parseFloatArg(vals, LAT_QUERY_ARG, math.NaN()); err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "Invalid or missing latitude")
		return 0, 0, 0, false
	}
	if lon, err = parseFloatArg(vals, LON_QUERY_ARG, math.NaN()); err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "Invalid or missing longitude")
		return 0, 0, 0, false
	}
	if radius, err = parseFloatArg(vals, RADIUS_QUERY_ARG, config.VENUES_NEARBY_DEFAULT_RADIUS_KM); err != nil || radius <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid radius")
		return 0, 0, 0, false
	}
	return lat, lon, radius, true
}

func parseFloatArg(vals url.Values, key string, defaultValue float64) (float64, error) {
	raw := vals.Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// boundingBoxFor returns the view covering every venue, nil without venues.
func boundingBoxFor(report gigs.BoundsReport) *models.BoundingBox {
	if len(report.Venues) == 0 {
		return nil
	}
	first := report.Venues[0].Coordinates
	box := &models.BoundingBox{
		LatMin: first.Lat, LatMax: first.Lat,
		LngMin: first.Lng, LngMax: first.Lng,
	}
	for _, v := range report.Venues[1:] {
		box.LatMin = math.Min(box.LatMin, v.Coordinates.Lat)
		box.LatMax = math.Max(box.LatMax, v.Coordinates.Lat)
		box.LngMin = math.Min(box.LngMin, v.Coordinates.Lng)
		box.LngMax = math.Max(box.LngMax, v.Coordinates.Lng)
	}
	center := report.Origin
	if report.SuggestedCenter != nil {
		center = *report.SuggestedCenter
	}
	box.Lat = center.Lat
	box.Lng = center.Lng
	box.MapZoom = report.SuggestedZoom
	return box
}
