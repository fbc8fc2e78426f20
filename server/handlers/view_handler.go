package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	services "gigmap-server/service"
	"gigmap-server/view"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)


// InitialViewResponse is the Overview a new map surface starts in.
type InitialViewResponse struct {
	State             view.AppState `json:"state"`
	DetailZoomPointer int           `json:"detail_zoom_pointer"`
	DetailZoomTouch   int           `json:"detail_zoom_touch"`
	LegendZoom        int           `json:"legend_zoom"`
	FlyToDurationMs   int64         `json:"fly_to_duration_ms"`
	CompactWidth      int           `json:"compact_width"`
}

type ViewHandler struct {
	ctx           context.Context
	settings      view.Settings
	resizeDelay   time.Duration
	eventsService *services.EventsService
	upgrader      websocket.Upgrader
	origins       []string
}

// NewViewHandler serves view sessions; ctx bounds the lifetime of every session.
func NewViewHandler(ctx context.Context, settings view.Settings, resizeDelay time.Duration, eventsService *services.EventsService) *ViewHandler {
	h := &ViewHandler{
		ctx:           ctx,
		settings:      settings,
		resizeDelay:   resizeDelay,
		eventsService: eventsService,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetAllowedOrigins restricts WebSocket upgrades to the given browser
// origins. An empty list or "*" allows any origin.
func (h *ViewHandler) SetAllowedOrigins(origins []string) {
	h.origins = origins
}

// checkOrigin runs on upgrade; the CORS middleware does not cover WebSocket
// handshakes. Requests without an Origin header come from non-browser clients.
func (h *ViewHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	log.Printf("[ViewHandler] Rejected WebSocket origin %q", origin)
	return false
}

func (h *ViewHandler) GetInitialView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InitialViewResponse{
		State:             view.InitialState(h.settings),
		DetailZoomPointer: h.settings.DetailZoomPointer,
		DetailZoomTouch:   h.settings.DetailZoomTouch,
		LegendZoom:        h.settings.LegendZoom,
		FlyToDurationMs:   h.settings.FlyToDuration.Milliseconds(),
		CompactWidth:      h.settings.CompactWidth,
	})
}

// HandleWebSocket upgrades the connection and starts a view session.
func (h *ViewHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ViewHandler] WebSocket upgrade error: %v", err)
		return
	}

	session := NewViewSession(uuid.New().String(), conn, h.settings, h.resizeDelay, h.eventsService)
	session.SendState()

	go session.WritePump(h.ctx)
	go session.ReadPump(h.ctx)

	log.Printf("[ViewHandler] View session started: %s", session.ID)
}
