package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gigmap-server/gigs"
	"gigmap-server/models"
	"gigmap-server/models/event"
	services "gigmap-server/service"
	"gigmap-server/view"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024

	sendBufferSize = 32
)

// ViewSession is one WebSocket connection driving its own view controller.
type ViewSession struct {
	ID            string
	conn          *websocket.Conn
	send          chan models.ServerMessage
	done          chan struct{}
	closeOnce     sync.Once
	controller    *view.Controller
	eventsService *services.EventsService
}

func NewViewSession(id string, conn *websocket.Conn, settings view.Settings, resizeDelay time.Duration, eventsService *services.EventsService) *ViewSession {
	s := &ViewSession{
		ID:            id,
		conn:          conn,
		send:          make(chan models.ServerMessage, sendBufferSize),
		done:          make(chan struct{}),
		eventsService: eventsService,
	}
	s.controller = view.NewController(settings, view.SinkFunc(s.onFlyTo), resizeDelay)
	return s
}

// ReadPump reads client messages until the connection drops.
func (s *ViewSession) ReadPump(ctx context.Context) {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var msg models.ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ViewSession] %s unexpected close: %v", s.ID, err)
			}
			return
		}
		s.handleClientMessage(msg)
	}
}

// WritePump writes queued server messages and keeps the connection alive.
func (s *ViewSession) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-s.done:
			return
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(message); err != nil {
				log.Printf("[ViewSession] %s write error: %v", s.ID, err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking; it reports false when the
// session is closed or the buffer is full.
func (s *ViewSession) TrySend(msg models.ServerMessage) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

// SendState queues the current view state.
func (s *ViewSession) SendState() {
	s.TrySend(models.NewServerMessage(models.MESSAGE_STATE, s.controller.State()))
}

func (s *ViewSession) close() {
	s.closeOnce.Do(func() {
		s.controller.Close()
		close(s.done)
		s.conn.Close()
	})
}

func (s *ViewSession) onFlyTo(cmd view.FlyTo, state view.AppState) {
	s.TrySend(models.NewServerMessage(models.MESSAGE_FLY_TO, cmd))
	s.TrySend(models.NewServerMessage(models.MESSAGE_STATE, state))
}

func (s *ViewSession) handleClientMessage(msg models.ClientMessage) {
	var err error
	switch msg.Type {
	case models.MESSAGE_SELECT:
		err = s.handleSelect(msg.Payload)
	case models.MESSAGE_RESET:
		err = s.handleReset(msg.Payload)
	case models.MESSAGE_RESIZE:
		err = s.handleResize(msg.Payload)
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if err != nil {
		s.sendError(err.Error())
	}
}

func (s *ViewSession) handleSelect(raw json.RawMessage) error {
	var p models.SelectPayload
	if err := decodePayload(raw, &p); err != nil {
		return err
	}
	target, err := s.resolveTarget(p)
	if err != nil {
		return err
	}
	s.controller.OnSelect(target)
	return nil
}

// resolveTarget turns a select payload into coordinates: a marker key, then
// a legend date, then raw coordinates.
func (s *ViewSession) resolveTarget(p models.SelectPayload) (view.Target, error) {
	input := view.InputPointer
	switch view.InputKind(p.Input) {
	case "", view.InputPointer:
	case view.InputTouch:
		input = view.InputTouch
	default:
		return view.Target{}, fmt.Errorf("invalid input kind: %s", p.Input)
	}

	if p.Lat != nil && p.Lng != nil && p.MarkerKey == "" && p.Date == "" {
		c := event.Coordinates{Lat: *p.Lat, Lng: *p.Lng}
		return view.Target{MarkerKey: gigs.CoordinateKey(c), Coordinates: c, Input: input}, nil
	}

	snapshot, err := s.eventsService.Snapshot()
	if err != nil {
		return view.Target{}, errors.New(services.UNAVAILABLE_MESSAGE)
	}

	switch {
	case p.MarkerKey != "":
		m, ok := gigs.FindMarker(snapshot.Data.Markers, p.MarkerKey)
		if !ok {
			return view.Target{}, fmt.Errorf("unknown marker: %s", p.MarkerKey)
		}
		return view.Target{MarkerKey: m.Key, Coordinates: m.Coordinates, Input: input}, nil
	case p.Date != "":
		entry, ok := gigs.FindLegendEntry(snapshot.Data.Legend, p.Date)
		if !ok {
			return view.Target{}, fmt.Errorf("no events on %s", p.Date)
		}
		c, ok := entry.Target()
		if !ok {
			return view.Target{}, fmt.Errorf("no events on %s", p.Date)
		}
		return view.Target{
			MarkerKey:   entry.Events[0].MarkerKey,
			Date:        entry.Date,
			Coordinates: c,
			Input:       input,
			FromLegend:  true,
		}, nil
	}
	return view.Target{}, errors.New("select needs marker_key, date, or lat and lng")
}

func (s *ViewSession) handleReset(raw json.RawMessage) error {
	var p models.ResetPayload
	if err := decodePayload(raw, &p); err != nil {
		return err
	}
	source := view.ResetSource(p.Source)
	switch source {
	case "":
		source = view.ResetButton
	case view.ResetBackground, view.ResetButton, view.ResetKeyboard:
	default:
		return fmt.Errorf("invalid reset source: %s", p.Source)
	}
	s.controller.OnReset(source)
	return nil
}

func (s *ViewSession) handleResize(raw json.RawMessage) error {
	var p models.ResizePayload
	if err := decodePayload(raw, &p); err != nil {
		return err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", p.Width, p.Height)
	}
	s.controller.OnResize(view.Viewport{Width: p.Width, Height: p.Height})
	return nil
}

func (s *ViewSession) sendError(message string) {
	s.TrySend(models.NewServerMessage(models.MESSAGE_ERROR, models.ErrorPayload{Message: message}))
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %v", err)
	}
	return nil
}
