package view

import (
	"time"

	"gigmap-server/config"
	"gigmap-server/models/event"
)

// Mode is the view controller state.
type Mode string

const (
	ModeOverview Mode = "overview"
	ModeFocused  Mode = "focused"
)

// InputKind selects the detail zoom used when focusing.
type InputKind string

const (
	InputPointer InputKind = "pointer"
	InputTouch   InputKind = "touch"
)

// ResetSource records what asked for the overview.
type ResetSource string

const (
	ResetBackground ResetSource = "background"
	ResetButton     ResetSource = "button"
	ResetKeyboard   ResetSource = "keyboard"
)

// Viewport is the size of the rendering surface in CSS pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Target is what the user selected: a marker or a legend entry.
type Target struct {
	MarkerKey   string            `json:"marker_key,omitempty"`
	Date        string            `json:"date,omitempty"`
	Coordinates event.Coordinates `json:"coordinates"`
	Input       InputKind         `json:"input"`
	FromLegend  bool              `json:"from_legend"`
}

// Settings are the fixed viewport parameters.
type Settings struct {
	Origin            event.Coordinates
	OriginZoom        int
	DetailZoomPointer int
	DetailZoomTouch   int
	LegendZoom        int
	FlyToDuration     time.Duration
	CompactWidth      int
}

// SettingsFromConfig copies the map section of the configuration.
func SettingsFromConfig(cfg config.MapConfig) Settings {
	return Settings{
		Origin:            event.Coordinates{Lat: cfg.OriginLat, Lng: cfg.OriginLng},
		OriginZoom:        cfg.OriginZoom,
		DetailZoomPointer: cfg.DetailZoomPointer,
		DetailZoomTouch:   cfg.DetailZoomTouch,
		LegendZoom:        cfg.LegendZoom,
		FlyToDuration:     cfg.FlyToDuration,
		CompactWidth:      cfg.CompactWidth,
	}
}

// AppState is the whole view state of one map surface.
type AppState struct {
	Mode         Mode              `json:"mode"`
	Center       event.Coordinates `json:"center"`
	Zoom         int               `json:"zoom"`
	SelectedKey  string            `json:"selected_key,omitempty"`
	OpenPopupKey string            `json:"open_popup_key,omitempty"`
	Viewport     Viewport          `json:"viewport"`
}

// FlyTo is an animated viewport transition.
type FlyTo struct {
	Center     event.Coordinates `json:"center"`
	Zoom       int               `json:"zoom"`
	DurationMs int64             `json:"duration_ms"`
}

// EventKind names an input to the state machine.
type EventKind string

const (
	EventSelect EventKind = "select"
	EventReset  EventKind = "reset"
	EventResize EventKind = "resize"
)

// Event is one input to Transition. Only the field matching Kind is read.
type Event struct {
	Kind     EventKind
	Target   Target
	Source   ResetSource
	Viewport Viewport
}

// InitialState is the Overview centered on the origin.
func InitialState(s Settings) AppState {
	return AppState{
		Mode:   ModeOverview,
		Center: s.Origin,
		Zoom:   s.OriginZoom,
	}
}

// OverviewZoom is the origin zoom for a viewport; compact viewports sit one
// level further out.
func (s Settings) OverviewZoom(v Viewport) int {
	if v.Width > 0 && v.Width < s.CompactWidth {
		return s.OriginZoom - 1
	}
	return s.OriginZoom
}

// FocusZoom is the zoom used for a selection.
func (s Settings) FocusZoom(t Target, v Viewport) int {
	if t.FromLegend {
		return s.LegendZoom
	}
	if t.Input == InputTouch || (v.Width > 0 && v.Width < s.CompactWidth) {
		return s.DetailZoomTouch
	}
	return s.DetailZoomPointer
}

// Transition is the pure state machine. It returns the next state and the
// fly-to to animate, or nil when the viewport does not move.
func Transition(s Settings, state AppState, ev Event) (AppState, *FlyTo) {
	switch ev.Kind {
	case EventSelect:
		next := state
		next.Mode = ModeFocused
		next.Center = ev.Target.Coordinates
		next.Zoom = s.FocusZoom(ev.Target, state.Viewport)
		next.SelectedKey = ev.Target.MarkerKey
		next.OpenPopupKey = ev.Target.MarkerKey
		return next, s.flyTo(next)

	case EventReset:
		next := AppState{
			Mode:     ModeOverview,
			Center:   s.Origin,
			Zoom:     s.OverviewZoom(state.Viewport),
			Viewport: state.Viewport,
		}
		return next, s.flyTo(next)

	case EventResize:
		next := state
		next.Viewport = ev.Viewport
		if state.Mode != ModeOverview {
			return next, nil
		}
		zoom := s.OverviewZoom(ev.Viewport)
		if zoom == state.Zoom {
			return next, nil
		}
		next.Zoom = zoom
		return next, s.flyTo(next)
	}
	return state, nil
}

func (s Settings) flyTo(state AppState) *FlyTo {
	return &FlyTo{
		Center:     state.Center,
		Zoom:       state.Zoom,
		DurationMs: s.FlyToDuration.Milliseconds(),
	}
}
