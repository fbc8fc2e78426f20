package view

import (
	"log"
	"sync"
	"time"
)

// Listener is the surface-independent set of UI callbacks.
type Listener interface {
	OnSelect(target Target)
	OnReset(source ResetSource)
	OnResize(viewport Viewport)
}

// Sink receives every fly-to the controller decides on.
type Sink interface {
	FlyTo(cmd FlyTo, state AppState)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd FlyTo, state AppState)

func (f SinkFunc) FlyTo(cmd FlyTo, state AppState) { f(cmd, state) }

// Controller owns the view state of one map surface.
type Controller struct {
	mu       sync.Mutex
	settings Settings
	state    AppState
	sink     Sink

	pending   Viewport
	debouncer *Debouncer
}

var _ Listener = (*Controller)(nil)

// NewController starts in Overview. Resize events are debounced by
// resizeDelay.
func NewController(settings Settings, sink Sink, resizeDelay time.Duration) *Controller {
	return &Controller{
		settings:  settings,
		state:     InitialState(settings),
		sink:      sink,
		debouncer: NewDebouncer(resizeDelay),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) OnSelect(target Target) {
	c.apply(Event{Kind: EventSelect, Target: target})
}

func (c *Controller) OnReset(source ResetSource) {
	log.Printf("[ViewController] reset from %s", source)
	c.apply(Event{Kind: EventReset, Source: source})
}

// OnResize records the latest viewport; the recompute runs once the resize
// burst is over.
func (c *Controller) OnResize(viewport Viewport) {
	c.mu.Lock()
	c.pending = viewport
	c.mu.Unlock()

	c.debouncer.Trigger(func() {
		c.mu.Lock()
		v := c.pending
		c.mu.Unlock()
		c.apply(Event{Kind: EventResize, Viewport: v})
	})
}

// Close cancels any pending resize recompute.
func (c *Controller) Close() {
	c.debouncer.Stop()
}

func (c *Controller) apply(ev Event) {
	c.mu.Lock()
	next, cmd := Transition(c.settings, c.state, ev)
	c.state = next
	c.mu.Unlock()

	if cmd != nil && c.sink != nil {
		c.sink.FlyTo(*cmd, next)
	}
}
