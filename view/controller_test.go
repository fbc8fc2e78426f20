package view

import (
	"sync"
	"testing"
	"time"

	"gigmap-server/models/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		Origin:            event.Coordinates{Lat: 38.0406, Lng: -84.5037},
		OriginZoom:        13,
		DetailZoomPointer: 16,
		DetailZoomTouch:   15,
		LegendZoom:        16,
		FlyToDuration:     1500 * time.Millisecond,
		CompactWidth:      768,
	}
}

var rupp = event.Coordinates{Lat: 38.0494, Lng: -84.4977}

func TestInitialState(t *testing.T) {
	s := testSettings()
	state := InitialState(s)

	assert.Equal(t, ModeOverview, state.Mode)
	assert.Equal(t, s.Origin, state.Center)
	assert.Equal(t, 13, state.Zoom)
	assert.Empty(t, state.SelectedKey)
}

func TestTransition_SelectPointer(t *testing.T) {
	s := testSettings()
	next, cmd := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{MarkerKey: "38.04940,-84.49770", Coordinates: rupp, Input: InputPointer},
	})

	require.NotNil(t, cmd)
	assert.Equal(t, ModeFocused, next.Mode)
	assert.Equal(t, rupp, next.Center)
	assert.Equal(t, 16, next.Zoom)
	assert.Equal(t, "38.04940,-84.49770", next.SelectedKey)
	assert.Equal(t, "38.04940,-84.49770", next.OpenPopupKey)
	assert.Equal(t, FlyTo{Center: rupp, Zoom: 16, DurationMs: 1500}, *cmd)
}

func TestTransition_SelectTouchUsesTouchZoom(t *testing.T) {
	s := testSettings()
	next, cmd := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{Coordinates: rupp, Input: InputTouch},
	})

	require.NotNil(t, cmd)
	assert.Equal(t, 15, next.Zoom)
}

func TestTransition_SelectFromLegendUsesLegendZoom(t *testing.T) {
	s := testSettings()
	s.LegendZoom = 14
	next, _ := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{Date: "2024-07-10", Coordinates: rupp, Input: InputTouch, FromLegend: true},
	})

	assert.Equal(t, 14, next.Zoom)
	assert.Equal(t, ModeFocused, next.Mode)
}

func TestTransition_SelectWhileFocusedRefocuses(t *testing.T) {
	s := testSettings()
	focused, _ := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{MarkerKey: "a", Coordinates: rupp, Input: InputPointer},
	})

	other := event.Coordinates{Lat: 38.05402, Lng: -84.48633}
	next, cmd := Transition(s, focused, Event{
		Kind:   EventSelect,
		Target: Target{MarkerKey: "b", Coordinates: other, Input: InputPointer},
	})

	require.NotNil(t, cmd)
	assert.Equal(t, ModeFocused, next.Mode)
	assert.Equal(t, "b", next.SelectedKey)
	assert.Equal(t, other, cmd.Center)
}

func TestTransition_ResetReturnsToOrigin(t *testing.T) {
	s := testSettings()
	focused, _ := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{MarkerKey: "a", Coordinates: rupp, Input: InputPointer},
	})

	for _, source := range []ResetSource{ResetBackground, ResetButton, ResetKeyboard} {
		next, cmd := Transition(s, focused, Event{Kind: EventReset, Source: source})

		require.NotNil(t, cmd, source)
		assert.Equal(t, ModeOverview, next.Mode)
		assert.Equal(t, s.Origin, next.Center)
		assert.Equal(t, 13, next.Zoom)
		assert.Empty(t, next.SelectedKey)
		assert.Empty(t, next.OpenPopupKey)
	}
}

func TestTransition_ResetInOverviewStillFlies(t *testing.T) {
	s := testSettings()
	next, cmd := Transition(s, InitialState(s), Event{Kind: EventReset, Source: ResetKeyboard})

	require.NotNil(t, cmd)
	assert.Equal(t, InitialState(s), next)
}

func TestTransition_ResizeCompactInOverview(t *testing.T) {
	s := testSettings()
	next, cmd := Transition(s, InitialState(s), Event{
		Kind:     EventResize,
		Viewport: Viewport{Width: 400, Height: 800},
	})

	require.NotNil(t, cmd)
	assert.Equal(t, 12, next.Zoom)
	assert.Equal(t, Viewport{Width: 400, Height: 800}, next.Viewport)

	// Back to a wide viewport restores the origin zoom.
	wide, cmd := Transition(s, next, Event{Kind: EventResize, Viewport: Viewport{Width: 1280, Height: 800}})
	require.NotNil(t, cmd)
	assert.Equal(t, 13, wide.Zoom)
}

func TestTransition_ResizeWithoutZoomChange(t *testing.T) {
	s := testSettings()
	next, cmd := Transition(s, InitialState(s), Event{
		Kind:     EventResize,
		Viewport: Viewport{Width: 1024, Height: 768},
	})

	assert.Nil(t, cmd)
	assert.Equal(t, 13, next.Zoom)
}

func TestTransition_ResizeWhileFocusedKeepsView(t *testing.T) {
	s := testSettings()
	focused, _ := Transition(s, InitialState(s), Event{
		Kind:   EventSelect,
		Target: Target{MarkerKey: "a", Coordinates: rupp, Input: InputPointer},
	})

	next, cmd := Transition(s, focused, Event{Kind: EventResize, Viewport: Viewport{Width: 320, Height: 640}})

	assert.Nil(t, cmd)
	assert.Equal(t, ModeFocused, next.Mode)
	assert.Equal(t, 16, next.Zoom)
	assert.Equal(t, 320, next.Viewport.Width)
}

func TestTransition_CompactSelectUsesTouchZoom(t *testing.T) {
	s := testSettings()
	compact, _ := Transition(s, InitialState(s), Event{Kind: EventResize, Viewport: Viewport{Width: 400}})

	next, _ := Transition(s, compact, Event{
		Kind:   EventSelect,
		Target: Target{Coordinates: rupp, Input: InputPointer},
	})
	assert.Equal(t, 15, next.Zoom)

	reset, _ := Transition(s, next, Event{Kind: EventReset, Source: ResetButton})
	assert.Equal(t, 12, reset.Zoom)
}

type recordingSink struct {
	mu    sync.Mutex
	calls []FlyTo
}

func (r *recordingSink) FlyTo(cmd FlyTo, _ AppState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestController_SelectAndReset(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(testSettings(), sink, 10*time.Millisecond)
	defer c.Close()

	c.OnSelect(Target{MarkerKey: "a", Coordinates: rupp, Input: InputPointer})
	assert.Equal(t, ModeFocused, c.State().Mode)

	c.OnReset(ResetButton)
	assert.Equal(t, ModeOverview, c.State().Mode)
	assert.Equal(t, 2, sink.count())
}

func TestController_ResizeIsDebounced(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(testSettings(), sink, 20*time.Millisecond)
	defer c.Close()

	for w := 1000; w > 300; w -= 100 {
		c.OnResize(Viewport{Width: w, Height: 600})
	}

	assert.Eventually(t, func() bool {
		return c.State().Viewport.Width == 400
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, 12, c.State().Zoom)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	fired := make(chan struct{}, 1)

	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()
	d.Trigger(func() { fired <- struct{}{} })

	select {
	case <-fired:
		t.Fatal("debounced call ran after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}
