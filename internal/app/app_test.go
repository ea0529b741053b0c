package app_test

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/leighmacdonald/lilguy/internal/app"
	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// probe records every call and can simulate work by advancing the clock.
type probe struct {
	clock   *fakeClock
	work    time.Duration
	routes  map[input.Kind]screen.Name
	events  []input.Event
	deltas  []time.Duration
	reloads int
	renders int
	quitOn  input.Kind
	session *screen.Session
	color   color.RGBA
	panics  bool
}

func (p *probe) HandleInput(evt input.Event) screen.Name {
	p.events = append(p.events, evt)

	if !evt.Pressed {
		return screen.Stay
	}

	if p.panics {
		panic("boom")
	}

	if p.session != nil && p.quitOn == evt.Kind {
		p.session.RequestQuit()
	}

	return p.routes[evt.Kind]
}

func (p *probe) Update(delta time.Duration) {
	p.deltas = append(p.deltas, delta)
	if p.clock != nil {
		p.clock.now = p.clock.now.Add(p.work)
	}
}

func (p *probe) Render(frame *image.RGBA) {
	p.renders++
	frame.SetRGBA(0, 0, p.color)
}

func (p *probe) Reload() { p.reloads++ }

func newApp(t *testing.T, screens map[screen.Name]screen.Screen, source input.Source, clock app.Clock) (*app.App, *display.Memory) {
	t.Helper()

	registry, err := screen.NewRegistry(screens)
	require.NoError(t, err)

	sink := display.NewMemory(8, 8)
	application, err := app.New(app.Options{
		Display:  sink,
		Input:    source,
		Registry: registry,
		Session:  screen.NewSession(),
		Initial:  "home",
		Clock:    clock,
	})
	require.NoError(t, err)

	return application, sink
}

func TestPace(t *testing.T) {
	period := app.FramePeriod(20)
	require.Equal(t, 50*time.Millisecond, period)
	require.Equal(t, 40*time.Millisecond, app.Pace(period, 10*time.Millisecond))
	require.Equal(t, time.Duration(0), app.Pace(period, 70*time.Millisecond))
	require.Equal(t, time.Duration(0), app.Pace(period, period))
}

func TestRunPacesFrames(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	home := &probe{clock: clock, work: 10 * time.Millisecond}
	source := input.NewScripted().Wait(2).Tap(input.Quit)

	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, clock)
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, 3, sink.Presents())
	require.Equal(t, []time.Duration{40 * time.Millisecond, 40 * time.Millisecond}, clock.sleeps)
	require.Equal(t, []time.Duration{0, 50 * time.Millisecond, 50 * time.Millisecond}, home.deltas)
}

func TestRunOverBudgetDoesNotSleep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	home := &probe{clock: clock, work: 70 * time.Millisecond}
	source := input.NewScripted().Wait(1).Tap(input.Quit)

	application, _ := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, clock)
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, []time.Duration{0}, clock.sleeps)
	require.Equal(t, []time.Duration{0, 70 * time.Millisecond}, home.deltas)
}

func TestQuitCompletesFrame(t *testing.T) {
	clock := &fakeClock{}
	home := &probe{color: color.RGBA{R: 200, A: 255}}
	source := input.NewScripted(input.Press(input.Quit))

	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, clock)
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, 1, sink.Presents())
	require.Equal(t, 1, home.renders)
	require.Empty(t, home.events, "quit is not forwarded to screens")
	require.Equal(t, color.RGBA{R: 200, A: 255}, sink.Last().RGBAAt(0, 0))
	require.Empty(t, clock.sleeps)
}

func TestContextCancelStops(t *testing.T) {
	home := &probe{}
	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home}, input.NewScripted(), &fakeClock{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.NoError(t, application.Run(ctx))
	require.Equal(t, 1, sink.Presents())
}

func TestTransitions(t *testing.T) {
	home := &probe{routes: map[input.Kind]screen.Name{input.Right: "menu", input.ButtonA: "nowhere"}}
	menu := &probe{routes: map[input.Kind]screen.Name{input.Left: "home"}}
	source := input.NewScripted().Tap(input.ButtonA, input.Right, input.Left, input.Quit)

	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home, "menu": menu}, source, &fakeClock{})
	require.Equal(t, 1, home.reloads, "initial screen is reloaded on start")
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, screen.Name("home"), application.Current())
	require.Equal(t, 2, home.reloads)
	require.Equal(t, 1, menu.reloads)
	require.Equal(t, 7, sink.Presents())
	require.Equal(t, input.Release(input.Right), menu.events[0],
		"the release after a transition goes to the new screen")
}

func TestUnknownTransitionStays(t *testing.T) {
	home := &probe{routes: map[input.Kind]screen.Name{input.ButtonA: "nowhere"}}
	source := input.NewScripted(input.Press(input.ButtonA), input.Press(input.Quit))

	application, _ := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, &fakeClock{})
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, screen.Name("home"), application.Current())
	require.Equal(t, 1, home.reloads)
	require.Equal(t, 2, home.renders)
}

func TestQuitRequestedByScreen(t *testing.T) {
	session := screen.NewSession()
	home := &probe{quitOn: input.ButtonA, session: session}

	registry, err := screen.NewRegistry(map[screen.Name]screen.Screen{"home": home})
	require.NoError(t, err)

	sink := display.NewMemory(8, 8)
	application, err := app.New(app.Options{
		Display:  sink,
		Input:    input.NewScripted(input.Press(input.ButtonA)),
		Registry: registry,
		Session:  session,
		Initial:  "home",
		Clock:    &fakeClock{},
	})
	require.NoError(t, err)
	require.NoError(t, application.Run(t.Context()))
	require.Equal(t, 1, sink.Presents())
}

func TestScreenPanicStopsLoop(t *testing.T) {
	home := &probe{panics: true}
	source := input.NewScripted().Tap(input.ButtonB).Wait(5)

	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, &fakeClock{})
	require.ErrorIs(t, application.Run(t.Context()), app.ErrScreenPanic)
	require.Zero(t, sink.Presents())
}

func TestNewValidation(t *testing.T) {
	registry, err := screen.NewRegistry(map[screen.Name]screen.Screen{"home": &probe{}})
	require.NoError(t, err)

	_, err = app.New(app.Options{
		Display:  display.NewMemory(8, 8),
		Input:    input.NewScripted(),
		Registry: registry,
		Session:  screen.NewSession(),
		Initial:  "menu",
	})
	require.ErrorIs(t, err, screen.ErrUnknownScreen)

	_, err = app.New(app.Options{Registry: registry, Initial: "home"})
	require.ErrorIs(t, err, app.ErrInvalidOptions)
}

func TestFPSCaption(t *testing.T) {
	clock := &fakeClock{}
	home := &probe{clock: clock}
	source := input.NewScripted().Wait(21).Tap(input.Quit)

	application, sink := newApp(t, map[screen.Name]screen.Screen{"home": home}, source, clock)
	require.NoError(t, application.Run(t.Context()))

	require.Equal(t, 20, application.FPS())
	require.Equal(t, "home · 20 fps", sink.LastCaption())
}
