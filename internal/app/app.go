// Package app runs the frame loop: it polls input, routes it to the active
// screen, resolves screen transitions and paces rendering to a fixed rate.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
)

const DefaultFPS = 20

var (
	ErrInvalidOptions = errors.New("invalid application options")
	ErrScreenPanic    = errors.New("screen panicked")
	ErrPresent        = errors.New("failed to present frame")
)

// Clock abstracts wall time so the loop pacing can be tested.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

type Options struct {
	Display  display.Sink
	Input    input.Source
	Registry *screen.Registry
	Session  *screen.Session
	Initial  screen.Name
	FPS      int
	// Clock defaults to the system clock.
	Clock Clock
}

// App is the single owner of the active screen. Everything it drives runs on
// the goroutine calling Run.
type App struct {
	display  display.Sink
	input    input.Source
	registry *screen.Registry
	session  *screen.Session
	clock    Clock
	period   time.Duration

	current     screen.Screen
	currentName screen.Name
	fps         fpsCounter
}

// New validates the options and activates the initial screen, calling its
// reload hook once.
func New(opts Options) (*App, error) {
	if opts.Display == nil || opts.Input == nil || opts.Registry == nil || opts.Session == nil {
		return nil, fmt.Errorf("%w: display, input, registry and session are required", ErrInvalidOptions)
	}

	if err := opts.Registry.Validate(); err != nil {
		return nil, errors.Join(err, ErrInvalidOptions)
	}

	initial, found := opts.Registry.Get(opts.Initial)
	if !found {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidOptions, screen.ErrUnknownScreen, opts.Initial)
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}

	application := &App{
		display:     opts.Display,
		input:       opts.Input,
		registry:    opts.Registry,
		session:     opts.Session,
		clock:       clock,
		period:      FramePeriod(fps),
		current:     initial,
		currentName: opts.Initial,
	}

	if reloader, ok := initial.(screen.Reloader); ok {
		reloader.Reload()
	}

	opts.Session.Expire()

	return application, nil
}

// Current returns the name of the active screen.
func (a *App) Current() screen.Name {
	return a.currentName
}

// FPS returns the frame count of the last complete one second window.
func (a *App) FPS() int {
	return a.fps.current
}

// Run drives frames until a quit event, a quit request from a screen or
// context cancellation. The frame in progress is always completed and
// presented before returning. A panic in a screen stops the loop and is
// returned as ErrScreenPanic.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("Screen panicked", slog.String("screen", string(a.currentName)),
				slog.Any("panic", recovered))
			err = fmt.Errorf("%w: %s: %v", ErrScreenPanic, a.currentName, recovered)
		}
	}()

	slog.Info("Starting frame loop", slog.String("screen", string(a.currentName)),
		slog.Duration("period", a.period))

	last := a.clock.Now()

	for {
		start := a.clock.Now()
		delta := start.Sub(last)
		last = start

		running, errFrame := a.frame(ctx, delta)
		if errFrame != nil {
			return errFrame
		}

		if !running {
			slog.Info("Frame loop stopped", slog.String("screen", string(a.currentName)))

			return nil
		}

		a.clock.Sleep(Pace(a.period, a.clock.Now().Sub(start)))
	}
}

// frame runs one iteration and reports whether the loop should continue.
func (a *App) frame(ctx context.Context, delta time.Duration) (bool, error) {
	running := ctx.Err() == nil

	if evt, ok := a.input.Poll(); ok {
		if evt.Kind == input.Quit {
			if evt.Pressed {
				running = false
			}
		} else {
			a.dispatch(evt)
		}
	}

	if a.session.QuitRequested() {
		running = false
	}

	a.current.Update(delta)

	frame := a.display.Buffer()
	a.current.Render(frame)

	if err := a.display.Present(frame); err != nil {
		return false, errors.Join(err, ErrPresent)
	}

	if a.fps.tick(delta) {
		slog.Debug("Frame rate", slog.Int("fps", a.fps.current), slog.String("screen", string(a.currentName)))

		if captioner, ok := a.display.(display.Captioner); ok {
			captioner.Caption(fmt.Sprintf("%s · %d fps", a.currentName, a.fps.current))
		}
	}

	return running, nil
}

// dispatch forwards the event to the active screen and applies the
// transition it asks for, if any.
func (a *App) dispatch(evt input.Event) {
	target := a.current.HandleInput(evt)
	if target == screen.Stay {
		return
	}

	next, found := a.registry.Get(target)
	if !found {
		slog.Warn("Ignoring transition to unknown screen",
			slog.String("from", string(a.currentName)), slog.String("to", string(target)))
		a.session.Expire()

		return
	}

	if reloader, ok := next.(screen.Reloader); ok {
		reloader.Reload()
	}

	a.session.Expire()

	slog.Debug("Switched screen", slog.String("from", string(a.currentName)), slog.String("to", string(target)))

	a.current = next
	a.currentName = target
}

// FramePeriod is the target duration of one frame.
func FramePeriod(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}

// Pace returns how long to sleep after a frame that took work. A frame over
// budget gets no sleep and no catch-up.
func Pace(period time.Duration, work time.Duration) time.Duration {
	if work >= period {
		return 0
	}

	return period - work
}

type fpsCounter struct {
	frames  int
	elapsed time.Duration
	current int
}

// tick counts a frame and reports whether a one second window just closed.
func (f *fpsCounter) tick(delta time.Duration) bool {
	// The first frame has no duration.
	if delta <= 0 {
		return false
	}

	f.frames++
	f.elapsed += delta

	if f.elapsed < time.Second {
		return false
	}

	f.current = f.frames
	f.frames = 0
	f.elapsed = 0

	return true
}
