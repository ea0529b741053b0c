// Package terminal drives the device from a terminal: key presses become
// input events and frames are drawn with half block characters.
package terminal

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/muesli/termenv"
)

const eventBuffer = 16

var ErrTerminal = errors.New("terminal program failed")

// Device is an input.Source and display.Sink backed by a bubbletea program.
// The program runs on its own goroutine; Poll and Present never wait on it.
type Device struct {
	keys    input.Map
	scale   int
	profile termenv.Profile
	back    *image.RGBA
	events  chan input.Event
	done    chan struct{}
	release *input.Kind
	program *tea.Program
	running atomic.Bool
	closed  atomic.Bool
	once    sync.Once

	// lifecycle orders Run against Close.
	lifecycle sync.Mutex

	mu      sync.Mutex
	caption string
}

// New creates a device for a width x height panel. scale shrinks the frame
// on both axes before it is drawn.
func New(width int, height int, scale int, keys input.Map) *Device {
	device := &Device{
		keys:    keys,
		scale:   max(scale, 1),
		profile: termenv.EnvColorProfile(),
		back:    image.NewRGBA(image.Rect(0, 0, width, height)),
		events:  make(chan input.Event, eventBuffer),
		done:    make(chan struct{}),
	}

	device.program = tea.NewProgram(newModel(device), tea.WithAltScreen(), tea.WithoutSignalHandler())

	return device
}

// Model returns the bubbletea model of the device.
func (d *Device) Model() tea.Model {
	return newModel(d)
}

// Run runs the terminal program until it exits or ctx is cancelled. Exiting
// the program is reported to Poll as a quit press. A device closed before Run
// never starts the program.
func (d *Device) Run(ctx context.Context) error {
	d.lifecycle.Lock()
	if d.closed.Load() {
		d.lifecycle.Unlock()
		d.finish()

		return nil
	}

	d.running.Store(true)
	d.lifecycle.Unlock()

	defer d.finish()

	go func() {
		select {
		case <-ctx.Done():
			d.program.Quit()
		case <-d.done:
		}
	}()

	if _, err := d.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Join(err, ErrTerminal)
	}

	return nil
}

func (d *Device) finish() {
	d.running.Store(false)
	d.once.Do(func() { close(d.done) })
}

// keyPressed queues the event for the kind bound to key, dropping it when
// the queue is full.
func (d *Device) keyPressed(key string) {
	kind, found := d.keys.Lookup(key)
	if !found {
		return
	}

	select {
	case d.events <- input.Press(kind):
	default:
		slog.Warn("Dropped key press", slog.String("key", key))
	}
}

// Poll returns the next key press. Terminals do not report releases, so
// every press is followed by a release on the next poll.
func (d *Device) Poll() (input.Event, bool) {
	if d.release != nil {
		kind := *d.release
		d.release = nil

		return input.Release(kind), true
	}

	select {
	case evt := <-d.events:
		d.release = &evt.Kind

		return evt, true
	default:
	}

	select {
	case <-d.done:
		return input.Press(input.Quit), true
	default:
		return input.Event{}, false
	}
}

func (d *Device) Buffer() *image.RGBA {
	return d.back
}

func (d *Device) Present(frame *image.RGBA) error {
	if d.closed.Load() {
		return display.ErrClosed
	}

	if !d.running.Load() {
		return nil
	}

	d.mu.Lock()
	caption := d.caption
	d.mu.Unlock()

	d.program.Send(frameMsg{view: Render(frame, d.scale, d.profile), caption: caption})

	return nil
}

func (d *Device) Caption(text string) {
	d.mu.Lock()
	d.caption = text
	d.mu.Unlock()
}

// Close stops the program when it is still running.
func (d *Device) Close() error {
	d.lifecycle.Lock()
	if !d.closed.CompareAndSwap(false, true) {
		d.lifecycle.Unlock()

		return nil
	}

	running := d.running.Load()
	d.lifecycle.Unlock()

	if running {
		d.program.Quit()
	}

	return nil
}
