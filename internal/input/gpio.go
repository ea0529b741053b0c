package input

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"periph.io/x/conn/v3/gpio"
)

var (
	errPinRead    = errors.New("failed to read pin")
	errPinSetup   = errors.New("failed to set up pin")
	errPinMissing = errors.New("pin not found")
	errNoPins     = errors.New("no pins bound")
)

// PinReader reports the current level of a GPIO line. true means high.
type PinReader interface {
	Read(pin int) (bool, error)
}

// PinBinding attaches a BCM pin number to a control.
type PinBinding struct {
	Pin  int
	Kind Kind
}

// WaveshareHAT is the wiring of the Waveshare 1.44" LCD HAT with the panel
// mounted rotated 90°. Key 1 and the joystick press both act as A.
var WaveshareHAT = []PinBinding{
	{Pin: 6, Kind: Left},
	{Pin: 19, Kind: Right},
	{Pin: 5, Kind: Down},
	{Pin: 26, Kind: Up},
	{Pin: 13, Kind: ButtonA},
	{Pin: 21, Kind: ButtonA},
	{Pin: 20, Kind: ButtonB},
	{Pin: 16, Kind: ButtonC},
}

// GPIO turns level changes on active-low, pulled-up button lines into
// events. Pins are scanned in binding order and the first edge found is
// reported; other edges stay pending for later polls.
type GPIO struct {
	pins     PinReader
	bindings []PinBinding
	pressed  map[int]bool
}

// NewGPIO reads the initial level of every pin so buttons held during
// startup do not produce a phantom edge.
func NewGPIO(pins PinReader, bindings []PinBinding) (*GPIO, error) {
	if len(bindings) == 0 {
		return nil, errNoPins
	}

	source := &GPIO{
		pins:     pins,
		bindings: bindings,
		pressed:  make(map[int]bool, len(bindings)),
	}

	for _, binding := range bindings {
		high, err := pins.Read(binding.Pin)
		if err != nil {
			return nil, errors.Join(err, fmt.Errorf("%w: %d", errPinRead, binding.Pin))
		}

		source.pressed[binding.Pin] = !high
	}

	return source, nil
}

func (g *GPIO) Poll() (Event, bool) {
	for _, binding := range g.bindings {
		high, err := g.pins.Read(binding.Pin)
		if err != nil {
			slog.Error("Failed to read gpio pin", slog.Int("pin", binding.Pin), slog.String("error", err.Error()))

			continue
		}

		pressed := !high
		if pressed == g.pressed[binding.Pin] {
			continue
		}

		g.pressed[binding.Pin] = pressed

		return Event{Kind: binding.Kind, Pressed: pressed}, true
	}

	return Event{}, false
}

// PinLookup resolves a BCM pin name such as "GPIO6". gpioreg.ByName is the
// lookup used on the device once periph host drivers are loaded.
type PinLookup func(name string) gpio.PinIO

// HostPins reads pins through periph.io. Every bound pin is set up as an
// input with the pull-up enabled, so released buttons read high.
type HostPins struct {
	pins map[int]gpio.PinIO
}

func NewHostPins(lookup PinLookup, bindings []PinBinding) (*HostPins, error) {
	host := &HostPins{pins: make(map[int]gpio.PinIO, len(bindings))}

	for _, binding := range bindings {
		if _, found := host.pins[binding.Pin]; found {
			continue
		}

		name := "GPIO" + strconv.Itoa(binding.Pin)

		pin := lookup(name)
		if pin == nil {
			return nil, fmt.Errorf("%w: %s", errPinMissing, name)
		}

		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, errors.Join(err, fmt.Errorf("%w: %s", errPinSetup, name))
		}

		host.pins[binding.Pin] = pin
	}

	return host, nil
}

func (h *HostPins) Read(pin int) (bool, error) {
	line, found := h.pins[pin]
	if !found {
		return false, fmt.Errorf("%w: %d", errPinRead, pin)
	}

	return line.Read() == gpio.High, nil
}
