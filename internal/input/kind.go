// Package input defines the fixed control vocabulary of the device and the
// sources that produce it.
package input

import "fmt"

// Kind is one of the physical controls: a 4-way joystick, three buttons and
// a quit signal coming from the host.
type Kind int

const (
	Up Kind = iota
	Down
	Left
	Right
	ButtonA
	ButtonB
	ButtonC
	Quit
)

var kindNames = [...]string{"up", "down", "left", "right", "a", "b", "c", "quit"}

func (k Kind) String() string {
	if k < Up || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return kindNames[k]
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Up, Down, Left, Right, ButtonA, ButtonB, ButtonC, Quit}
}

// Direction reports whether the kind is one of the joystick directions.
func (k Kind) Direction() bool {
	return k >= Up && k <= Right
}

// Step converts a direction into a list cursor offset. Up and Left move
// towards the start.
func (k Kind) Step() int {
	switch k {
	case Up, Left:
		return -1
	case Down, Right:
		return 1
	default:
		return 0
	}
}

// Event is a single edge of a control. Pressed is false on release.
type Event struct {
	Kind    Kind
	Pressed bool
}

func Press(kind Kind) Event {
	return Event{Kind: kind, Pressed: true}
}

func Release(kind Kind) Event {
	return Event{Kind: kind, Pressed: false}
}

func (e Event) String() string {
	if e.Pressed {
		return e.Kind.String() + "+"
	}

	return e.Kind.String() + "-"
}

// Source produces at most one event per Poll and never blocks. ok is false
// when nothing happened since the last call.
type Source interface {
	Poll() (evt Event, ok bool)
}
