package input

type scriptStep struct {
	event Event
	idle  bool
}

// Scripted replays a fixed sequence of events, one per poll. Idle steps
// produce an empty poll so a script can leave frames between inputs.
type Scripted struct {
	steps []scriptStep
	pos   int
}

func NewScripted(events ...Event) *Scripted {
	script := &Scripted{}
	for _, evt := range events {
		script.steps = append(script.steps, scriptStep{event: evt})
	}

	return script
}

// Tap appends a press followed by a release of each kind.
func (s *Scripted) Tap(kinds ...Kind) *Scripted {
	for _, kind := range kinds {
		s.steps = append(s.steps, scriptStep{event: Press(kind)}, scriptStep{event: Release(kind)})
	}

	return s
}

// Wait appends frames idle polls.
func (s *Scripted) Wait(frames int) *Scripted {
	for range frames {
		s.steps = append(s.steps, scriptStep{idle: true})
	}

	return s
}

func (s *Scripted) Poll() (Event, bool) {
	if s.pos >= len(s.steps) {
		return Event{}, false
	}

	step := s.steps[s.pos]
	s.pos++

	if step.idle {
		return Event{}, false
	}

	return step.event, true
}

// Remaining is the number of steps not yet replayed.
func (s *Scripted) Remaining() int {
	return len(s.steps) - s.pos
}

// Demo is the script used by the --demo flag: a short tour of the screens
// ending with a quit.
func Demo() *Scripted {
	const pause = 20

	return NewScripted().
		Wait(pause).
		Tap(ButtonB).Wait(pause * 2).Tap(ButtonB).
		Tap(ButtonC).Wait(pause).
		Tap(Right).Wait(pause).
		Tap(Down).Wait(pause / 2).
		Tap(ButtonA).Wait(pause).
		Tap(Down, Up).Wait(pause).
		Tap(Left).Wait(pause).
		Tap(Down, Down).Wait(pause / 2).
		Tap(ButtonA).Wait(pause).
		Tap(Down, Down).Wait(pause / 2).
		Tap(ButtonA).Wait(pause).
		Tap(Down, Down, Down).Wait(pause).
		Tap(Left).Wait(pause / 2).
		Tap(Left).Wait(pause / 2).
		Tap(Left).Wait(pause * 2).
		Tap(Quit)
}
