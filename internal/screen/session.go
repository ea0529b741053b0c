package screen

// Session is shared by the screens of one application. It carries the
// handoff slot used to pass a value to the next screen and the quit request.
type Session struct {
	handoff any
	pending bool
	quit    bool
}

func NewSession() *Session {
	return &Session{}
}

// Handoff stores value for the screen being transitioned to. It replaces
// any value not yet received.
func Handoff[T any](session *Session, value T) {
	session.handoff = value
	session.pending = true
}

// ClearHandoff records an explicit "nothing selected".
func ClearHandoff(session *Session) {
	session.handoff = nil
	session.pending = true
}

// Receive takes the pending value. ok is false when nothing of type T was
// handed off. The slot is empty afterwards either way.
func Receive[T any](session *Session) (T, bool) {
	value, ok := session.handoff.(T)
	ok = ok && session.pending
	session.handoff = nil
	session.pending = false

	if !ok {
		var zero T

		return zero, false
	}

	return value, true
}

// Pending reports whether a handoff was written and not yet received.
func (s *Session) Pending() bool {
	return s.pending
}

// Expire discards a value nobody received. The application calls it once
// the target screen has reloaded.
func (s *Session) Expire() {
	s.handoff = nil
	s.pending = false
}

// RequestQuit asks the application to stop after the current frame.
func (s *Session) RequestQuit() {
	s.quit = true
}

func (s *Session) QuitRequested() bool {
	return s.quit
}
