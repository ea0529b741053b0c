package screens

import (
	"image"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/update"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

type updateState int

const (
	updateChecking updateState = iota
	updateDone
)

// UpdateScreen checks for a new version on entry. The check blocks the frame
// it runs in, so it waits until the "checking" frame has been shown.
type UpdateScreen struct {
	deps        Deps
	state       updateState
	result      update.Result
	ok          bool
	shown       bool
	lastChecked time.Time
}

func NewUpdateScreen(deps Deps) *UpdateScreen {
	return &UpdateScreen{deps: deps, ok: true}
}

func (s *UpdateScreen) Links() []screen.Name {
	return []screen.Name{Settings}
}

func (s *UpdateScreen) Reload() {
	s.state = updateChecking
	s.result = update.Result{}
	s.ok = true
	s.shown = false
}

func (s *UpdateScreen) Result() (update.Result, bool) {
	return s.result, s.state == updateDone
}

// Lines is the message as drawn, wrapped to the screen width.
func (s *UpdateScreen) Lines() []string {
	message := "Checking for\nupdates..."
	if s.state == updateDone {
		message = s.result.Message
	}

	return sprite.Wrap(message, sprite.Width-8)
}

func (s *UpdateScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	if s.state != updateDone {
		if evt.Kind == input.ButtonB || evt.Kind == input.Left {
			return Settings
		}

		return screen.Stay
	}

	switch evt.Kind {
	case input.Left:
		s.ok = true
	case input.Right:
		s.ok = false
	case input.ButtonA:
		if s.ok && s.result.Updated {
			slog.Info("Restarting for update", slog.Int("commits", s.result.Behind))
			s.deps.Session.RequestQuit()

			return screen.Stay
		}

		return Settings
	case input.ButtonB:
		return Settings
	case input.Up, input.Down, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *UpdateScreen) Update(delta time.Duration) {
	if s.state != updateChecking || !s.shown || delta <= 0 {
		return
	}

	s.check()
}

func (s *UpdateScreen) check() {
	defer func() {
		s.state = updateDone
		s.lastChecked = time.Now()
	}()

	if s.deps.Updater == nil {
		s.result = update.Result{Message: "Updates are\nnot configured"}

		return
	}

	result, err := s.deps.Updater.Check(s.deps.context())
	if err != nil {
		slog.Error("Update check failed", slog.String("error", err.Error()))
	}

	s.result = result
}

func (s *UpdateScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, "Update")

	for i, line := range s.Lines() {
		sprite.CenteredText(frame, frame.Bounds(), listTop+rowHeight+i*rowHeight, line, sprite.TextDark)
	}

	if s.state == updateChecking {
		s.shown = true

		if !s.lastChecked.IsZero() {
			sprite.CenteredText(frame, frame.Bounds(), listTop+4*rowHeight,
				"last "+humanize.Time(s.lastChecked), sprite.TextMuted)
		}

		return
	}

	buttonY := sprite.Height - rowHeight - 6
	widget.Button(frame, image.Rect(10, buttonY, 60, buttonY+rowHeight+2), "OK", s.ok)
	widget.Button(frame, image.Rect(68, buttonY, 118, buttonY+rowHeight+2), "Cancel", !s.ok)
}
