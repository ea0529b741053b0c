package screens

import (
	"errors"
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

const (
	maxNameLength = 20
	nameVisible   = 6
	valueX        = 52
)

type field int

const (
	fieldName field = iota
	fieldFreq
	fieldPoints
	fieldType
	fieldActive
	fieldReminder
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Freq", "Points", "Type", "Active", "Remind"}

type editMode int

const (
	modeBrowse editMode = iota
	modeName
	modeFreqCount
	modeFreqPeriod
	modePoints
	modeButtons
)

var errNameRequired = errors.New("name required")

// EditHabitScreen edits the draft handed over by the habit list, or a new
// habit when none was.
type EditHabitScreen struct {
	deps    Deps
	draft   HabitDraft
	field   field
	mode    editMode
	save    bool
	errMsg  string
	name    *widget.TextInput
	marquee *widget.Marquee
}

func NewEditHabitScreen(deps Deps) *EditHabitScreen {
	return &EditHabitScreen{
		deps:    deps,
		draft:   NewDraft(),
		name:    widget.NewTextInput(maxNameLength, "Name:"),
		marquee: widget.NewMarquee(nameVisible),
	}
}

func (s *EditHabitScreen) Links() []screen.Name {
	return []screen.Name{ViewHabits}
}

// Reload starts over from the handed over draft.
func (s *EditHabitScreen) Reload() {
	draft, found := screen.Receive[HabitDraft](s.deps.Session)
	if !found {
		draft = NewDraft()
	}

	s.draft = draft
	s.field = fieldName
	s.mode = modeBrowse
	s.save = true
	s.errMsg = ""
	s.name.Deactivate()
	s.marquee.Reset()
}

func (s *EditHabitScreen) Draft() HabitDraft {
	return s.draft
}

func (s *EditHabitScreen) Error() string {
	return s.errMsg
}

// Editing reports whether a field or the button row has the input instead of
// the field list.
func (s *EditHabitScreen) Editing() bool {
	return s.mode != modeBrowse
}

func (s *EditHabitScreen) HandleInput(evt input.Event) screen.Name {
	if s.mode == modeName {
		if value, done := s.name.HandleInput(evt); done {
			s.draft.Name = value
			s.mode = modeBrowse
			s.marquee.Reset()
		}

		return screen.Stay
	}

	if !evt.Pressed {
		return screen.Stay
	}

	switch s.mode {
	case modeBrowse:
		return s.browse(evt.Kind)
	case modeFreqCount, modeFreqPeriod:
		s.editFreq(evt.Kind)
	case modePoints:
		s.editPoints(evt.Kind)
	case modeButtons:
		return s.buttons(evt.Kind)
	case modeName:
	}

	return screen.Stay
}

func (s *EditHabitScreen) browse(kind input.Kind) screen.Name {
	switch kind {
	case input.Up:
		s.field = widget.Wrap(s.field-1, fieldCount)
	case input.Down:
		if s.field == fieldCount-1 {
			s.mode = modeButtons
			s.save = true

			break
		}

		s.field++
	case input.ButtonA:
		s.activate()
	case input.ButtonB:
		return ViewHabits
	case input.Left, input.Right, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *EditHabitScreen) activate() {
	s.errMsg = ""

	switch s.field {
	case fieldName:
		s.name.Activate(s.draft.Name)
		s.mode = modeName
	case fieldFreq:
		s.mode = modeFreqCount
	case fieldPoints:
		s.mode = modePoints
	case fieldType:
		s.draft.Good = !s.draft.Good
	case fieldActive:
		s.draft.Active = !s.draft.Active
	case fieldReminder:
		s.draft.Reminder = !s.draft.Reminder
	case fieldCount:
	}
}

// editFreq picks the count first, then the period. Up raises values.
func (s *EditHabitScreen) editFreq(kind input.Kind) {
	switch kind {
	case input.Up, input.Down:
		if s.mode == modeFreqCount {
			s.draft.Count = widget.Clamp(s.draft.Count-kind.Step(), minCount, maxCount)
		} else {
			s.draft.Period = nextPeriod(s.draft.Period)
		}
	case input.ButtonA:
		if s.mode == modeFreqCount {
			s.mode = modeFreqPeriod
		} else {
			s.mode = modeBrowse
		}
	case input.ButtonB:
		s.mode = modeBrowse
	case input.Left, input.Right, input.ButtonC, input.Quit:
	}
}

func nextPeriod(period store.Period) store.Period {
	if period == store.Week {
		return store.Day
	}

	return store.Week
}

func (s *EditHabitScreen) editPoints(kind input.Kind) {
	switch kind {
	case input.Up, input.Down:
		s.draft.Points = widget.Clamp(s.draft.Points-kind.Step(), minPoints, maxPoints)
	case input.ButtonA, input.ButtonB:
		s.mode = modeBrowse
	case input.Left, input.Right, input.ButtonC, input.Quit:
	}
}

func (s *EditHabitScreen) buttons(kind input.Kind) screen.Name {
	switch kind {
	case input.Left:
		s.save = true
	case input.Right:
		s.save = false
	case input.Up:
		s.mode = modeBrowse
		s.field = fieldCount - 1
	case input.ButtonA:
		if !s.save {
			return ViewHabits
		}

		if err := s.store(); err != nil {
			slog.Error("Failed to save habit", slog.String("error", err.Error()))

			if errors.Is(err, errNameRequired) {
				s.errMsg = "Name required"
			} else {
				s.errMsg = "Save failed"
			}

			return screen.Stay
		}

		return ViewHabits
	case input.ButtonB:
		return ViewHabits
	case input.Down, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *EditHabitScreen) store() error {
	habit := s.draft.Habit()
	if habit.Name == "" {
		return errNameRequired
	}

	if s.deps.Store == nil {
		return nil
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	if habit.ID == 0 {
		habitID, err := s.deps.Store.CreateHabit(ctx, habit)
		if err != nil {
			return err
		}

		slog.Info("Created habit", slog.String("name", habit.Name), slog.Int64("habit_id", habitID))

		return nil
	}

	if err := s.deps.Store.UpdateHabit(ctx, habit); err != nil {
		return err
	}

	slog.Info("Updated habit", slog.String("name", habit.Name), slog.Int64("habit_id", habit.ID))

	return nil
}

func (s *EditHabitScreen) Update(delta time.Duration) {
	s.name.Update(delta)

	if len([]rune(s.draft.Name)) > nameVisible {
		s.marquee.Update(delta, s.draft.Name)
	}
}

func (s *EditHabitScreen) Render(frame *image.RGBA) {
	blank(frame)

	title := "Edit Habit"
	if s.draft.ID == 0 {
		title = "New Habit"
	}

	titleBar(frame, title)

	for i := range fieldCount {
		selected := s.mode != modeButtons && i == s.field
		y := listTop + int(i)*rowHeight

		if selected {
			sprite.Rect(frame, image.Rect(0, y-1, sprite.Width, y+rowHeight-1), sprite.SelectGray)
			sprite.Paste(frame, s.deps.Art.Pointer(), image.Pt(3, y+2))
		}

		sprite.Text(frame, 12, y, fieldLabels[i], sprite.TextDark)
		s.renderValue(frame, i, y)
	}

	bottom := listTop + int(fieldCount)*rowHeight
	if s.errMsg != "" {
		sprite.CenteredText(frame, frame.Bounds(), bottom, s.errMsg, sprite.Red)
	}

	buttonY := sprite.Height - rowHeight - 3
	active := s.mode == modeButtons
	widget.Button(frame, image.Rect(6, buttonY, 60, buttonY+rowHeight+2), "Save", active && s.save)
	widget.Button(frame, image.Rect(68, buttonY, 122, buttonY+rowHeight+2), "Cancel", active && !s.save)

	s.name.Render(frame, image.Rect(4, 40, sprite.Width-4, 90))
}

func (s *EditHabitScreen) renderValue(frame *image.RGBA, f field, y int) {
	switch f {
	case fieldName:
		name := s.draft.Name
		if name == "" {
			sprite.Text(frame, valueX, y, "...", sprite.TextMuted)

			return
		}

		sprite.Text(frame, valueX, y, s.marquee.View(name), sprite.TextDark)
	case fieldFreq:
		count := strconv.Itoa(s.draft.Count)
		period := string(s.draft.Period)

		switch s.mode {
		case modeFreqCount:
			count = "<" + count + ">"
		case modeFreqPeriod:
			period = "<" + period + ">"
		case modeBrowse, modeName, modePoints, modeButtons:
		}

		sprite.Text(frame, valueX, y, count+"/"+period, sprite.TextDark)
	case fieldPoints:
		value := strconv.Itoa(s.draft.Points)
		if s.mode == modePoints {
			value = "<" + value + ">"
		}

		sprite.Text(frame, valueX, y, value, sprite.TextDark)
	case fieldType:
		label := "Good"
		if !s.draft.Good {
			label = "Bad"
		}

		sprite.Text(frame, valueX, y, label, sprite.TextDark)
	case fieldActive:
		sprite.Paste(frame, s.deps.Art.Checkbox(s.draft.Active, f == s.field), image.Pt(valueX, y+2))
	case fieldReminder:
		sprite.Paste(frame, s.deps.Art.Checkbox(s.draft.Reminder, f == s.field), image.Pt(valueX, y+2))
	case fieldCount:
	}
}
