package screens

import (
	"image"
	"log/slog"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

const (
	newHabit = -1
	// nameChars is how much of a habit name fits beside its checkbox.
	nameChars = 12
)

// ViewHabitsScreen lists every habit. The first row creates a new one.
type ViewHabitsScreen struct {
	deps     Deps
	habits   []store.Habit
	cursor   int
	offset   int
	marquee  *widget.Marquee
	confirm  *widget.Confirm
	deleting bool
}

func NewViewHabitsScreen(deps Deps) *ViewHabitsScreen {
	return &ViewHabitsScreen{
		deps:    deps,
		cursor:  newHabit,
		marquee: widget.NewMarquee(nameChars),
		confirm: widget.NewConfirm(""),
	}
}

func (s *ViewHabitsScreen) Links() []screen.Name {
	return []screen.Name{EditHabit, Settings}
}

func (s *ViewHabitsScreen) Reload() {
	s.deleting = false
	s.load()
	s.marquee.Reset()
}

func (s *ViewHabitsScreen) load() {
	s.habits = nil

	if s.deps.Store != nil {
		ctx, cancel := s.deps.withTimeout()
		defer cancel()

		habits, err := s.deps.Store.Habits(ctx, false)
		if err != nil {
			slog.Error("Failed to load habits", slog.String("error", err.Error()))
		}

		s.habits = habits
	}

	s.cursor = widget.Clamp(s.cursor, newHabit, len(s.habits)-1)
	s.offset = widget.Scroll(s.offset, s.cursor+1, visibleRows, len(s.habits)+1)
}

func (s *ViewHabitsScreen) Habits() []store.Habit {
	return s.habits
}

// Cursor is the selected habit index, -1 being the new habit button.
func (s *ViewHabitsScreen) Cursor() int {
	return s.cursor
}

func (s *ViewHabitsScreen) Deleting() bool {
	return s.deleting
}

func (s *ViewHabitsScreen) HandleInput(evt input.Event) screen.Name {
	if s.deleting {
		s.handleConfirm(evt)

		return screen.Stay
	}

	if !evt.Pressed {
		return screen.Stay
	}

	switch evt.Kind {
	case input.Up, input.Down:
		s.cursor = widget.Wrap(s.cursor+1+evt.Kind.Step(), len(s.habits)+1) - 1
		s.offset = widget.Scroll(s.offset, s.cursor+1, visibleRows, len(s.habits)+1)
		s.marquee.Reset()
	case input.ButtonA:
		if s.cursor == newHabit {
			screen.ClearHandoff(s.deps.Session)
		} else {
			screen.Handoff(s.deps.Session, DraftFromHabit(s.habits[s.cursor]))
		}

		return EditHabit
	case input.ButtonC:
		if s.cursor != newHabit {
			s.confirm.Reset("Delete " + sprite.Truncate(s.habits[s.cursor].Name, nameChars) + "?")
			s.deleting = true
		}
	case input.Left:
		return Settings
	case input.Right, input.ButtonB, input.Quit:
	}

	return screen.Stay
}

func (s *ViewHabitsScreen) handleConfirm(evt input.Event) {
	switch s.confirm.HandleInput(evt) {
	case widget.Confirmed:
		s.deleting = false
		s.delete(s.habits[s.cursor])
	case widget.Cancelled:
		s.deleting = false
	case widget.Undecided:
	}
}

func (s *ViewHabitsScreen) delete(habit store.Habit) {
	if s.deps.Store == nil {
		return
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	if err := s.deps.Store.DeleteHabit(ctx, habit.ID); err != nil {
		slog.Error("Failed to delete habit", slog.String("error", err.Error()), slog.Int64("habit_id", habit.ID))

		return
	}

	slog.Info("Deleted habit", slog.String("name", habit.Name))
	s.load()
}

func (s *ViewHabitsScreen) Update(delta time.Duration) {
	if s.cursor >= 0 && s.cursor < len(s.habits) {
		s.marquee.Update(delta, s.habits[s.cursor].Name)
	}
}

func (s *ViewHabitsScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, "Habits")

	for row := range visibleRows {
		index := s.offset + row - 1
		if index >= len(s.habits) {
			break
		}

		selected := index == s.cursor
		if index == newHabit {
			y := listTop + row*rowHeight
			widget.Button(frame, image.Rect(12, y-1, sprite.Width-12, y+rowHeight), "NEW HABIT", selected)

			continue
		}

		habit := s.habits[index]
		name := sprite.Truncate(habit.Name, nameChars)
		if selected {
			name = s.marquee.View(habit.Name)
		}

		listRow(frame, s.deps.Art, row, name, selected, s.deps.Art.Checkbox(habit.Active, selected))
	}

	hint(frame, "A:edit C:del <:back")

	if s.deleting {
		s.confirm.Render(frame, image.Rect(8, 30, sprite.Width-8, 98))
	}
}
