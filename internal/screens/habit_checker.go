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
	checkDays     = 3
	checkNameLen  = 8
	checkboxX     = 74
	checkboxGap   = 16
	checkerHeader = listTop
	checkerTop    = listTop + rowHeight
	checkerRows   = visibleRows - 1
)

var dayLetters = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "Th",
	time.Friday:    "F",
	time.Saturday:  "S",
	time.Sunday:    "Su",
}

type checkRow struct {
	habit  store.Habit
	checks [checkDays]bool
}

// HabitCheckerScreen is a grid of the active habits over the last three
// days, today being the last column.
type HabitCheckerScreen struct {
	deps     Deps
	rows     []checkRow
	days     [checkDays]time.Time
	cursor   int
	day      int
	offset   int
	checking bool
	marquee  *widget.Marquee
}

func NewHabitCheckerScreen(deps Deps) *HabitCheckerScreen {
	return &HabitCheckerScreen{
		deps:    deps,
		day:     checkDays - 1,
		marquee: widget.NewMarquee(checkNameLen),
	}
}

func (s *HabitCheckerScreen) Links() []screen.Name {
	return []screen.Name{Menu}
}

func (s *HabitCheckerScreen) Reload() {
	s.checking = false
	s.day = checkDays - 1
	s.marquee.Reset()

	today := s.deps.today()
	for i := range checkDays {
		s.days[i] = today.AddDate(0, 0, i-(checkDays-1))
	}

	s.load()

	s.cursor = widget.Clamp(s.cursor, 0, max(len(s.rows)-1, 0))
	s.offset = widget.Scroll(s.offset, s.cursor, checkerRows, len(s.rows))
}

func (s *HabitCheckerScreen) load() {
	s.rows = nil

	if s.deps.Store == nil {
		return
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	habits, err := s.deps.Store.Habits(ctx, true)
	if err != nil {
		slog.Error("Failed to load habits", slog.String("error", err.Error()))

		return
	}

	for _, habit := range habits {
		row := checkRow{habit: habit}

		logs, errLogs := s.deps.Store.Logs(ctx, habit.ID, s.days[0], s.days[checkDays-1])
		if errLogs != nil {
			slog.Error("Failed to load habit logs", slog.String("error", errLogs.Error()),
				slog.Int64("habit_id", habit.ID))
		}

		for _, entry := range logs {
			for i, day := range s.days {
				if store.FormatDate(entry.Date) == store.FormatDate(day) {
					row.checks[i] = entry.Completed
				}
			}
		}

		s.rows = append(s.rows, row)
	}
}

// Checked reports the check mark of a habit row on one of the three days.
func (s *HabitCheckerScreen) Checked(row int, day int) bool {
	return s.rows[row].checks[day]
}

func (s *HabitCheckerScreen) Rows() int {
	return len(s.rows)
}

func (s *HabitCheckerScreen) Cursor() (int, int) {
	return s.cursor, s.day
}

func (s *HabitCheckerScreen) Checking() bool {
	return s.checking
}

func (s *HabitCheckerScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	if s.checking {
		s.handleChecking(evt.Kind)

		return screen.Stay
	}

	switch evt.Kind {
	case input.Up, input.Down:
		s.cursor = widget.Wrap(s.cursor+evt.Kind.Step(), len(s.rows))
		s.offset = widget.Scroll(s.offset, s.cursor, checkerRows, len(s.rows))
		s.marquee.Reset()
	case input.ButtonA:
		if len(s.rows) > 0 {
			s.checking = true
		}
	case input.Left:
		return Menu
	case input.Right, input.ButtonB, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *HabitCheckerScreen) handleChecking(kind input.Kind) {
	switch kind {
	case input.Left, input.Right:
		s.day = widget.Wrap(s.day+kind.Step(), checkDays)
	case input.ButtonA:
		s.toggle(s.cursor, s.day)
	case input.ButtonB:
		s.checking = false
	case input.Up, input.Down, input.ButtonC, input.Quit:
	}
}

func (s *HabitCheckerScreen) toggle(rowIndex int, day int) {
	row := &s.rows[rowIndex]
	checked := !row.checks[day]

	points := 0
	quantity := 0

	if checked {
		points = row.habit.PointsPer
		quantity = 1
	}

	if s.deps.Store == nil {
		row.checks[day] = checked

		return
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	err := s.deps.Store.LogCompletion(ctx, store.HabitLog{
		HabitID:      row.habit.ID,
		Date:         s.days[day],
		Completed:    checked,
		Quantity:     quantity,
		PointsEarned: points,
		LoggedAt:     time.Now(),
	})
	if err != nil {
		slog.Error("Failed to log habit", slog.String("error", err.Error()), slog.Int64("habit_id", row.habit.ID))

		return
	}

	row.checks[day] = checked

	if !checked || s.deps.Pets == nil {
		return
	}

	state, errFeed := s.deps.Pets.Feed(ctx, points)
	if errFeed != nil {
		slog.Error("Failed to feed pet", slog.String("error", errFeed.Error()))

		return
	}

	slog.Debug("Fed pet", slog.Int("points", points), slog.Int("hunger", state.Hunger))
}

func (s *HabitCheckerScreen) Update(delta time.Duration) {
	if s.cursor < len(s.rows) {
		s.marquee.Update(delta, s.rows[s.cursor].habit.Name)
	}
}

func (s *HabitCheckerScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, "Habits")

	if len(s.rows) == 0 {
		sprite.CenteredText(frame, frame.Bounds(), checkerTop, "No habits yet", sprite.TextMuted)
		hint(frame, "<:back")

		return
	}

	for i, day := range s.days {
		letter := dayLetters[day.Weekday()]
		x := checkboxX + i*checkboxGap + (9-sprite.TextWidth(letter))/2
		sprite.Text(frame, x, checkerHeader, letter, sprite.TextMuted)
	}

	for line := range checkerRows {
		index := s.offset + line
		if index >= len(s.rows) {
			break
		}

		row := s.rows[index]
		y := checkerTop + line*rowHeight
		selected := index == s.cursor

		name := sprite.Truncate(row.habit.Name, checkNameLen)
		if selected {
			sprite.Rect(frame, image.Rect(0, y-1, checkboxX-2, y+rowHeight-1), sprite.SelectGray)
			name = s.marquee.View(row.habit.Name)

			if !s.checking {
				sprite.Paste(frame, s.deps.Art.Pointer(), image.Pt(2, y+2))
			}
		}

		sprite.Text(frame, 9, y, name, sprite.TextDark)

		for day, checked := range row.checks {
			highlighted := selected && s.checking && day == s.day
			sprite.Paste(frame, s.deps.Art.Checkbox(checked, highlighted), image.Pt(checkboxX+day*checkboxGap, y+2))
		}
	}

	if s.checking {
		hint(frame, "A:check B:done")
	} else {
		hint(frame, "A:pick <:back")
	}
}
