package screens

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
)

const (
	statsDays = 7
	topHabits = 3
)

// StatsScreen summarises the last week. A flips between the summary and the
// best habits.
type StatsScreen struct {
	deps      Deps
	breakdown bool
	points    int
	completed int
	logged    int
	top       []store.CompletionStat
	pet       pet.State
	err       error
}

func NewStatsScreen(deps Deps) *StatsScreen {
	return &StatsScreen{deps: deps, pet: pet.New(time.Now())}
}

func (s *StatsScreen) Links() []screen.Name {
	return []screen.Name{Home, Menu}
}

func (s *StatsScreen) Reload() {
	s.breakdown = false
	s.points, s.completed, s.logged = 0, 0, 0
	s.top = nil
	s.err = nil

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	if s.deps.Pets != nil {
		state, err := s.deps.Pets.Load(ctx)
		if err != nil {
			slog.Error("Failed to load pet", slog.String("error", err.Error()))
		}

		s.pet = state
	}

	if s.deps.Store == nil {
		return
	}

	to := s.deps.today()
	from := to.AddDate(0, 0, -(statsDays - 1))

	days, err := s.deps.Store.PointsByDay(ctx, from, to)
	if err != nil {
		s.fail(err)

		return
	}

	for _, day := range days {
		s.points += day.Points
	}

	stats, err := s.deps.Store.CompletionStats(ctx, from, to)
	if err != nil {
		s.fail(err)

		return
	}

	for _, stat := range stats {
		s.completed += stat.Completed
		s.logged += stat.Days
	}

	s.top = bestHabits(stats, topHabits)
}

func (s *StatsScreen) fail(err error) {
	slog.Error("Failed to load stats", slog.String("error", err.Error()))
	s.err = err
}

// bestHabits orders by completions, keeping the store's name order on ties.
func bestHabits(stats []store.CompletionStat, count int) []store.CompletionStat {
	ranked := slices.Clone(stats)
	slices.SortStableFunc(ranked, func(a, b store.CompletionStat) int {
		return b.Completed - a.Completed
	})

	return ranked[:min(count, len(ranked))]
}

// Rate is the completion percentage over the week.
func (s *StatsScreen) Rate() int {
	if s.logged == 0 {
		return 0
	}

	return s.completed * 100 / s.logged
}

func (s *StatsScreen) Points() int {
	return s.points
}

func (s *StatsScreen) Breakdown() bool {
	return s.breakdown
}

func (s *StatsScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	switch evt.Kind {
	case input.Left:
		return Home
	case input.Right:
		return Menu
	case input.ButtonA:
		s.breakdown = !s.breakdown
	case input.Up, input.Down, input.ButtonB, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *StatsScreen) Update(time.Duration) {}

func (s *StatsScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, "Stats")

	switch {
	case s.err != nil:
		sprite.CenteredText(frame, frame.Bounds(), listTop+rowHeight, "No stats :(", sprite.Red)
	case s.breakdown:
		s.renderBreakdown(frame)
	default:
		s.renderSummary(frame)
	}

	hint(frame, "A:page  <>:leave")
}

func (s *StatsScreen) renderSummary(frame *image.RGBA) {
	y := listTop
	sprite.Text(frame, 4, y, "Week: "+humanize.Comma(int64(s.points))+" pts", sprite.TextDark)
	y += rowHeight
	sprite.Text(frame, 4, y, fmt.Sprintf("Done: %d%%", s.Rate()), sprite.TextDark)
	y += rowHeight + 4

	for _, bar := range []struct {
		label string
		value int
	}{
		{label: "Food", value: s.pet.Hunger},
		{label: "Joy", value: s.pet.Happiness},
	} {
		sprite.Text(frame, 4, y, bar.label, sprite.TextDark)
		fill := sprite.Green
		if bar.value < 30 {
			fill = sprite.Red
		}

		sprite.Bar(frame, image.Rect(40, y+3, sprite.Width-6, y+10), bar.value, fill)
		y += rowHeight
	}
}

func (s *StatsScreen) renderBreakdown(frame *image.RGBA) {
	if len(s.top) == 0 {
		sprite.CenteredText(frame, frame.Bounds(), listTop+rowHeight, "Nothing yet", sprite.TextMuted)

		return
	}

	for i, stat := range s.top {
		y := listTop + i*rowHeight*2
		sprite.Text(frame, 4, y, sprite.Truncate(stat.HabitName, sprite.Fit(sprite.Width-8)), sprite.TextDark)
		sprite.Text(frame, 12, y+rowHeight-2,
			fmt.Sprintf("%d/%d days %s%%", stat.Completed, stat.Days, humanize.FtoaWithDigits(stat.Rate()*100, 0)), sprite.TextMuted)
	}
}
