// Package screens contains every screen of the device and wires them into a
// registry.
package screens

import (
	"context"
	_ "embed"
	"image"
	"time"

	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/leighmacdonald/lilguy/internal/update"
)

const (
	Home         screen.Name = "home"
	Menu         screen.Name = "menu"
	Stats        screen.Name = "stats"
	Settings     screen.Name = "settings"
	ViewHabits   screen.Name = "view_habits"
	EditHabit    screen.Name = "edit_habit"
	HabitChecker screen.Name = "habit_checker"
	About        screen.Name = "about"
	Update       screen.Name = "update"
)

const storeTimeout = 2 * time.Second

//go:embed about.txt
var defaultAbout string

// Store is the persistence the screens need.
type Store interface {
	Habits(ctx context.Context, activeOnly bool) ([]store.Habit, error)
	CreateHabit(ctx context.Context, habit store.Habit) (int64, error)
	UpdateHabit(ctx context.Context, habit store.Habit) error
	DeleteHabit(ctx context.Context, habitID int64) error
	Logs(ctx context.Context, habitID int64, from time.Time, to time.Time) ([]store.HabitLog, error)
	LogCompletion(ctx context.Context, entry store.HabitLog) error
	PointsByDay(ctx context.Context, from time.Time, to time.Time) ([]store.DayPoints, error)
	CompletionStats(ctx context.Context, from time.Time, to time.Time) ([]store.CompletionStat, error)
}

type Updater interface {
	Check(ctx context.Context) (update.Result, error)
}

// Deps is shared by every screen.
type Deps struct {
	Context context.Context //nolint:containedctx
	Session *screen.Session
	Store   Store
	Pets    *pet.Keeper
	Art     *sprite.Library
	Updater Updater
	// About is the text of the about screen. Empty uses the built-in text.
	About string
	Now   func() time.Time
}

func (d Deps) context() context.Context {
	if d.Context == nil {
		return context.Background()
	}

	return d.Context
}

func (d Deps) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(d.context(), storeTimeout)
}

func (d Deps) today() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	year, month, day := now().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// NewRegistry builds every screen and validates the links between them.
func NewRegistry(deps Deps) (*screen.Registry, error) {
	if deps.Session == nil {
		deps.Session = screen.NewSession()
	}

	if deps.Art == nil {
		deps.Art = sprite.NewLibrary("")
	}

	return screen.NewRegistry(map[screen.Name]screen.Screen{
		Home:         NewHomeScreen(deps),
		Menu:         NewMenuScreen(deps),
		Stats:        NewStatsScreen(deps),
		Settings:     NewSettingsScreen(deps),
		ViewHabits:   NewViewHabitsScreen(deps),
		EditHabit:    NewEditHabitScreen(deps),
		HabitChecker: NewHabitCheckerScreen(deps),
		About:        NewAboutScreen(deps),
		Update:       NewUpdateScreen(deps),
	})
}

const (
	titleHeight = 15
	rowHeight   = sprite.LineHeight
	listTop     = titleHeight + 3
	hintY       = sprite.Height - rowHeight - 1
	visibleRows = (hintY - listTop) / rowHeight
)

func blank(frame *image.RGBA) {
	sprite.Fill(frame, sprite.White)
}

func titleBar(frame *image.RGBA, title string) {
	bar := image.Rect(0, 0, sprite.Width, titleHeight)
	sprite.Rect(frame, bar, sprite.BlueHighlight)
	sprite.CenteredText(frame, bar, 1, title, sprite.White)
}

func hint(frame *image.RGBA, text string) {
	sprite.HLine(frame, 0, sprite.Width-1, hintY-2, sprite.CheckboxInactive)
	sprite.CenteredText(frame, frame.Bounds(), hintY, text, sprite.TextMuted)
}

// listRow draws one entry of a vertical list at row index row.
func listRow(frame *image.RGBA, art *sprite.Library, row int, label string, selected bool, c image.Image) {
	y := listTop + row*rowHeight
	if selected {
		sprite.Rect(frame, image.Rect(0, y-1, sprite.Width, y+rowHeight-1), sprite.SelectGray)
		sprite.Paste(frame, art.Pointer(), image.Pt(3, y+2))
	}

	sprite.Text(frame, 12, y, label, sprite.TextDark)

	if c != nil {
		sprite.Paste(frame, c, image.Pt(sprite.Width-14, y+2))
	}
}
