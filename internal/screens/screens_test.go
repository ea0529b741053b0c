package screens_test

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/leighmacdonald/lilguy/internal/app"
	"github.com/leighmacdonald/lilguy/internal/display"
	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/screens"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/store"
	"github.com/leighmacdonald/lilguy/internal/update"
	"github.com/stretchr/testify/require"
)

var errWrite = errors.New("disk full")

// memStore keeps habits and logs in memory and counts writes.
type memStore struct {
	habits  []store.Habit
	logs    []store.HabitLog
	nextID  int64
	writes  int
	failing bool
}

func newMemStore(names ...string) *memStore {
	db := &memStore{}
	for _, name := range names {
		db.nextID++
		db.habits = append(db.habits, store.Habit{
			ID: db.nextID, Name: name, Type: store.Binary, PointsPer: 5, Category: store.Good,
			Recurrence: store.Daily, Active: true,
		})
	}

	return db
}

func (m *memStore) Habits(_ context.Context, activeOnly bool) ([]store.Habit, error) {
	var habits []store.Habit
	for _, habit := range m.habits {
		if !activeOnly || habit.Active {
			habits = append(habits, habit)
		}
	}

	return habits, nil
}

func (m *memStore) CreateHabit(_ context.Context, habit store.Habit) (int64, error) {
	if m.failing {
		return 0, errWrite
	}

	m.writes++
	m.nextID++
	habit.ID = m.nextID
	m.habits = append(m.habits, habit)

	return habit.ID, nil
}

func (m *memStore) UpdateHabit(_ context.Context, habit store.Habit) error {
	if m.failing {
		return errWrite
	}

	m.writes++
	for i := range m.habits {
		if m.habits[i].ID == habit.ID {
			m.habits[i] = habit

			return nil
		}
	}

	return store.ErrNotFound
}

func (m *memStore) DeleteHabit(_ context.Context, habitID int64) error {
	m.writes++
	m.habits = slices.DeleteFunc(m.habits, func(h store.Habit) bool { return h.ID == habitID })

	return nil
}

func (m *memStore) Logs(_ context.Context, habitID int64, _ time.Time, _ time.Time) ([]store.HabitLog, error) {
	var logs []store.HabitLog
	for _, entry := range m.logs {
		if entry.HabitID == habitID {
			logs = append(logs, entry)
		}
	}

	return logs, nil
}

func (m *memStore) LogCompletion(_ context.Context, entry store.HabitLog) error {
	m.writes++
	m.logs = slices.DeleteFunc(m.logs, func(l store.HabitLog) bool {
		return l.HabitID == entry.HabitID && store.FormatDate(l.Date) == store.FormatDate(entry.Date)
	})
	m.logs = append(m.logs, entry)

	return nil
}

func (m *memStore) PointsByDay(_ context.Context, _ time.Time, _ time.Time) ([]store.DayPoints, error) {
	var days []store.DayPoints
	for _, entry := range m.logs {
		days = append(days, store.DayPoints{Date: entry.Date, Points: entry.PointsEarned})
	}

	return days, nil
}

func (m *memStore) CompletionStats(_ context.Context, _ time.Time, _ time.Time) ([]store.CompletionStat, error) {
	var stats []store.CompletionStat
	for _, habit := range m.habits {
		stat := store.CompletionStat{HabitID: habit.ID, HabitName: habit.Name}
		for _, entry := range m.logs {
			if entry.HabitID == habit.ID {
				stat.Days++
				if entry.Completed {
					stat.Completed++
				}
			}
		}

		stats = append(stats, stat)
	}

	return stats, nil
}

type memCharacter struct {
	doc []byte
}

func (m *memCharacter) SaveCharacter(_ context.Context, state any) error {
	doc, err := json.Marshal(state)
	m.doc = doc

	return err
}

func (m *memCharacter) LoadCharacter(_ context.Context, state any) (bool, error) {
	if m.doc == nil {
		return false, nil
	}

	return true, json.Unmarshal(m.doc, state)
}

func (m *memCharacter) state(t *testing.T) pet.State {
	t.Helper()

	var state pet.State
	require.NoError(t, json.Unmarshal(m.doc, &state))

	return state
}

type fixedUpdater struct {
	result update.Result
	calls  int
}

func (f *fixedUpdater) Check(context.Context) (update.Result, error) {
	f.calls++

	return f.result, nil
}

type instantClock struct {
	now time.Time
}

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

var now = time.Date(2025, time.March, 12, 15, 4, 0, 0, time.Local)

type fixture struct {
	deps      screens.Deps
	db        *memStore
	character *memCharacter
	updater   *fixedUpdater
	registry  *screen.Registry
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()

	fix := &fixture{
		db:        newMemStore(names...),
		character: &memCharacter{},
		updater:   &fixedUpdater{result: update.Result{Message: "Already up\nto date!"}},
	}
	fix.deps = screens.Deps{
		Context: t.Context(),
		Session: screen.NewSession(),
		Store:   fix.db,
		Pets:    pet.NewKeeper(fix.character, 1, func() time.Time { return now }),
		Updater: fix.updater,
		Now:     func() time.Time { return now },
	}

	registry, err := screens.NewRegistry(fix.deps)
	require.NoError(t, err)

	fix.registry = registry

	return fix
}

func get[T screen.Screen](t *testing.T, fix *fixture, name screen.Name) T {
	t.Helper()

	found, ok := fix.registry.Get(name)
	require.True(t, ok)

	typed, ok := found.(T)
	require.True(t, ok)

	if reloader, isReloader := found.(screen.Reloader); isReloader {
		reloader.Reload()
	}

	fix.deps.Session.Expire()

	return typed
}

func send(target screen.Screen, kinds ...input.Kind) screen.Name {
	next := screen.Stay
	for _, kind := range kinds {
		next = target.HandleInput(input.Press(kind))
		target.HandleInput(input.Release(kind))
	}

	return next
}

func TestRegistryIsComplete(t *testing.T) {
	fix := newFixture(t)

	require.Equal(t, []screen.Name{
		screens.About, screens.EditHabit, screens.HabitChecker, screens.Home, screens.Menu,
		screens.Settings, screens.Stats, screens.Update, screens.ViewHabits,
	}, fix.registry.Names())
}

func TestMenuNavigation(t *testing.T) {
	fix := newFixture(t, "Walk")
	sink := display.NewMemory(128, 128)
	script := input.NewScripted().Tap(input.Right, input.Down, input.ButtonA).Wait(2)

	application, err := app.New(app.Options{
		Display:  sink,
		Input:    script.Tap(input.Quit),
		Registry: fix.registry,
		Session:  fix.deps.Session,
		Initial:  screens.Home,
		Clock:    &instantClock{now: now},
	})
	require.NoError(t, err)
	require.NoError(t, application.Run(t.Context()))
	require.Equal(t, screens.HabitChecker, application.Current())
	require.Positive(t, sink.Presents())

	back := input.NewScripted().Tap(input.Left, input.Left, input.Quit)
	application, err = app.New(app.Options{
		Display:  sink,
		Input:    back,
		Registry: fix.registry,
		Session:  fix.deps.Session,
		Initial:  screens.HabitChecker,
		Clock:    &instantClock{now: now},
	})
	require.NoError(t, err)
	require.NoError(t, application.Run(t.Context()))
	require.Equal(t, screens.Home, application.Current())
}

func TestMenuWraps(t *testing.T) {
	fix := newFixture(t)
	menu := get[*screens.MenuScreen](t, fix, screens.Menu)

	send(menu, input.Down, input.Down, input.Down, input.Down)
	require.Equal(t, 0, menu.Cursor())

	send(menu, input.Up)
	require.Equal(t, 3, menu.Cursor())
	require.Equal(t, screens.Settings, send(menu, input.ButtonA))
	require.Equal(t, screens.Home, send(menu, input.Left))
}

func TestSettingsClamps(t *testing.T) {
	fix := newFixture(t)
	settings := get[*screens.SettingsScreen](t, fix, screens.Settings)

	send(settings, input.Up)
	require.Equal(t, 0, settings.Cursor())
	require.Equal(t, screens.ViewHabits, send(settings, input.ButtonA))

	send(settings, input.Down, input.Down, input.Down, input.Down)
	require.Equal(t, 2, settings.Cursor())
	require.Equal(t, screens.About, send(settings, input.ButtonA))
	require.Equal(t, screens.Menu, send(settings, input.Left))
}

func TestViewHabitsHandoff(t *testing.T) {
	fix := newFixture(t, "Walk", "Read")
	list := get[*screens.ViewHabitsScreen](t, fix, screens.ViewHabits)
	require.Equal(t, -1, list.Cursor())

	send(list, input.Up)
	require.Equal(t, 1, list.Cursor(), "wraps from the new habit button to the last habit")

	send(list, input.Down)
	require.Equal(t, -1, list.Cursor())

	require.Equal(t, screens.EditHabit, send(list, input.ButtonA))

	editor := get[*screens.EditHabitScreen](t, fix, screens.EditHabit)
	require.Equal(t, screens.NewDraft(), editor.Draft())

	list = get[*screens.ViewHabitsScreen](t, fix, screens.ViewHabits)
	send(list, input.Down, input.Down)
	require.Equal(t, screens.EditHabit, send(list, input.ButtonA))

	editor = get[*screens.EditHabitScreen](t, fix, screens.EditHabit)
	require.Equal(t, "Read", editor.Draft().Name)
	require.False(t, fix.deps.Session.Pending(), "the handoff is consumed")

	require.Equal(t, screens.Settings, send(list, input.Left))
}

func TestEditStartsCleanAfterHandoff(t *testing.T) {
	fix := newFixture(t, "Walk", "Read")
	editor := get[*screens.EditHabitScreen](t, fix, screens.EditHabit)

	for range 6 {
		send(editor, input.Down)
	}

	send(editor, input.ButtonA)
	require.Equal(t, "Name required", editor.Error())

	// Leave the editor while changing points.
	send(editor, input.Up, input.Up, input.Up, input.Up, input.ButtonA, input.Up, input.Up)
	require.True(t, editor.Editing())
	require.Equal(t, 7, editor.Draft().Points)

	want := screens.DraftFromHabit(fix.db.habits[1])
	screen.Handoff(fix.deps.Session, want)
	editor = get[*screens.EditHabitScreen](t, fix, screens.EditHabit)

	require.Equal(t, want, editor.Draft())
	require.Empty(t, editor.Error())
	require.False(t, editor.Editing())

	// The cursor is back on the name field.
	send(editor, input.ButtonA)
	require.True(t, editor.Editing())
	send(editor, input.ButtonC)
	require.False(t, editor.Editing())
	require.Equal(t, want, editor.Draft())
	require.Zero(t, fix.db.writes)
}

func TestViewHabitsDelete(t *testing.T) {
	fix := newFixture(t, "Walk", "Read")
	list := get[*screens.ViewHabitsScreen](t, fix, screens.ViewHabits)

	send(list, input.ButtonC)
	require.False(t, list.Deleting(), "the new habit button cannot be deleted")

	send(list, input.Down, input.Down, input.ButtonC)
	require.True(t, list.Deleting())

	send(list, input.ButtonA)
	require.False(t, list.Deleting())
	require.Len(t, list.Habits(), 2, "cancel is the default choice")

	send(list, input.ButtonC, input.Left, input.ButtonA)
	require.Len(t, list.Habits(), 1)
	require.Equal(t, "Walk", list.Habits()[0].Name)
	require.Equal(t, 0, list.Cursor())
}

func TestEditCancelWritesNothing(t *testing.T) {
	fix := newFixture(t, "Walk")
	screen.Handoff(fix.deps.Session, screens.DraftFromHabit(fix.db.habits[0]))
	editor := get[*screens.EditHabitScreen](t, fix, screens.EditHabit)

	send(editor, input.Down, input.Down, input.ButtonA, input.Up, input.Up, input.ButtonA)
	require.Equal(t, 7, editor.Draft().Points)

	send(editor, input.Down, input.Down, input.Down, input.Down)
	require.Equal(t, screens.ViewHabits, send(editor, input.Right, input.ButtonA))
	require.Zero(t, fix.db.writes)
	require.Equal(t, 5, fix.db.habits[0].PointsPer)
}

func TestEditSave(t *testing.T) {
	fix := newFixture(t, "Walk")
	screen.Handoff(fix.deps.Session, screens.DraftFromHabit(fix.db.habits[0]))
	editor := get[*screens.EditHabitScreen](t, fix, screens.EditHabit)

	// Freq: count 1 -> 3, then period day -> week.
	send(editor, input.Down, input.ButtonA, input.Up, input.Up, input.ButtonA, input.Down, input.ButtonA)
	// Points clamp at 20.
	send(editor, input.Down, input.ButtonA)
	for range 30 {
		send(editor, input.Up)
	}

	send(editor, input.ButtonA)
	// Type, Active and Reminder toggle.
	send(editor, input.Down, input.ButtonA, input.Down, input.Down, input.ButtonA)

	draft := editor.Draft()
	require.Equal(t, 3, draft.Count)
	require.Equal(t, store.Week, draft.Period)
	require.Equal(t, 20, draft.Points)
	require.False(t, draft.Good)
	require.True(t, draft.Active)
	require.True(t, draft.Reminder)

	require.Equal(t, screens.ViewHabits, send(editor, input.Down, input.ButtonA))

	saved := fix.db.habits[0]
	require.Equal(t, "Walk", saved.Name)
	require.Equal(t, "3/week", saved.Recurrence.String())
	require.Equal(t, 20, saved.PointsPer)
	require.Equal(t, store.Bad, saved.Category)
	require.True(t, saved.Reminder)
}

func TestEditNewHabitName(t *testing.T) {
	fix := newFixture(t)
	editor := get[*screens.EditHabitScreen](t, fix, screens.EditHabit)

	require.Equal(t, screen.Stay, send(editor, input.Up, input.Down, input.Up, input.ButtonA),
		"up from the buttons returns to the last field")
	require.True(t, editor.Draft().Reminder)

	for range 6 {
		send(editor, input.Down)
	}

	require.Equal(t, screen.Stay, send(editor, input.ButtonA))
	require.Equal(t, "Name required", editor.Error())
	require.Zero(t, fix.db.writes)

	// Back to the name field and type "Hi".
	for range 6 {
		send(editor, input.Up)
	}

	send(editor, input.ButtonA)
	send(editor, input.Right, input.Right, input.Right, input.Right, input.Right, input.Right, input.Right, input.ButtonA)
	send(editor, input.Down, input.Right, input.Right, input.Right, input.Right, input.Right, input.Right, input.Right,
		input.Right, input.ButtonA, input.ButtonC)
	require.Equal(t, "Hi", editor.Draft().Name)

	fix.db.failing = true
	for range 6 {
		send(editor, input.Down)
	}

	require.Equal(t, screen.Stay, send(editor, input.ButtonA))
	require.Equal(t, "Save failed", editor.Error())

	fix.db.failing = false
	require.Equal(t, screens.ViewHabits, send(editor, input.ButtonA))
	require.Len(t, fix.db.habits, 1)
	require.Equal(t, "Hi", fix.db.habits[0].Name)
	require.Equal(t, store.Daily, fix.db.habits[0].Recurrence)
}

func TestHabitChecker(t *testing.T) {
	fix := newFixture(t, "Walk", "Read")
	fix.db.habits[1].Active = false

	checker := get[*screens.HabitCheckerScreen](t, fix, screens.HabitChecker)
	require.Equal(t, 1, checker.Rows(), "only active habits are listed")

	send(checker, input.ButtonA)
	require.True(t, checker.Checking())

	_, day := checker.Cursor()
	require.Equal(t, 2, day, "today is selected first")

	send(checker, input.ButtonA)
	require.True(t, checker.Checked(0, 2))
	require.Len(t, fix.db.logs, 1)
	require.Equal(t, 5, fix.db.logs[0].PointsEarned)
	require.Equal(t, store.FormatDate(now), store.FormatDate(fix.db.logs[0].Date))
	require.Equal(t, 55, fix.character.state(t).Hunger, "completing a habit feeds the pet")

	send(checker, input.ButtonA)
	require.False(t, checker.Checked(0, 2))
	require.Len(t, fix.db.logs, 1, "the log is replaced, not duplicated")
	require.Zero(t, fix.db.logs[0].PointsEarned)

	send(checker, input.Right)
	_, day = checker.Cursor()
	require.Equal(t, 0, day, "days wrap")

	send(checker, input.ButtonA, input.ButtonB)
	require.False(t, checker.Checking())
	require.Equal(t, screens.Menu, send(checker, input.Left))

	checker = get[*screens.HabitCheckerScreen](t, fix, screens.HabitChecker)
	require.True(t, checker.Checked(0, 0), "logs are read back on reload")
}

func TestStats(t *testing.T) {
	fix := newFixture(t, "Walk", "Read")
	fix.db.logs = []store.HabitLog{
		{HabitID: 1, Date: now, Completed: true, PointsEarned: 1200},
		{HabitID: 2, Date: now, Completed: false},
	}

	stats := get[*screens.StatsScreen](t, fix, screens.Stats)
	require.Equal(t, 1200, stats.Points())
	require.Equal(t, 50, stats.Rate())

	send(stats, input.ButtonA)
	require.True(t, stats.Breakdown())
	require.Equal(t, screens.Menu, send(stats, input.Right))
	require.Equal(t, screens.Home, send(stats, input.Left))
}

func TestAboutScrolls(t *testing.T) {
	fix := newFixture(t)
	fix.deps.About = strings.Repeat("line\n", 20)

	about := screens.NewAboutScreen(fix.deps)
	send(about, input.Up)
	require.Zero(t, about.Offset())

	for range 40 {
		send(about, input.Down)
	}

	require.Equal(t, 20-7, about.Offset())
	require.Equal(t, screens.Settings, send(about, input.ButtonB))
}

func TestHomeCyclesExpression(t *testing.T) {
	fix := newFixture(t)
	home := get[*screens.HomeScreen](t, fix, screens.Home)
	require.Equal(t, pet.Happy, home.Expression())

	send(home, input.ButtonC)
	require.Equal(t, pet.LittleSmile, home.Expression())
	require.Equal(t, pet.LittleSmile, fix.character.state(t).Expression)

	require.Equal(t, screens.Menu, send(home, input.Right))
	require.Equal(t, screens.Stats, send(home, input.Left))
}

func TestUpdateChecksAfterFirstFrame(t *testing.T) {
	fix := newFixture(t)
	fix.updater.result = update.Result{Updated: true, Behind: 2, Message: "Update found!\n(2 commits)"}
	frame := image.NewRGBA(image.Rect(0, 0, 128, 128))

	screenUpdate := get[*screens.UpdateScreen](t, fix, screens.Update)
	screenUpdate.Update(50 * time.Millisecond)
	require.Zero(t, fix.updater.calls, "nothing was shown yet")

	screenUpdate.Render(frame)
	screenUpdate.Update(0)
	require.Zero(t, fix.updater.calls)

	screenUpdate.Update(50 * time.Millisecond)
	require.Equal(t, 1, fix.updater.calls)

	result, done := screenUpdate.Result()
	require.True(t, done)
	require.True(t, result.Updated)

	require.Equal(t, screen.Stay, send(screenUpdate, input.ButtonA))
	require.True(t, fix.deps.Session.QuitRequested())

	fix.updater.result = update.Result{Message: "Already up\nto date!"}
	screenUpdate = get[*screens.UpdateScreen](t, fix, screens.Update)
	screenUpdate.Render(frame)
	screenUpdate.Update(50 * time.Millisecond)
	require.Equal(t, screens.Settings, send(screenUpdate, input.ButtonA))
}

func TestUpdateWrapsLongMessages(t *testing.T) {
	fix := newFixture(t)
	fix.updater.result = update.Result{Message: "Pull failed:\nerror: Your local changes would be overwritten"}
	frame := image.NewRGBA(image.Rect(0, 0, 128, 128))

	screenUpdate := get[*screens.UpdateScreen](t, fix, screens.Update)
	screenUpdate.Render(frame)
	screenUpdate.Update(50 * time.Millisecond)

	lines := screenUpdate.Lines()
	require.Greater(t, len(lines), 2)
	require.Equal(t, "Pull failed:", lines[0])

	for _, line := range lines {
		require.LessOrEqual(t, sprite.TextWidth(line), sprite.Width-8, line)
	}

	require.Equal(t, "error: Your local changes would be overwritten",
		strings.Join(lines[1:], " "))
}

// Zero length updates and button releases must not change what is drawn.
func TestScreensIgnoreReleasesAndZeroUpdates(t *testing.T) {
	fix := newFixture(t, "Walk", "A rather long habit name")

	for _, name := range fix.registry.Names() {
		target := get[screen.Screen](t, fix, name)

		before := image.NewRGBA(image.Rect(0, 0, 128, 128))
		target.Update(0)
		target.Render(before)

		for _, kind := range input.Kinds() {
			require.Equal(t, screen.Stay, target.HandleInput(input.Release(kind)), name)
		}

		target.Update(0)

		after := image.NewRGBA(image.Rect(0, 0, 128, 128))
		target.Render(after)
		require.Equal(t, before.Pix, after.Pix, name)
	}
}
