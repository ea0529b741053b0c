package screens

import (
	"strings"
	"time"

	"github.com/leighmacdonald/lilguy/internal/store"
)

const (
	minCount  = 1
	maxCount  = 6
	minPoints = 1
	maxPoints = 20
)

// HabitDraft is a habit being edited. It travels from the habit list to the
// editor through the session handoff. A zero ID is a habit not yet saved.
type HabitDraft struct {
	ID       int64
	Name     string
	Count    int
	Period   store.Period
	Points   int
	Good     bool
	Active   bool
	Reminder bool
	// Fields the editor does not show, kept so a save does not drop them.
	Type        store.HabitType
	TargetTime  string
	GracePeriod int
	CreatedAt   time.Time
}

func NewDraft() HabitDraft {
	return HabitDraft{
		Count:  1,
		Period: store.Day,
		Points: 5,
		Good:   true,
		Active: true,
		Type:   store.Binary,
	}
}

func DraftFromHabit(habit store.Habit) HabitDraft {
	return HabitDraft{
		ID:          habit.ID,
		Name:        habit.Name,
		Count:       habit.Recurrence.Count,
		Period:      habit.Recurrence.Period,
		Points:      habit.PointsPer,
		Good:        habit.Category != store.Bad,
		Active:      habit.Active,
		Reminder:    habit.Reminder,
		Type:        habit.Type,
		TargetTime:  habit.TargetTime,
		GracePeriod: habit.GracePeriod,
		CreatedAt:   habit.CreatedAt,
	}
}

func (d HabitDraft) Habit() store.Habit {
	category := store.Good
	if !d.Good {
		category = store.Bad
	}

	habitType := d.Type
	if habitType == "" {
		habitType = store.Binary
	}

	return store.Habit{
		ID:          d.ID,
		Name:        strings.TrimSpace(d.Name),
		Type:        habitType,
		PointsPer:   d.Points,
		Category:    category,
		TargetTime:  d.TargetTime,
		GracePeriod: d.GracePeriod,
		Recurrence:  store.Recurrence{Count: d.Count, Period: d.Period},
		Active:      d.Active,
		Reminder:    d.Reminder,
		CreatedAt:   d.CreatedAt,
	}
}
