// Package pet models the character living on the home screen. Completing
// habits feeds it; neglect makes it hungry.
package pet

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"
)

const (
	Max              = 100
	defaultHunger    = 50
	defaultHappiness = 70
)

var ErrStorage = errors.New("failed to access pet state")

type Expression string

const (
	Happy       Expression = "happy"
	Sad         Expression = "sad"
	Oh          Expression = "oh"
	Bruh        Expression = "bruh"
	TeethSmile  Expression = "teeth-smile"
	LittleSmile Expression = "little-smile"
)

// Expressions lists every face in cycling order.
var Expressions = []Expression{Happy, LittleSmile, TeethSmile, Oh, Bruh, Sad}

// Index returns the position of e in Expressions, 0 when unknown.
func (e Expression) Index() int {
	return max(slices.Index(Expressions, e), 0)
}

// State is persisted as JSON, keep the tags stable.
type State struct {
	Hunger     int        `json:"hunger"`
	Happiness  int        `json:"happiness"`
	Expression Expression `json:"expression"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func New(now time.Time) State {
	return State{Hunger: defaultHunger, Happiness: defaultHappiness, Expression: Happy, UpdatedAt: now}
}

// Decay lowers hunger by ratePerHour for every whole hour since UpdatedAt.
// Partial hours carry over to the next call.
func (s State) Decay(now time.Time, ratePerHour int) State {
	hours := int(now.Sub(s.UpdatedAt) / time.Hour)
	if hours <= 0 {
		return s
	}

	s.Hunger = clamp(s.Hunger - hours*ratePerHour)
	s.UpdatedAt = s.UpdatedAt.Add(time.Duration(hours) * time.Hour)

	return s
}

// Feed raises hunger and happiness by points.
func (s State) Feed(points int) State {
	s.Hunger = clamp(s.Hunger + points)
	s.Happiness = clamp(s.Happiness + points/2 + 1)

	return s
}

// Mood picks the expression matching the current stats.
func (s State) Mood() Expression {
	switch {
	case s.Hunger < 20:
		return Sad
	case s.Happiness >= 80:
		return TeethSmile
	case s.Happiness >= 50:
		return Happy
	case s.Happiness >= 30:
		return LittleSmile
	default:
		return Bruh
	}
}

func clamp(value int) int {
	return min(max(value, 0), Max)
}

// Storage persists the single character document.
type Storage interface {
	SaveCharacter(ctx context.Context, state any) error
	LoadCharacter(ctx context.Context, state any) (bool, error)
}

// Keeper loads and saves the pet, applying decay on every load.
type Keeper struct {
	storage      Storage
	decayPerHour int
	now          func() time.Time
}

func NewKeeper(storage Storage, decayPerHour int, now func() time.Time) *Keeper {
	if now == nil {
		now = time.Now
	}

	return &Keeper{storage: storage, decayPerHour: decayPerHour, now: now}
}

// Load returns the stored pet with decay applied, or a new pet when none was
// saved yet.
func (k *Keeper) Load(ctx context.Context) (State, error) {
	now := k.now()

	var state State

	found, err := k.storage.LoadCharacter(ctx, &state)
	if err != nil {
		return New(now), errors.Join(err, ErrStorage)
	}

	if !found {
		return New(now), nil
	}

	decayed := state.Decay(now, k.decayPerHour)
	if decayed.Hunger != state.Hunger {
		slog.Debug("Pet got hungrier", slog.Int("hunger", decayed.Hunger))
	}

	return decayed, nil
}

func (k *Keeper) Save(ctx context.Context, state State) error {
	if err := k.storage.SaveCharacter(ctx, state); err != nil {
		return errors.Join(err, ErrStorage)
	}

	return nil
}

// Feed loads the pet, feeds it points and saves it again.
func (k *Keeper) Feed(ctx context.Context, points int) (State, error) {
	state, err := k.Load(ctx)
	if err != nil {
		return state, err
	}

	state = state.Feed(points)
	state.Expression = state.Mood()

	return state, k.Save(ctx, state)
}
