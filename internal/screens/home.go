package screens

import (
	"image"
	"log/slog"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

const animationStep = 150 * time.Millisecond

var greetings = map[pet.Expression]string{
	pet.Happy:       "Hi there!",
	pet.LittleSmile: "Hey friend",
	pet.TeethSmile:  "Best day ever!",
	pet.Oh:          "Oh! Hello!",
	pet.Bruh:        "Bruh...",
	pet.Sad:         "I'm hungry...",
}

// HomeScreen shows the pet.
type HomeScreen struct {
	deps   Deps
	state  pet.State
	frame  int
	timer  time.Duration
	bubble *widget.SpeechBubble
}

func NewHomeScreen(deps Deps) *HomeScreen {
	return &HomeScreen{
		deps:   deps,
		state:  pet.New(time.Now()),
		bubble: widget.NewSpeechBubble(deps.Art, image.Pt(8, 4)),
	}
}

func (s *HomeScreen) Links() []screen.Name {
	return []screen.Name{Menu, Stats}
}

// Reload fetches the pet with any hunger decay since it was last seen.
func (s *HomeScreen) Reload() {
	s.frame = 0
	s.timer = 0
	s.bubble.Hide()

	if s.deps.Pets == nil {
		return
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	state, err := s.deps.Pets.Load(ctx)
	if err != nil {
		slog.Error("Failed to load pet", slog.String("error", err.Error()))
	}

	s.state = state
}

func (s *HomeScreen) Expression() pet.Expression {
	return s.state.Expression
}

func (s *HomeScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	switch evt.Kind {
	case input.Right:
		return Menu
	case input.Left:
		return Stats
	case input.ButtonB:
		s.bubble.Toggle(greetings[s.state.Expression])
	case input.ButtonC:
		s.cycleExpression()
	case input.Up, input.Down, input.ButtonA, input.Quit:
	}

	return screen.Stay
}

func (s *HomeScreen) cycleExpression() {
	next := (s.state.Expression.Index() + 1) % len(pet.Expressions)
	s.state.Expression = pet.Expressions[next]

	if s.bubble.Visible() {
		s.bubble.Show(greetings[s.state.Expression])
	}

	if s.deps.Pets == nil {
		return
	}

	ctx, cancel := s.deps.withTimeout()
	defer cancel()

	if err := s.deps.Pets.Save(ctx, s.state); err != nil {
		slog.Error("Failed to save pet", slog.String("error", err.Error()))
	}
}

func (s *HomeScreen) Update(delta time.Duration) {
	s.timer += delta
	for s.timer >= animationStep {
		s.timer -= animationStep
		s.frame = (s.frame + 1) % sprite.PetFrames
	}

	s.bubble.Update(delta)
}

func (s *HomeScreen) Render(frame *image.RGBA) {
	sprite.Paste(frame, s.deps.Art.Background(), image.Point{})
	sprite.Paste(frame, s.deps.Art.Body()[s.frame], image.Point{})
	sprite.Paste(frame, s.deps.Art.Face(string(s.state.Expression))[s.frame], image.Point{})
	s.bubble.Render(frame)
}
