package screens

import (
	"image"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
	"github.com/leighmacdonald/lilguy/internal/screen"
	"github.com/leighmacdonald/lilguy/internal/sprite"
	"github.com/leighmacdonald/lilguy/internal/widget"
)

type menuEntry struct {
	label  string
	target screen.Name
}

// listScreen is a titled list of links. Menu and settings are both one.
type listScreen struct {
	title   string
	entries []menuEntry
	back    screen.Name
	wrap    bool
	cursor  int
	art     *sprite.Library
}

func (s *listScreen) Links() []screen.Name {
	links := []screen.Name{s.back}
	for _, entry := range s.entries {
		links = append(links, entry.target)
	}

	return links
}

func (s *listScreen) Cursor() int {
	return s.cursor
}

func (s *listScreen) HandleInput(evt input.Event) screen.Name {
	if !evt.Pressed {
		return screen.Stay
	}

	switch evt.Kind {
	case input.Up, input.Down:
		if s.wrap {
			s.cursor = widget.Wrap(s.cursor+evt.Kind.Step(), len(s.entries))
		} else {
			s.cursor = widget.Clamp(s.cursor+evt.Kind.Step(), 0, len(s.entries)-1)
		}
	case input.ButtonA:
		return s.entries[s.cursor].target
	case input.Left:
		return s.back
	case input.Right, input.ButtonB, input.ButtonC, input.Quit:
	}

	return screen.Stay
}

func (s *listScreen) Update(time.Duration) {}

func (s *listScreen) Render(frame *image.RGBA) {
	blank(frame)
	titleBar(frame, s.title)

	for i, entry := range s.entries {
		listRow(frame, s.art, i, entry.label, i == s.cursor, nil)
	}

	hint(frame, "A:open  <:back")
}

type MenuScreen struct {
	listScreen
}

func NewMenuScreen(deps Deps) *MenuScreen {
	return &MenuScreen{listScreen{
		title: "Menu",
		entries: []menuEntry{
			{label: "Home", target: Home},
			{label: "Habits", target: HabitChecker},
			{label: "Stats", target: Stats},
			{label: "Settings", target: Settings},
		},
		back: Home,
		wrap: true,
		art:  deps.Art,
	}}
}

type SettingsScreen struct {
	listScreen
}

func NewSettingsScreen(deps Deps) *SettingsScreen {
	return &SettingsScreen{listScreen{
		title: "Settings",
		entries: []menuEntry{
			{label: "Habits", target: ViewHabits},
			{label: "Update", target: Update},
			{label: "About", target: About},
		},
		back: Menu,
		art:  deps.Art,
	}}
}
