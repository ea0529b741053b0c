// Package screen defines the contract every screen implements, the registry
// of named screens and the session they share.
package screen

import (
	"image"
	"time"

	"github.com/leighmacdonald/lilguy/internal/input"
)

// Name identifies a screen in the registry.
type Name string

// Stay is returned from HandleInput to remain on the current screen.
const Stay Name = ""

// Screen is a self contained unit of UI. HandleInput must accept every kind
// in both press states; screens that do not model held buttons return Stay
// for releases.
type Screen interface {
	HandleInput(evt input.Event) Name
	Update(delta time.Duration)
	Render(frame *image.RGBA)
}

// Reloader is implemented by screens that refresh state when a transition
// lands on them.
type Reloader interface {
	Reload()
}

// Linker declares every name a screen's HandleInput can return so the
// registry can be validated up front.
type Linker interface {
	Links() []Name
}
