package screen

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrEmptyName     = errors.New("screen name is empty")
	ErrNilScreen     = errors.New("screen is nil")
	ErrUnknownScreen = errors.New("unknown screen")
)

// Registry maps names to screen instances. It is built once and never
// mutated.
type Registry struct {
	screens map[Name]Screen
}

func NewRegistry(screens map[Name]Screen) (*Registry, error) {
	registry := &Registry{screens: make(map[Name]Screen, len(screens))}

	for name, scr := range screens {
		if name == Stay {
			return nil, ErrEmptyName
		}

		if scr == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilScreen, name)
		}

		registry.screens[name] = scr
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	return registry, nil
}

func (r *Registry) Get(name Name) (Screen, bool) {
	scr, found := r.screens[name]

	return scr, found
}

func (r *Registry) Has(name Name) bool {
	_, found := r.screens[name]

	return found
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.screens))
	for name := range r.screens {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Validate checks that every declared link resolves to a registered screen.
func (r *Registry) Validate() error {
	var errs []error

	for _, name := range r.Names() {
		linker, ok := r.screens[name].(Linker)
		if !ok {
			continue
		}

		for _, target := range linker.Links() {
			if !r.Has(target) {
				errs = append(errs, fmt.Errorf("%w: %s -> %s", ErrUnknownScreen, name, target))
			}
		}
	}

	return errors.Join(errs...)
}
