package store

import (
	"slices"

	"github.com/goliatone/go-modelslice"
)

// State is an immutable snapshot of every registered slice state. A new
// State is committed for each dispatch that changes at least one slice.
type State struct {
	order  []string
	values map[string]any
}

func emptyState() *State {
	return &State{values: map[string]any{}}
}

func (s *State) with(name string, value any) *State {
	next := &State{
		order:  slices.Clone(s.order),
		values: make(map[string]any, len(s.values)+1),
	}
	for key, current := range s.values {
		next.values[key] = current
	}
	if _, ok := next.values[name]; !ok {
		next.order = append(next.order, name)
	}
	next.values[name] = value
	return next
}

// Get returns the state of the named slice.
func (s *State) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return value, ok
}

// Names lists slice names in registration order.
func (s *State) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Select returns a projection of the named slice usable as a slice's
// SelectSliceState over *State. It yields nil when the slice is missing or
// holds a different model type.
func Select[M any, S modelslice.StatusEnum[S]](name string) func(*State) *modelslice.ModelState[M, S] {
	return func(state *State) *modelslice.ModelState[M, S] {
		value, ok := state.Get(name)
		if !ok {
			return nil
		}
		typed, _ := value.(*modelslice.ModelState[M, S])
		return typed
	}
}
