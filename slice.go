package modelslice

import (
	"fmt"

	"github.com/goliatone/go-modelslice/internal/hydrate"
)

// Slice bundles everything generated for one model slice.
type Slice[A any, M any, S StatusEnum[S]] struct {
	Name      string
	Reducer   Reducer[M, S]
	Actions   Actions[M, S]
	Selectors Selectors[A, M, S]

	initial     *ModelState[M, S]
	selectState func(A) *ModelState[M, S]
	codec       *hydrate.Codec[M]
	cfg         sliceOptions
}

// CreateModelSlice builds the reducer, action constructors and selectors for
// one slice. It never fails; a panicking debug sink is recovered.
func CreateModelSlice[A any, M any, S StatusEnum[S]](config SliceConfig[A, M, S], opts ...Option) *Slice[A, M, S] {
	cfg := applyOptions(opts)
	if config.Debug {
		cfg.debug = true
	}

	slice := &Slice[A, M, S]{
		Name:    config.Name,
		Actions: Actions[M, S]{name: config.Name, clock: cfg.clock},
		initial: NewModelState(config.InitialState),
		codec:   hydrate.NewCodec[M](),
		cfg:     cfg,
	}
	slice.selectState = func(state A) *ModelState[M, S] {
		if config.SelectSliceState == nil {
			return nil
		}
		return config.SelectSliceState(state)
	}
	slice.Reducer = slice.reduce
	slice.Selectors = newSelectors(slice.selectState)

	if cfg.debug {
		slice.logCreated()
	}
	return slice
}

// InitialState returns the construction-time state. reset returns this exact
// value.
func (s *Slice[A, M, S]) InitialState() *ModelState[M, S] {
	return s.initial
}

// SliceName reports the registration name used by a host store.
func (s *Slice[A, M, S]) SliceName() string {
	return s.Name
}

// InitialAny returns InitialState as an untyped value.
func (s *Slice[A, M, S]) InitialAny() any {
	return s.initial
}

// ReduceAny adapts Reducer to untyped host containers. A state of a foreign
// type is treated as missing.
func (s *Slice[A, M, S]) ReduceAny(state any, action Action) any {
	typed, _ := state.(*ModelState[M, S])
	return s.reduce(typed, action)
}

func newSelectors[A any, M any, S StatusEnum[S]](selectState func(A) *ModelState[M, S]) Selectors[A, M, S] {
	sliceState := CreateSelector(selectState, func(state *ModelState[M, S]) *ModelState[M, S] {
		return state
	})
	return Selectors[A, M, S]{
		SelectSliceState: sliceState,
		SelectModel: CreateSelector(sliceState.Select, func(state *ModelState[M, S]) *M {
			if state == nil {
				return nil
			}
			return state.Model
		}),
		SelectStatus: CreateSelector(sliceState.Select, func(state *ModelState[M, S]) S {
			if state == nil {
				var status S
				return status.Default()
			}
			return state.Status
		}),
		SelectError: CreateSelector(sliceState.Select, func(state *ModelState[M, S]) *SerializableError {
			if state == nil {
				return nil
			}
			return state.Error
		}),
		SelectLastModified: CreateSelector(sliceState.Select, func(state *ModelState[M, S]) *string {
			if state == nil {
				return nil
			}
			return state.LastModified
		}),
		SelectLastHydrated: CreateSelector(sliceState.Select, func(state *ModelState[M, S]) *string {
			if state == nil {
				return nil
			}
			return state.LastHydrated
		}),
	}
}

// StateSummary is the untyped view of a slice state used by host containers
// for auditing.
type StateSummary struct {
	Hydrated     bool
	Status       string
	Error        *SerializableError
	LastModified *string
	LastHydrated *string
}

// SummaryAny describes state, which must be a state of this slice. A state of
// a foreign type is described as the initial state.
func (s *Slice[A, M, S]) SummaryAny(state any) StateSummary {
	typed, ok := state.(*ModelState[M, S])
	if !ok || typed == nil {
		typed = s.initial
	}
	return StateSummary{
		Hydrated:     typed.IsHydrated(),
		Status:       fmt.Sprint(typed.Status),
		Error:        typed.Error,
		LastModified: typed.LastModified,
		LastHydrated: typed.LastHydrated,
	}
}
