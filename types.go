package modelslice

// Reducer computes the next state for action. A nil state means the slice has
// not been initialised yet.
type Reducer[M any, S StatusEnum[S]] func(state *ModelState[M, S], action Action) *ModelState[M, S]

// SliceConfig carries the inputs of CreateModelSlice.
type SliceConfig[A any, M any, S StatusEnum[S]] struct {
	// Name namespaces action types. Uniqueness among sibling slices is the
	// caller's responsibility.
	Name string
	// SelectSliceState projects this slice's state out of the aggregate.
	SelectSliceState func(A) *ModelState[M, S]
	// InitialState overrides the default construction values.
	InitialState Partial[M, S]
	// Debug dumps the slice shape and initial state to the SliceLogger.
	Debug bool
}

// Selectors are the memoized read views of a slice over aggregate state A.
type Selectors[A any, M any, S StatusEnum[S]] struct {
	SelectSliceState   *Selector[A, *ModelState[M, S]]
	SelectModel        *Selector[A, *M]
	SelectStatus       *Selector[A, S]
	SelectError        *Selector[A, *SerializableError]
	SelectLastModified *Selector[A, *string]
	SelectLastHydrated *Selector[A, *string]
}
