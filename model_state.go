package modelslice

import "github.com/goliatone/go-modelslice/internal/merge"

// ModelState holds one domain model plus its bookkeeping metadata. Values are
// treated as immutable: every mutation builds a new ModelState.
type ModelState[M any, S StatusEnum[S]] struct {
	Model        *M                 `json:"model"`
	Status       S                  `json:"status"`
	Error        *SerializableError `json:"error"`
	LastModified *string            `json:"lastModified"`
	LastHydrated *string            `json:"lastHydrated"`
}

// Partial carries construction overrides. Nil fields keep the default.
type Partial[M any, S StatusEnum[S]] struct {
	Model        *M
	Status       *S
	Error        *SerializableError
	LastModified *string
	LastHydrated *string
}

// NewModelState builds a state from the defaults (no model, default status,
// no error, no timestamps) with overrides applied on top.
func NewModelState[M any, S StatusEnum[S]](overrides Partial[M, S]) *ModelState[M, S] {
	var status S
	state := &ModelState[M, S]{
		Status: status.Default(),
	}
	if overrides.Model != nil {
		model := merge.Clone(*overrides.Model)
		state.Model = &model
	}
	if overrides.Status != nil {
		state.Status = *overrides.Status
	}
	if overrides.Error != nil {
		state.Error = overrides.Error.clone()
	}
	if overrides.LastModified != nil {
		state.LastModified = stringPtr(*overrides.LastModified)
	}
	if overrides.LastHydrated != nil {
		state.LastHydrated = stringPtr(*overrides.LastHydrated)
	}
	return state
}

// IsHydrated reports whether a model has been loaded or set.
func (s *ModelState[M, S]) IsHydrated() bool {
	return s != nil && s.Model != nil
}

// HasError reports whether an error is recorded.
func (s *ModelState[M, S]) HasError() bool {
	return s != nil && s.Error != nil
}

// Clone returns a shallow copy: a new top-level value sharing field values
// with s.
func (s *ModelState[M, S]) Clone() *ModelState[M, S] {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func (s *ModelState[M, S]) withStatus(status S) *ModelState[M, S] {
	next := s.Clone()
	next.Status = status
	return next
}

func (s *ModelState[M, S]) withError(err *SerializableError) *ModelState[M, S] {
	next := s.Clone()
	next.Error = err
	return next
}

func stringPtr(value string) *string {
	return &value
}
