package modelslice

import "sync"

// Selector is a memoized read view over aggregate state A. The result is
// recomputed only when the upstream input changes identity; pointer inputs
// give reference-equality semantics. Safe for concurrent use.
type Selector[A any, R any] struct {
	mu             sync.Mutex
	eval           func(A) R
	recomputations int
}

// CreateSelector memoizes combine over the value input projects from the
// aggregate. Interface-typed inputs must hold comparable dynamic values.
func CreateSelector[A any, I comparable, R any](input func(A) I, combine func(I) R) *Selector[A, R] {
	s := &Selector[A, R]{}
	var (
		cached     bool
		lastInput  I
		lastResult R
	)
	s.eval = func(state A) R {
		var in I
		if input != nil {
			in = input(state)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if cached && in == lastInput {
			return lastResult
		}
		var result R
		if combine != nil {
			result = combine(in)
		}
		lastInput, lastResult, cached = in, result, true
		s.recomputations++
		return result
	}
	return s
}

// Select returns the view for state.
func (s *Selector[A, R]) Select(state A) R {
	if s == nil || s.eval == nil {
		var zero R
		return zero
	}
	return s.eval(state)
}

// Recomputations reports how many times the combiner ran.
func (s *Selector[A, R]) Recomputations() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputations
}

// ResetRecomputations zeroes the recomputation counter. The cache is kept.
func (s *Selector[A, R]) ResetRecomputations() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.recomputations = 0
	s.mu.Unlock()
}
