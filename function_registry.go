package modelslice

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrFunctionNotRegistered = errors.New("modelslice: selector function not registered")
	ErrFunctionNameInvalid   = errors.New("modelslice: invalid selector function name")
)

// reservedFunctionNames are the identifiers an expression selector already
// binds: the state document keys plus the built-in variables and call.
var reservedFunctionNames = map[string]struct{}{
	"model":        {},
	"status":       {},
	"error":        {},
	"lastModified": {},
	"lastHydrated": {},
	"now":          {},
	"args":         {},
	"slice":        {},
	"call":         {},
}

// Function is a helper callable from expression selectors, either by name or
// through call("name", args...).
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers shared by the expression selectors of a
// slice. Names are case sensitive and must be plain identifiers.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

// Register adds fn under name. Names shadowing a state variable, duplicates
// and nil functions are rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if err := validFunctionName(name); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("modelslice: selector function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("modelslice: selector function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

func validFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrFunctionNameInvalid)
	}
	if _, reserved := reservedFunctionNames[name]; reserved {
		return fmt.Errorf("%w: %q shadows a selector variable", ErrFunctionNameInvalid, name)
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("%w: %q is not an identifier", ErrFunctionNameInvalid, name)
		}
	}
	return nil
}

// Clone copies the name table; functions are shared.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the helper registered under name. A panicking helper is reported
// as an error.
func (r *FunctionRegistry) Call(name string, args ...any) (result any, err error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[name]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotRegistered, name)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result, err = nil, fmt.Errorf("modelslice: selector function %q panicked: %v", name, recovered)
		}
	}()
	return fn(args...)
}

// Names lists registered helpers in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes a copy of registry to the slice's expression
// selectors.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *sliceOptions) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn for the slice's expression selectors.
// Invalid names are ignored; use FunctionRegistry.Register to see the error.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *sliceOptions) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
