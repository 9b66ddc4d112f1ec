package modelslice

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFunctionRegistryRegister(t *testing.T) {
	noop := func(args ...any) (any, error) { return nil, nil }

	cases := []struct {
		name    string
		fn      Function
		wantErr error
	}{
		{name: "percentOf", fn: noop},
		{name: "_private2", fn: noop},
		{name: "", fn: noop, wantErr: ErrFunctionNameInvalid},
		{name: "status", fn: noop, wantErr: ErrFunctionNameInvalid},
		{name: "lastHydrated", fn: noop, wantErr: ErrFunctionNameInvalid},
		{name: "2fast", fn: noop, wantErr: ErrFunctionNameInvalid},
		{name: "with-dash", fn: noop, wantErr: ErrFunctionNameInvalid},
	}
	registry := NewFunctionRegistry()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := registry.Register(tc.name, tc.fn)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if err := registry.Register("percentOf", noop); err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if err := registry.Register("missingFn", nil); err == nil {
		t.Fatalf("expected nil function rejection")
	}
	if !reflect.DeepEqual([]string{"_private2", "percentOf"}, registry.Names()) {
		t.Fatalf("unexpected names %v", registry.Names())
	}
}

func TestFunctionRegistryCall(t *testing.T) {
	registry := NewFunctionRegistry()
	_ = registry.Register("percentOf", func(args ...any) (any, error) {
		return args[0].(float64) / args[1].(float64) * 100, nil
	})
	_ = registry.Register("explode", func(args ...any) (any, error) {
		panic("bad helper")
	})

	got, err := registry.Call("percentOf", 1.0, 4.0)
	if err != nil || got != 25.0 {
		t.Fatalf("expected 25, got %v err=%v", got, err)
	}
	if _, err := registry.Call("PercentOf", 1.0, 4.0); !errors.Is(err, ErrFunctionNotRegistered) {
		t.Fatalf("expected case sensitive lookup, got %v", err)
	}
	if _, err := registry.Call("explode"); err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("expected panic reported as error, got %v", err)
	}

	var missing *FunctionRegistry
	if _, err := missing.Call("percentOf"); !errors.Is(err, ErrFunctionNotRegistered) {
		t.Fatalf("expected nil registry to report missing function, got %v", err)
	}
}

func TestFunctionRegistryCloneIsDetached(t *testing.T) {
	registry := NewFunctionRegistry()
	_ = registry.Register("first", func(args ...any) (any, error) { return 1, nil })

	clone := registry.Clone()
	_ = registry.Register("second", func(args ...any) (any, error) { return 2, nil })

	if !reflect.DeepEqual([]string{"first"}, clone.Names()) {
		t.Fatalf("clone should not see later registrations, got %v", clone.Names())
	}
}
