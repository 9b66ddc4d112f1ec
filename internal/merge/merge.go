package merge

import "reflect"

// ArrayMode selects how array values found on both sides of a merge combine.
type ArrayMode int

const (
	// ArrayReplace lets the patch array overwrite the base array wholesale.
	ArrayReplace ArrayMode = iota
	// ArrayIndex merges arrays position by position, keeping trailing base
	// elements the patch does not reach.
	ArrayIndex
)

// Documents deep merges patch onto base and returns a new document. Neither
// input is modified. Nested maps merge key by key; any other patch value
// overwrites what base holds at the same key.
func Documents(base, patch map[string]any, mode ArrayMode) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for key, value := range base {
		out[key] = Clone(value)
	}
	for key, value := range patch {
		existing, ok := out[key]
		if !ok {
			out[key] = Clone(value)
			continue
		}
		out[key] = mergeAny(existing, value, mode)
	}
	return out
}

func mergeAny(base, patch any, mode ArrayMode) any {
	switch typed := patch.(type) {
	case map[string]any:
		if baseMap, ok := base.(map[string]any); ok {
			return Documents(baseMap, typed, mode)
		}
		return Clone(typed)
	case []any:
		if mode != ArrayIndex {
			return Clone(typed)
		}
		baseSlice, ok := base.([]any)
		if !ok {
			return Clone(typed)
		}
		size := len(baseSlice)
		if len(typed) > size {
			size = len(typed)
		}
		out := make([]any, size)
		for i := range out {
			switch {
			case i < len(typed) && i < len(baseSlice):
				out[i] = mergeAny(baseSlice[i], typed[i], mode)
			case i < len(typed):
				out[i] = Clone(typed[i])
			default:
				out[i] = Clone(baseSlice[i])
			}
		}
		return out
	default:
		return Clone(patch)
	}
}

// Clone returns a deep copy of value. Pointers, maps, slices, arrays and
// exported struct fields are copied recursively; unexported struct fields are
// copied shallowly.
func Clone[T any](value T) T {
	var zero T
	rv := reflect.ValueOf(&value).Elem()
	cloned := cloneValue(rv)
	if !cloned.IsValid() {
		return zero
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(cloned)
	result, _ := out.Interface().(T)
	return result
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		return v
	}
}
