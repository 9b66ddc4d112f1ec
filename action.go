package modelslice

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/goliatone/go-modelslice/internal/hydrate"
)

// Operation names one of the six slice mutations.
type Operation string

const (
	OpHydrate   Operation = "hydrate"
	OpUpdate    Operation = "update"
	OpSet       Operation = "set"
	OpReset     Operation = "reset"
	OpSetStatus Operation = "setStatus"
	OpSetError  Operation = "setError"
)

// Operations lists every mutation in declaration order.
var Operations = []Operation{OpHydrate, OpUpdate, OpSet, OpReset, OpSetStatus, OpSetError}

// Valid reports whether op is a known mutation.
func (op Operation) Valid() bool {
	for _, candidate := range Operations {
		if candidate == op {
			return true
		}
	}
	return false
}

// Patch is a partial model document deep merged by update.
type Patch map[string]any

// Action is a payload-carrying descriptor dispatched to a reducer.
type Action struct {
	Type    string     `json:"type"`
	Payload any        `json:"payload,omitempty"`
	Meta    ActionMeta `json:"meta,omitzero"`
}

// ActionMeta carries values computed when the action was built. Timestamp is
// the wall-clock time recorded by hydrate, update and set.
type ActionMeta struct {
	Timestamp string `json:"timestamp,omitempty"`
}

// ActionType returns the namespaced type "<slice>/<operation>".
func ActionType(slice string, op Operation) string {
	return slice + "/" + string(op)
}

// ParseActionType splits a namespaced type. ok is false when actionType has no
// namespace or names an unknown operation.
func ParseActionType(actionType string) (slice string, op Operation, ok bool) {
	idx := strings.LastIndex(actionType, "/")
	if idx <= 0 || idx == len(actionType)-1 {
		return "", "", false
	}
	op = Operation(actionType[idx+1:])
	if !op.Valid() {
		return "", "", false
	}
	return actionType[:idx], op, true
}

// Actions builds the actions a slice reducer recognises.
type Actions[M any, S StatusEnum[S]] struct {
	name  string
	clock Clock
}

// Type returns the action type for op within this slice.
func (a Actions[M, S]) Type(op Operation) string {
	return ActionType(a.name, op)
}

// Types returns every action type of this slice.
func (a Actions[M, S]) Types() []string {
	out := make([]string, 0, len(Operations))
	for _, op := range Operations {
		out = append(out, a.Type(op))
	}
	return out
}

// Match reports the operation action targets when it belongs to this slice.
func (a Actions[M, S]) Match(action Action) (Operation, bool) {
	slice, op, ok := ParseActionType(action.Type)
	if !ok || slice != a.name {
		return "", false
	}
	return op, true
}

// Hydrate replaces the model and marks it as freshly loaded.
func (a Actions[M, S]) Hydrate(model M) Action {
	return a.stamped(OpHydrate, model)
}

// Update deep merges patch onto the current model.
func (a Actions[M, S]) Update(patch Patch) Action {
	return a.stamped(OpUpdate, patch)
}

// UpdateModel deep merges the non-zero fields of partial onto the current
// model. Zero values (false, 0, "", nil and empty objects) are skipped, so
// resetting a field to its zero value needs Update with an explicit Patch:
//
//	actions.Update(modelslice.Patch{"enabled": false})
func (a Actions[M, S]) UpdateModel(partial M) Action {
	doc, err := hydrate.ToDocument(partial, true)
	if err != nil || doc == nil {
		return a.stamped(OpUpdate, partial)
	}
	return a.stamped(OpUpdate, Patch(pruneZeroLeaves(doc)))
}

func pruneZeroLeaves(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		switch typed := value.(type) {
		case nil:
			continue
		case bool:
			if !typed {
				continue
			}
		case string:
			if typed == "" {
				continue
			}
		case json.Number:
			if f, err := typed.Float64(); err == nil && f == 0 {
				continue
			}
		case []any:
			if len(typed) == 0 {
				continue
			}
		case map[string]any:
			nested := pruneZeroLeaves(typed)
			if len(nested) == 0 {
				continue
			}
			value = nested
		}
		out[key] = value
	}
	return out
}

// Set replaces the model as a modification.
func (a Actions[M, S]) Set(model M) Action {
	return a.stamped(OpSet, model)
}

// Reset restores the construction-time state.
func (a Actions[M, S]) Reset() Action {
	return Action{Type: a.Type(OpReset)}
}

// SetStatus replaces the lifecycle status.
func (a Actions[M, S]) SetStatus(status S) Action {
	return Action{Type: a.Type(OpSetStatus), Payload: status}
}

// SetError records err, or clears the stored error when err is nil.
func (a Actions[M, S]) SetError(err error) Action {
	if isNilError(err) {
		return Action{Type: a.Type(OpSetError)}
	}
	return Action{Type: a.Type(OpSetError), Payload: err}
}

func (a Actions[M, S]) stamped(op Operation, payload any) Action {
	return Action{
		Type:    a.Type(op),
		Payload: payload,
		Meta:    ActionMeta{Timestamp: a.clock.timestamp()},
	}
}

func isNilError(err error) bool {
	if err == nil {
		return true
	}
	rv := reflect.ValueOf(err)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
