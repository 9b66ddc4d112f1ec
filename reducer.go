package modelslice

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-modelslice/internal/hydrate"
	"github.com/goliatone/go-modelslice/internal/merge"
)

func (s *Slice[A, M, S]) reduce(state *ModelState[M, S], action Action) *ModelState[M, S] {
	if state == nil {
		state = s.initial
	}
	op, ok := s.Actions.Match(action)
	if !ok {
		return state
	}

	switch op {
	case OpHydrate:
		model, ok := s.modelPayload(action.Payload)
		if !ok {
			return s.reject(state, action, fmt.Errorf("hydrate payload %T is not %s", action.Payload, declaredType[M]()))
		}
		next := state.Clone()
		next.Model = model
		next.LastModified = nil
		next.LastHydrated = stringPtr(s.timestamp(action))
		return next
	case OpSet:
		model, ok := s.modelPayload(action.Payload)
		if !ok {
			return s.reject(state, action, fmt.Errorf("set payload %T is not %s", action.Payload, declaredType[M]()))
		}
		next := state.Clone()
		next.Model = model
		next.LastModified = stringPtr(s.timestamp(action))
		return next
	case OpUpdate:
		model, err := s.mergeModel(state, action.Payload)
		if err != nil {
			return s.reject(state, action, err)
		}
		next := state.Clone()
		next.Model = model
		next.LastModified = stringPtr(s.timestamp(action))
		return next
	case OpReset:
		return s.initial
	case OpSetStatus:
		status, ok := action.Payload.(S)
		if !ok {
			return s.reject(state, action, fmt.Errorf("status payload %T is not %s", action.Payload, declaredType[S]()))
		}
		return state.withStatus(status)
	case OpSetError:
		err, ok := action.Payload.(error)
		if action.Payload == nil || (ok && isNilError(err)) {
			return state.withError(nil)
		}
		if !ok {
			return s.reject(state, action, fmt.Errorf("error payload %T is not an error", action.Payload))
		}
		return state.withError(s.cfg.errorNormalizer()(err))
	default:
		return state
	}
}

func (s *Slice[A, M, S]) timestamp(action Action) string {
	if action.Meta.Timestamp != "" {
		return action.Meta.Timestamp
	}
	return s.cfg.clock.timestamp()
}

// modelPayload accepts M or *M; a nil *M clears the model.
func (s *Slice[A, M, S]) modelPayload(payload any) (*M, bool) {
	switch typed := payload.(type) {
	case M:
		model := merge.Clone(typed)
		return &model, true
	case *M:
		if typed == nil {
			return nil, true
		}
		model := merge.Clone(*typed)
		return &model, true
	default:
		return nil, false
	}
}

func (s *Slice[A, M, S]) mergeModel(state *ModelState[M, S], payload any) (*M, error) {
	patch, err := patchPayload[M](payload)
	if err != nil {
		return nil, err
	}

	var (
		base    map[string]any
		current M
	)
	if state.Model != nil {
		current = *state.Model
		base, err = s.codec.Encode(current)
		if err != nil {
			return nil, err
		}
	}

	merged := merge.Documents(base, patch, s.cfg.arrayMerge.mode())
	model, err := s.codec.DecodeOnto(hydrate.Context{Slice: s.Name, Operation: string(OpUpdate)}, current, merged)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func patchPayload[M any](payload any) (map[string]any, error) {
	switch typed := payload.(type) {
	case Patch:
		return map[string]any(typed), nil
	case map[string]any:
		return typed, nil
	case M, *M:
		doc, err := hydrate.ToDocument(typed, true)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("update payload %T is empty", payload)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("update payload %T is not a patch", payload)
	}
}

func (s *Slice[A, M, S]) reject(state *ModelState[M, S], action Action, err error) *ModelState[M, S] {
	s.cfg.sliceLogger().LogSlice(SliceLogEvent{
		Kind:   SliceEventRejected,
		Slice:  s.Name,
		Action: action.Type,
		Err:    err,
	})
	return state
}

func declaredType[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
