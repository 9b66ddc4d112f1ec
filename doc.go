// Package modelslice generates the reducer, action constructors and memoized
// selectors for a state slice that holds one domain model plus lifecycle
// metadata: a status, a serializable error and the timestamps of the last
// local modification and the last load from an authoritative source.
//
// A slice is created once per model:
//
//	profile := modelslice.CreateModelSlice(modelslice.SliceConfig[App, Profile, modelslice.Status]{
//		Name:             "profile",
//		SelectSliceState: func(app App) *modelslice.ModelState[Profile, modelslice.Status] { return app.Profile },
//	})
//
//	state := profile.Reducer(nil, profile.Actions.Hydrate(loaded))
//	state = profile.Reducer(state, profile.Actions.Update(modelslice.Patch{"address": map[string]any{"zip": "N1"}}))
//
// Every mutation returns a new *ModelState; prior values are never modified,
// so selectors memoize on pointer identity. reset returns the exact value
// built at construction time.
//
// Expression selectors evaluate expr, CEL or (with the js_eval build tag)
// JavaScript against the slice state document. The store subpackage hosts
// several slices behind one dispatch loop, activity turns state transitions
// into audit events and state persists hydrated models.
package modelslice
