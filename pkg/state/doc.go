// Package state persists slice models and turns stored snapshots back into
// hydrate actions.
//
// Store[M] only loads and saves one snapshot for one Ref. Hydrator[M, S]
// sits between a Store and a slice:
//
//	Store.Load -> Hydrator.Load -> Actions.Hydrate(model) -> Reducer
//	Reducer -> *ModelState -> Hydrator.Persist -> Store.Save
//
// Hydrate actions mark the slice as freshly loaded, so a model read back from
// storage carries lastHydrated and no lastModified. Persist refuses states
// without a model.
//
// Keys:
//
//	Ref.Identifier() is "<slice>/<key>", or "<slice>" for singleton models.
//	Adapters may use it verbatim as a storage key.
//
// Concurrency control is optimistic: Meta.ETag passed to Persist or Mutate
// must match the stored ETag when both are set.
package state
