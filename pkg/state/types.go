package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-modelslice"
)

var (
	ErrETagMismatch     = errors.New("state: etag mismatch")
	ErrNotFound         = errors.New("state: snapshot not found")
	ErrNothingToPersist = errors.New("state: slice holds no model")
	ErrSliceRequired    = errors.New("state: slice name is required")
)

// Ref identifies one persisted model of one slice. Key distinguishes
// instances, for example a user id; it is empty for singleton models.
type Ref struct {
	Slice string
	Key   string
}

// Identifier returns the canonical storage key.
func (r Ref) Identifier() (string, error) {
	slice := strings.TrimSpace(r.Slice)
	if slice == "" {
		return "", ErrSliceRequired
	}
	key := strings.TrimSpace(r.Key)
	if key == "" {
		return slice, nil
	}
	return fmt.Sprintf("%s/%s", slice, key), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitzero"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot for one Ref.
type Store[M any] interface {
	Load(ctx context.Context, ref Ref) (model M, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, model M, meta Meta) (Meta, error)
}

// Mutator edits a loaded model in place.
type Mutator[M any] func(*M) error

// Hydrator connects a Store to the actions of one slice.
type Hydrator[M any, S modelslice.StatusEnum[S]] struct {
	Store   Store[M]
	Actions modelslice.Actions[M, S]
}

// NewHydrator builds a Hydrator for slice.
func NewHydrator[A any, M any, S modelslice.StatusEnum[S]](store Store[M], slice *modelslice.Slice[A, M, S]) Hydrator[M, S] {
	return Hydrator[M, S]{Store: store, Actions: slice.Actions}
}

// Load reads ref and returns the hydrate action for the stored model. ok is
// false when nothing is stored.
func (h Hydrator[M, S]) Load(ctx context.Context, ref Ref) (modelslice.Action, Meta, bool, error) {
	if h.Store == nil {
		return modelslice.Action{}, Meta{}, false, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return modelslice.Action{}, Meta{}, false, err
	}

	model, meta, ok, err := h.Store.Load(ctx, ref)
	if err != nil {
		return modelslice.Action{}, Meta{}, false, fmt.Errorf("state: load %q: %w", ref.Slice, err)
	}
	if !ok {
		return modelslice.Action{}, Meta{}, false, nil
	}
	return h.Actions.Hydrate(model), meta, true, nil
}

// Persist saves the model held by current. meta.ETag, when set, must match
// the stored ETag. UpdatedAt defaults to the state's lastModified, then its
// lastHydrated.
func (h Hydrator[M, S]) Persist(ctx context.Context, ref Ref, current *modelslice.ModelState[M, S], meta Meta) (Meta, error) {
	if h.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}
	if !current.IsHydrated() {
		return Meta{}, fmt.Errorf("%w: %q", ErrNothingToPersist, ref.Slice)
	}

	_, loadedMeta, ok, err := h.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", ref.Slice, err)
	}
	if !ok {
		loadedMeta = Meta{}
	}
	if err := checkETag(meta, loadedMeta); err != nil {
		return loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	if meta.UpdatedAt.IsZero() {
		saveMeta.UpdatedAt = stateTime(current)
	}
	saved, err := h.Store.Save(ctx, ref, *current.Model, saveMeta)
	if err != nil {
		return loadedMeta, fmt.Errorf("state: save %q: %w", ref.Slice, err)
	}
	return saved, nil
}

// Mutate loads ref, applies fn, saves the result and returns the hydrate
// action for the saved model. A missing snapshot starts from the zero model.
func (h Hydrator[M, S]) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator[M]) (modelslice.Action, Meta, error) {
	if h.Store == nil {
		return modelslice.Action{}, Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return modelslice.Action{}, Meta{}, err
	}
	if fn == nil {
		return modelslice.Action{}, Meta{}, fmt.Errorf("state: mutator is required")
	}

	model, loadedMeta, ok, err := h.Store.Load(ctx, ref)
	if err != nil {
		return modelslice.Action{}, Meta{}, fmt.Errorf("state: load %q: %w", ref.Slice, err)
	}
	if !ok {
		var zero M
		model = zero
		loadedMeta = Meta{}
	}
	if err := checkETag(meta, loadedMeta); err != nil {
		return modelslice.Action{}, loadedMeta, err
	}

	if err := fn(&model); err != nil {
		return modelslice.Action{}, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	if meta.UpdatedAt.IsZero() {
		saveMeta.UpdatedAt = time.Now()
	}
	saved, err := h.Store.Save(ctx, ref, model, saveMeta)
	if err != nil {
		return modelslice.Action{}, loadedMeta, fmt.Errorf("state: save %q: %w", ref.Slice, err)
	}
	return h.Actions.Hydrate(model), saved, nil
}

func checkETag(expected, stored Meta) error {
	if expected.ETag != "" && stored.ETag != "" && expected.ETag != stored.ETag {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected.ETag, stored.ETag)
	}
	return nil
}

func stateTime[M any, S modelslice.StatusEnum[S]](current *modelslice.ModelState[M, S]) time.Time {
	for _, value := range []*string{current.LastModified, current.LastHydrated} {
		if value == nil {
			continue
		}
		if parsed, err := modelslice.ParseTimestamp(*value); err == nil {
			return parsed
		}
	}
	return time.Now()
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
