package state

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-modelslice/internal/merge"
)

// MemoryStore is an in-memory Store for tests and examples keyed by
// Ref.Identifier(). Models are deep copied on the way in and out. Every save
// gets a fresh ETag; SnapshotID is assigned once when the caller gives none.
type MemoryStore[M any] struct {
	mu      sync.RWMutex
	records map[string]memoryRecord[M]
}

type memoryRecord[M any] struct {
	model M
	meta  Meta
}

func NewMemoryStore[M any]() *MemoryStore[M] {
	return &MemoryStore[M]{records: map[string]memoryRecord[M]{}}
}

func (s *MemoryStore[M]) Load(_ context.Context, ref Ref) (M, Meta, bool, error) {
	var zero M
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return zero, Meta{}, false, nil
	}
	return merge.Clone(record.model), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore[M]) Save(_ context.Context, ref Ref, model M, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = map[string]memoryRecord[M]{}
	}
	stored := cloneMeta(meta)
	if stored.SnapshotID == "" {
		if previous, ok := s.records[key]; ok && previous.meta.SnapshotID != "" {
			stored.SnapshotID = previous.meta.SnapshotID
		} else {
			stored.SnapshotID = uuid.NewString()
		}
	}
	stored.ETag = uuid.NewString()
	s.records[key] = memoryRecord[M]{model: merge.Clone(model), meta: stored}
	return cloneMeta(stored), nil
}

// Delete removes the snapshot stored for ref.
func (s *MemoryStore[M]) Delete(_ context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// Len reports the number of stored snapshots.
func (s *MemoryStore[M]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
