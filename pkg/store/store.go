package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-modelslice"
	"github.com/goliatone/go-modelslice/pkg/activity"
)

var (
	ErrSliceNameRequired = errors.New("store: slice name is required")
	ErrDuplicateSlice    = errors.New("store: duplicate slice name")
)

// Registrant is a slice the store can host. *modelslice.Slice implements it.
type Registrant interface {
	SliceName() string
	InitialAny() any
	ReduceAny(state any, action modelslice.Action) any
}

type summarizer interface {
	SummaryAny(state any) modelslice.StateSummary
}

type registration struct {
	name  string
	slice Registrant
}

// Store hosts several slices behind one dispatch loop. Dispatch is
// serialized; State may be read concurrently.
type Store struct {
	dispatchMu sync.Mutex

	mu          sync.RWMutex
	slices      []registration
	current     *State
	subscribers map[int]func(*State)
	nextSubID   int

	emitter *activity.Emitter
	logger  *slog.Logger
}

// New constructs an empty store.
func New(opts ...Option) *Store {
	cfg := applyOptions(opts)
	return &Store{
		current:     emptyState(),
		subscribers: map[int]func(*State){},
		emitter:     activity.NewEmitter(cfg.hooks, cfg.activity),
		logger:      cfg.logger,
	}
}

// Register adds slices and seeds their initial state. Names must be non-empty
// and unique; on error nothing is registered.
func (s *Store) Register(slices ...Registrant) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.slices)+len(slices))
	for _, existing := range s.slices {
		seen[existing.name] = struct{}{}
	}
	pending := make([]registration, 0, len(slices))
	for _, slice := range slices {
		if slice == nil {
			return ErrSliceNameRequired
		}
		name := strings.TrimSpace(slice.SliceName())
		if name == "" {
			return ErrSliceNameRequired
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSlice, name)
		}
		seen[name] = struct{}{}
		pending = append(pending, registration{name: name, slice: slice})
	}

	next := s.current
	for _, reg := range pending {
		next = next.with(reg.name, reg.slice.InitialAny())
		s.logger.Debug("store: slice registered", slog.String("slice", reg.name))
	}
	s.slices = append(s.slices, pending...)
	s.current = next
	return nil
}

// State returns the current snapshot.
func (s *Store) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to receive every committed State. fn runs on the
// dispatching goroutine and must not call Dispatch. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(*State)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch runs action through every registered reducer. A new State is
// committed only when some slice state changed; subscribers are then
// notified and, when the action targets a registered slice that changed, an
// activity event is emitted. Hook failures are returned after the commit.
func (s *Store) Dispatch(ctx context.Context, action modelslice.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.RLock()
	prev := s.current
	registered := s.slices
	s.mu.RUnlock()

	next := prev
	changed := map[string]struct{}{}
	for _, reg := range registered {
		before, _ := prev.Get(reg.name)
		after := reg.slice.ReduceAny(before, action)
		if after == before {
			continue
		}
		next = next.with(reg.name, after)
		changed[reg.name] = struct{}{}
	}

	if len(changed) == 0 {
		s.logger.Debug("store: action ignored", slog.String("action", action.Type))
		return nil
	}

	s.mu.Lock()
	s.current = next
	subscribers := make([]func(*State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("store: state committed",
		slog.String("action", action.Type),
		slog.Int("changed", len(changed)),
	)
	for _, fn := range subscribers {
		fn(next)
	}

	return s.emit(ctx, action, prev, next, changed)
}

func (s *Store) emit(ctx context.Context, action modelslice.Action, prev, next *State, changed map[string]struct{}) error {
	if !s.emitter.Enabled() {
		return nil
	}
	target, op, ok := modelslice.ParseActionType(action.Type)
	if !ok {
		return nil
	}
	if _, ok := changed[target]; !ok {
		return nil
	}
	reg, ok := s.lookup(target)
	if !ok {
		return nil
	}

	input := activity.SliceEventInput{
		Slice:      target,
		Operation:  op,
		ActionType: action.Type,
		OccurredAt: time.Now(),
	}
	if actor, ok := activity.ActorFrom(ctx); ok {
		input.Actor = actor
	}
	if describe, ok := reg.slice.(summarizer); ok {
		before, _ := prev.Get(target)
		after, _ := next.Get(target)
		previous := describe.SummaryAny(before)
		summary := describe.SummaryAny(after)
		input.PreviousStatus = previous.Status
		input.Status = summary.Status
		input.Error = summary.Error
		input.LastModified = summary.LastModified
		input.LastHydrated = summary.LastHydrated
	}

	if err := s.emitter.Emit(ctx, activity.BuildSliceEvent(input)); err != nil {
		s.logger.Warn("store: activity hooks failed",
			slog.String("slice", target),
			slog.String("action", action.Type),
			slog.Any("error", err),
		)
		return fmt.Errorf("store: activity for %q: %w", action.Type, err)
	}
	return nil
}

func (s *Store) lookup(name string) (registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.slices {
		if reg.name == name {
			return reg, true
		}
	}
	return registration{}, false
}
