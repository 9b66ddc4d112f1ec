package store_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-modelslice"
	"github.com/goliatone/go-modelslice/pkg/activity"
	"github.com/goliatone/go-modelslice/pkg/store"
)

type profile struct {
	Name string `json:"name,omitempty"`
}

type settings struct {
	Theme string `json:"theme,omitempty"`
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newSlices() (*modelslice.Slice[*store.State, profile, modelslice.Status], *modelslice.Slice[*store.State, settings, modelslice.Status]) {
	clock := modelslice.WithClock(func() time.Time { return fixedTime })
	profiles := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, profile, modelslice.Status]{
		Name:             "profile",
		SelectSliceState: store.Select[profile, modelslice.Status]("profile"),
	}, clock)
	prefs := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, settings, modelslice.Status]{
		Name:             "settings",
		SelectSliceState: store.Select[settings, modelslice.Status]("settings"),
	}, clock)
	return profiles, prefs
}

func TestRegisterSeedsInitialState(t *testing.T) {
	profiles, prefs := newSlices()
	s := store.New()
	if err := s.Register(profiles, prefs); err != nil {
		t.Fatalf("register: %v", err)
	}

	state := s.State()
	if !reflect.DeepEqual([]string{"profile", "settings"}, state.Names()) {
		t.Fatalf("unexpected names %v", state.Names())
	}
	if got := profiles.Selectors.SelectSliceState.Select(state); got != profiles.InitialState() {
		t.Fatalf("expected initial profile state seeded")
	}
}

func TestRegisterRejectsInvalidNames(t *testing.T) {
	profiles, _ := newSlices()
	s := store.New()
	if err := s.Register(profiles); err != nil {
		t.Fatalf("register: %v", err)
	}

	duplicate := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, settings, modelslice.Status]{Name: "profile"})
	if err := s.Register(duplicate); !errors.Is(err, store.ErrDuplicateSlice) {
		t.Fatalf("expected ErrDuplicateSlice, got %v", err)
	}

	unnamed := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, settings, modelslice.Status]{})
	if err := s.Register(unnamed); !errors.Is(err, store.ErrSliceNameRequired) {
		t.Fatalf("expected ErrSliceNameRequired, got %v", err)
	}

	a := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, settings, modelslice.Status]{Name: "x"})
	b := modelslice.CreateModelSlice(modelslice.SliceConfig[*store.State, profile, modelslice.Status]{Name: "x"})
	if err := s.Register(a, b); !errors.Is(err, store.ErrDuplicateSlice) {
		t.Fatalf("expected duplicate within one call rejected, got %v", err)
	}
	if _, ok := s.State().Get("x"); ok {
		t.Fatalf("expected failed registration to leave state untouched")
	}
}

func TestDispatchCommitsOnlyChanges(t *testing.T) {
	profiles, prefs := newSlices()
	s := store.New()
	if err := s.Register(profiles, prefs); err != nil {
		t.Fatalf("register: %v", err)
	}

	var commits []*store.State
	unsubscribe := s.Subscribe(func(state *store.State) {
		commits = append(commits, state)
	})

	before := s.State()
	if err := s.Dispatch(context.Background(), profiles.Actions.Hydrate(profile{Name: "ada"})); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	after := s.State()
	if after == before || len(commits) != 1 || commits[0] != after {
		t.Fatalf("expected one commit of a new state")
	}
	if got := profiles.Selectors.SelectModel.Select(after); got == nil || got.Name != "ada" {
		t.Fatalf("unexpected profile model %#v", got)
	}
	if prefs.Selectors.SelectSliceState.Select(after) != prefs.Selectors.SelectSliceState.Select(before) {
		t.Fatalf("expected untouched slice to keep its state value")
	}

	if err := s.Dispatch(context.Background(), modelslice.Action{Type: "unknown/thing"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if s.State() != after || len(commits) != 1 {
		t.Fatalf("expected unrelated action to commit nothing")
	}

	unsubscribe()
	unsubscribe()
	if err := s.Dispatch(context.Background(), prefs.Actions.SetStatus(modelslice.StatusLoading)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("expected no notification after unsubscribe")
	}
}

func TestDispatchEmitsActivity(t *testing.T) {
	profiles, prefs := newSlices()
	capture := &activity.CaptureHook{}
	s := store.New(store.WithActivityHooks(nil, capture))
	if err := s.Register(profiles, prefs); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := activity.WithActor(context.Background(), activity.Actor{ID: "actor-1"})
	actions := []modelslice.Action{
		profiles.Actions.Hydrate(profile{Name: "ada"}),
		profiles.Actions.SetStatus(modelslice.StatusLoading),
		profiles.Actions.SetError(errors.New("boom")),
		profiles.Actions.SetError(nil),
		profiles.Actions.Update(modelslice.Patch{"name": "grace"}),
		profiles.Actions.Set(profile{Name: "lovelace"}),
		profiles.Actions.Reset(),
		profiles.Actions.Reset(),
	}
	for _, action := range actions {
		if err := s.Dispatch(ctx, action); err != nil {
			t.Fatalf("dispatch %s: %v", action.Type, err)
		}
	}

	expect := []string{
		activity.VerbHydrated,
		activity.VerbStatusChanged,
		activity.VerbErrorSet,
		activity.VerbErrorCleared,
		activity.VerbUpdated,
		activity.VerbSet,
		activity.VerbReset,
	}
	if got := capture.Verbs(); !reflect.DeepEqual(expect, got) {
		t.Fatalf("unexpected verbs:\nwant: %v\n got: %v", expect, got)
	}

	events := capture.Events()
	status := events[1]
	if status.ActorID != "actor-1" || status.Channel != activity.DefaultChannel || status.ObjectID != "profile" {
		t.Fatalf("unexpected status event %+v", status)
	}
	if status.Metadata["status"] != "loading" || status.Metadata["previous_status"] != "idle" {
		t.Fatalf("unexpected status metadata %v", status.Metadata)
	}
	if events[2].Metadata["error_message"] != "boom" {
		t.Fatalf("expected error metadata, got %v", events[2].Metadata)
	}
	if events[0].Metadata["last_hydrated"] != "2024-01-02T03:04:05.000+00:00" {
		t.Fatalf("expected hydration timestamp, got %v", events[0].Metadata)
	}
}

func TestDispatchReturnsHookErrorsAfterCommit(t *testing.T) {
	profiles, _ := newSlices()
	hookErr := errors.New("audit unavailable")
	var logs bytes.Buffer
	s := store.New(
		store.WithActivityHooks(activity.HookFunc(func(context.Context, activity.Event) error { return hookErr })),
		store.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	if err := s.Register(profiles); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := s.Dispatch(context.Background(), profiles.Actions.Set(profile{Name: "ada"}))
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if profiles.Selectors.SelectModel.Select(s.State()) == nil {
		t.Fatalf("expected state committed despite hook failure")
	}
	if !strings.Contains(logs.String(), "activity hooks failed") {
		t.Fatalf("expected hook failure logged, got %q", logs.String())
	}
}

func TestDispatchActivityDisabled(t *testing.T) {
	profiles, _ := newSlices()
	capture := &activity.CaptureHook{}
	s := store.New(
		store.WithActivityHooks(capture),
		store.WithActivityConfig(activity.Config{Enabled: false}),
	)
	if err := s.Register(profiles); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Dispatch(context.Background(), profiles.Actions.Set(profile{Name: "ada"})); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no activity when disabled")
	}
}

func TestDispatchHonoursCanceledContext(t *testing.T) {
	profiles, _ := newSlices()
	s := store.New()
	if err := s.Register(profiles); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Dispatch(ctx, profiles.Actions.Set(profile{Name: "ada"})); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if profiles.Selectors.SelectModel.Select(s.State()) != nil {
		t.Fatalf("expected no state change for canceled dispatch")
	}
}

func TestConcurrentDispatch(t *testing.T) {
	profiles, prefs := newSlices()
	s := store.New()
	if err := s.Register(profiles, prefs); err != nil {
		t.Fatalf("register: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := modelslice.StatusLoading
			if i%2 == 0 {
				status = modelslice.StatusSucceeded
			}
			_ = s.Dispatch(context.Background(), prefs.Actions.SetStatus(status))
			_ = s.State().Names()
		}(i)
	}
	wg.Wait()

	status := prefs.Selectors.SelectStatus.Select(s.State())
	if status != modelslice.StatusLoading && status != modelslice.StatusSucceeded {
		t.Fatalf("unexpected final status %q", status)
	}
}

func TestSelectForeignType(t *testing.T) {
	profiles, _ := newSlices()
	s := store.New()
	if err := s.Register(profiles); err != nil {
		t.Fatalf("register: %v", err)
	}
	if store.Select[settings, modelslice.Status]("profile")(s.State()) != nil {
		t.Fatalf("expected nil for mismatched model type")
	}
	if store.Select[profile, modelslice.Status]("missing")(s.State()) != nil {
		t.Fatalf("expected nil for missing slice")
	}
}
