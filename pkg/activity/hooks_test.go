package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsAndCopies(t *testing.T) {
	meta := map[string]any{"status": "idle"}
	evt := Event{
		Verb:       " slice.set ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " slice ",
		ObjectID:   " profile ",
		Channel:    " slices ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "slice.set" || got.ObjectType != "slice" || got.ObjectID != "profile" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "slices" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["status"] = "changed"
	if evt.Metadata["status"] != "idle" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyDropsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	incomplete := []Event{
		{},
		{Verb: VerbSet, ObjectType: ObjectTypeSlice},
		{Verb: " ", ObjectType: ObjectTypeSlice, ObjectID: "profile"},
	}
	for _, evt := range incomplete {
		if err := hooks.Notify(context.Background(), evt); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if got := len(capture.Events()); got != 0 {
		t.Fatalf("expected no events captured, got %d", got)
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	errFirst := errors.New("boom1")
	errSecond := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return errFirst }),
		nil,
		HookFunc(func(context.Context, Event) error { return errSecond }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbSet, ObjectType: ObjectTypeSlice, ObjectID: "profile"})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if got := len(capture.Events()); got != 1 {
		t.Fatalf("expected event to be captured once, got %d", got)
	}
}

func TestHooksEnabled(t *testing.T) {
	if (Hooks{}).Enabled() || (Hooks{nil}).Enabled() {
		t.Fatalf("expected empty hooks disabled")
	}
	if !(Hooks{&CaptureHook{}}).Enabled() {
		t.Fatalf("expected hooks enabled")
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	evt := Event{Verb: VerbReset, ObjectType: ObjectTypeSlice, ObjectID: "profile"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), evt); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), evt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 || events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %+v", events)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "audit"})
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbSet,
		ObjectType: ObjectTypeSlice,
		ObjectID:   "profile",
		Channel:    "custom",
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", events[0].Channel)
	}
	if !events[0].OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at preserved, got %v", events[0].OccurredAt)
	}
	if emitter.Channel() != "audit" {
		t.Fatalf("unexpected emitter channel %q", emitter.Channel())
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Enabled || cfg.Channel != DefaultChannel {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	t.Setenv("MODELSLICE_ACTIVITY_ENABLED", "false")
	t.Setenv("MODELSLICE_ACTIVITY_CHANNEL", "audit")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Enabled || cfg.Channel != "audit" {
		t.Fatalf("unexpected env config %+v", cfg)
	}
}

func TestActorContext(t *testing.T) {
	if _, ok := ActorFrom(context.Background()); ok {
		t.Fatalf("expected no actor on empty context")
	}
	ctx := WithActor(context.Background(), Actor{ID: "a", TenantID: "t"})
	actor, ok := ActorFrom(ctx)
	if !ok || actor.ID != "a" || actor.TenantID != "t" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}
