package activity

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-modelslice"
)

func TestVerbFor(t *testing.T) {
	expect := map[modelslice.Operation]string{
		modelslice.OpHydrate:   VerbHydrated,
		modelslice.OpUpdate:    VerbUpdated,
		modelslice.OpSet:       VerbSet,
		modelslice.OpReset:     VerbReset,
		modelslice.OpSetStatus: VerbStatusChanged,
		modelslice.OpSetError:  VerbErrorSet,
	}
	for _, op := range modelslice.Operations {
		verb, ok := VerbFor(op)
		if !ok || verb != expect[op] {
			t.Fatalf("VerbFor(%s) = %q, %v", op, verb, ok)
		}
	}
	if _, ok := VerbFor("explode"); ok {
		t.Fatalf("expected unknown operation to have no verb")
	}
}

func TestBuildSliceEvent(t *testing.T) {
	hydrated := "2024-01-02T03:04:05.006+00:00"
	occurred := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	evt := BuildSliceEvent(SliceEventInput{
		Slice:          " profile ",
		Operation:      modelslice.OpSetStatus,
		ActionType:     "profile/setStatus",
		Actor:          Actor{ID: "actor-1"},
		PreviousStatus: "idle",
		Status:         "loading",
		LastHydrated:   &hydrated,
		Metadata:       map[string]any{"request": "r-1"},
		OccurredAt:     occurred,
	})

	if evt.Verb != VerbStatusChanged || evt.ObjectType != ObjectTypeSlice || evt.ObjectID != "profile" {
		t.Fatalf("unexpected event identity %+v", evt)
	}
	if evt.ActorID != "actor-1" || !evt.OccurredAt.Equal(occurred) {
		t.Fatalf("unexpected attribution %+v", evt)
	}
	expect := map[string]any{
		"request":         "r-1",
		"action":          "profile/setStatus",
		"status":          "loading",
		"previous_status": "idle",
		"last_hydrated":   hydrated,
	}
	for key, value := range expect {
		if evt.Metadata[key] != value {
			t.Fatalf("metadata %q = %v, want %v", key, evt.Metadata[key], value)
		}
	}
	if _, ok := evt.Metadata["last_modified"]; ok {
		t.Fatalf("expected no last_modified metadata")
	}
}

func TestBuildSliceEventErrorVerbs(t *testing.T) {
	set := BuildSliceEvent(SliceEventInput{
		Slice:     "profile",
		Operation: modelslice.OpSetError,
		Error:     &modelslice.SerializableError{Name: "E", Message: "boom"},
	})
	if set.Verb != VerbErrorSet || set.Metadata["error_message"] != "boom" || set.Metadata["error_name"] != "E" {
		t.Fatalf("unexpected error event %+v", set)
	}

	cleared := BuildSliceEvent(SliceEventInput{Slice: "profile", Operation: modelslice.OpSetError})
	if cleared.Verb != VerbErrorCleared {
		t.Fatalf("expected cleared verb, got %q", cleared.Verb)
	}
}

func TestBuildSliceEventUnknownOperationIsDropped(t *testing.T) {
	capture := &CaptureHook{}
	evt := BuildSliceEvent(SliceEventInput{Slice: "profile", Operation: "explode"})
	if err := (Hooks{capture}).Notify(context.Background(), evt); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected event without verb to be dropped")
	}
}
