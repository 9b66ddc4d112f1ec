package activity

import (
	"strings"
	"time"

	"github.com/goliatone/go-modelslice"
)

// ObjectTypeSlice is the object type of every slice event.
const ObjectTypeSlice = "slice"

// Slice event verbs.
const (
	VerbHydrated      = "slice.hydrated"
	VerbUpdated       = "slice.updated"
	VerbSet           = "slice.set"
	VerbReset         = "slice.reset"
	VerbStatusChanged = "slice.status_changed"
	VerbErrorSet      = "slice.error_set"
	VerbErrorCleared  = "slice.error_cleared"
)

// VerbFor maps a slice operation to its event verb. setError maps to
// VerbErrorSet; BuildSliceEvent switches to VerbErrorCleared when the input
// carries no error.
func VerbFor(op modelslice.Operation) (string, bool) {
	switch op {
	case modelslice.OpHydrate:
		return VerbHydrated, true
	case modelslice.OpUpdate:
		return VerbUpdated, true
	case modelslice.OpSet:
		return VerbSet, true
	case modelslice.OpReset:
		return VerbReset, true
	case modelslice.OpSetStatus:
		return VerbStatusChanged, true
	case modelslice.OpSetError:
		return VerbErrorSet, true
	default:
		return "", false
	}
}

// SliceEventInput describes a committed transition of one slice.
type SliceEventInput struct {
	Slice      string
	Operation  modelslice.Operation
	ActionType string
	Actor      Actor
	Channel    string

	PreviousStatus string
	Status         string
	Error          *modelslice.SerializableError
	LastModified   *string
	LastHydrated   *string

	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSliceEvent converts input into an Event. An unknown operation yields
// an event without a verb, which Hooks.Notify drops.
func BuildSliceEvent(input SliceEventInput) Event {
	verb, _ := VerbFor(input.Operation)
	if input.Operation == modelslice.OpSetError && input.Error == nil {
		verb = VerbErrorCleared
	}

	metadata := cloneMetadata(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.ActionType != "" {
		set("action", input.ActionType)
	}
	if input.Status != "" {
		set("status", input.Status)
	}
	if input.PreviousStatus != "" && input.PreviousStatus != input.Status {
		set("previous_status", input.PreviousStatus)
	}
	if input.Error != nil {
		set("error_name", input.Error.Name)
		set("error_message", input.Error.Message)
	}
	if input.LastModified != nil {
		set("last_modified", *input.LastModified)
	}
	if input.LastHydrated != nil {
		set("last_hydrated", *input.LastHydrated)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.Actor.ID),
		UserID:     strings.TrimSpace(input.Actor.UserID),
		TenantID:   strings.TrimSpace(input.Actor.TenantID),
		ObjectType: ObjectTypeSlice,
		ObjectID:   strings.TrimSpace(input.Slice),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
