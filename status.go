package modelslice

import "strings"

// StatusEnum constrains the lifecycle enumeration a slice tracks. Default
// reports the member a freshly constructed state starts with.
type StatusEnum[S any] interface {
	comparable
	Default() S
}

// Status is the built-in lifecycle enumeration for model slices.
type Status string

const (
	// StatusIdle is the default member: nothing has been requested yet.
	StatusIdle Status = "idle"
	// StatusLoading marks an in-flight load or save.
	StatusLoading Status = "loading"
	// StatusSucceeded marks the last request as completed.
	StatusSucceeded Status = "succeeded"
	// StatusFailed marks the last request as failed; the slice error usually
	// carries the reason.
	StatusFailed Status = "failed"
)

// Default implements StatusEnum.
func (Status) Default() Status {
	return StatusIdle
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the declared members.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusLoading, StatusSucceeded, StatusFailed:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string into a Status. Unknown values map to
// StatusIdle and ok=false.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return StatusIdle, false
	}
	return status, true
}
