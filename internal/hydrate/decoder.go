package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-modelslice/internal/merge"
)

// Context identifies the slice operation a document conversion serves.
type Context struct {
	Slice     string
	Operation string
}

// PreHook lets callers mutate or normalise the document before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the decoded model.
type PostHook[T any] func(Context, *T) error

// CodecOption configures a Codec instance.
type CodecOption[T any] func(*Codec[T])

// Codec converts between a typed model and its document form.
type Codec[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) CodecOption[T] {
	return func(c *Codec[T]) {
		c.preHooks = append(c.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) CodecOption[T] {
	return func(c *Codec[T]) {
		c.postHooks = append(c.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects document keys the model does not declare.
func WithDisallowUnknownFields[T any]() CodecOption[T] {
	return func(c *Codec[T]) {
		c.configureDec = append(c.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

func NewCodec[T any](opts ...CodecOption[T]) *Codec[T] {
	c := &Codec[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Encode returns the document form of value. Numbers keep their exact
// textual representation so a later Decode restores them without loss.
func (c *Codec[T]) Encode(value T) (map[string]any, error) {
	return ToDocument(value, true)
}

// Decode converts payload into T applying configured hooks.
func (c *Codec[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	return c.DecodeOnto(ctx, zero, payload)
}

// DecodeOnto decodes payload over a deep copy of base. Fields the document
// does not carry, such as unexported or json:"-" fields, keep their base value.
func (c *Codec[T]) DecodeOnto(ctx Context, base T, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for slice %q", ctx.Slice)
	}

	current := merge.Clone(payload)
	for _, hook := range c.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for slice %q failed: %w", ctx.Slice, err)
		}
		if next != nil {
			current = next
		}
	}

	result := merge.Clone(base)
	if direct, ok := any(&result).(*map[string]any); ok {
		*direct = current
	} else {
		buffer, err := json.Marshal(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: marshal payload for slice %q: %w", ctx.Slice, err)
		}
		decoder := json.NewDecoder(bytes.NewReader(buffer))
		for _, configure := range c.configureDec {
			if configure != nil {
				configure(decoder)
			}
		}
		if err := decoder.Decode(&result); err != nil {
			return zero, fmt.Errorf("hydrate: decode %s for slice %q: %w", ctx.Operation, ctx.Slice, err)
		}
	}

	for _, hook := range c.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for slice %q failed: %w", ctx.Slice, err)
		}
	}

	return result, nil
}

// ToDocument converts value into a map document. A map[string]any is deep
// copied as is; anything else goes through its JSON encoding, which must be a
// JSON object. useNumber keeps numbers as json.Number instead of float64.
func ToDocument(value any, useNumber bool) (map[string]any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return merge.Clone(typed), nil
	}

	buffer, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("hydrate: marshal %T: %w", value, err)
	}
	if bytes.Equal(bytes.TrimSpace(buffer), []byte("null")) {
		return nil, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if useNumber {
		decoder.UseNumber()
	}
	var out map[string]any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("hydrate: %T is not an object document: %w", value, err)
	}
	return out, nil
}
