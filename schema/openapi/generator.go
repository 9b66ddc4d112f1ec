package openapi

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-modelslice"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a SchemaGenerator emitting an OpenAPI document whose
// components describe the slice state.
func NewGenerator(opts ...GeneratorOption) modelslice.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option wires the OpenAPI generator into a slice.
func Option(opts ...GeneratorOption) modelslice.Option {
	return modelslice.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(value any) (modelslice.SchemaDocument, error) {
	schemas := map[string]any{}
	if value != nil {
		if err := g.addSchemas(schemas, value); err != nil {
			return modelslice.SchemaDocument{}, err
		}
	}

	info := map[string]any{
		"title":   g.config.info.Title,
		"version": g.config.info.Version,
	}
	if g.config.info.Description != "" {
		info["description"] = g.config.info.Description
	}
	return modelslice.SchemaDocument{
		Format: modelslice.SchemaFormatOpenAPI,
		Document: map[string]any{
			"openapi":    g.config.openAPIVersion,
			"info":       info,
			"paths":      map[string]any{},
			"components": map[string]any{"schemas": schemas},
		},
	}, nil
}

func (g generator) addSchemas(schemas map[string]any, value any) error {
	root, err := newSchemaBuilder().build(reflect.ValueOf(value))
	if err != nil {
		return err
	}
	if g.config.splitModel {
		if model, ok := properties(root)["model"].(map[string]any); ok && model["type"] == "object" {
			name := g.config.component + "Model"
			schemas[name] = withoutNullable(model)
			ref := map[string]any{"$ref": "#/components/schemas/" + name}
			if model["nullable"] == true {
				ref = map[string]any{"allOf": []any{ref}, "nullable": true}
			}
			properties(root)["model"] = ref
		}
	}
	schemas[g.config.component] = root
	return nil
}

func properties(schema map[string]any) map[string]any {
	props, _ := schema["properties"].(map[string]any)
	return props
}

func withoutNullable(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for key, value := range schema {
		if key != "nullable" {
			out[key] = value
		}
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

// schemaBuilder walks a value by reflection. Nil pointers and empty
// collections are described from their element type; a struct type already
// being described is emitted as a bare object to stop recursion.
type schemaBuilder struct {
	visiting map[reflect.Type]bool
}

func newSchemaBuilder() *schemaBuilder {
	return &schemaBuilder{visiting: map[reflect.Type]bool{}}
}

func (b *schemaBuilder) build(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"nullable": true}, nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		var inner map[string]any
		var err error
		if rv.IsNil() {
			inner, err = b.build(reflect.New(rv.Type().Elem()).Elem())
		} else {
			inner, err = b.build(rv.Elem())
		}
		if err != nil {
			return nil, err
		}
		inner["nullable"] = true
		return inner, nil
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		return b.build(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == timeType {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		return b.schemaForStruct(rv)
	case reflect.Map:
		return b.schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return b.schemaForSlice(rv)
	default:
		return nil, fmt.Errorf("openapi: unsupported kind %s", rv.Kind())
	}
}

func (b *schemaBuilder) schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}
	if rv.Len() == 0 {
		values, err := b.build(reflect.New(rv.Type().Elem()).Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "object", "additionalProperties": values}, nil
	}

	props := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		child, err := b.build(iter.Value())
		if err != nil {
			return nil, err
		}
		props[iter.Key().String()] = child
	}
	return map[string]any{"type": "object", "properties": props}, nil
}

func (b *schemaBuilder) schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	if b.visiting[rt] {
		return map[string]any{"type": "object"}, nil
	}
	b.visiting[rt] = true
	defer delete(b.visiting, rt)

	props := map[string]any{}
	var required []any

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitempty, skip := jsonName(field)
		if skip {
			continue
		}
		child, err := b.build(rv.Field(i))
		if err != nil {
			return nil, err
		}
		props[name] = child
		if !omitempty {
			required = append(required, name)
		}
	}

	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

func jsonName(field reflect.StructField) (name string, omitempty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, option := range parts[1:] {
		if option == "omitempty" || option == "omitzero" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

func (b *schemaBuilder) schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{"type": "string", "format": "byte"}, nil
	}

	var item reflect.Value
	if rv.Len() > 0 {
		item = rv.Index(0)
	} else {
		item = reflect.New(rv.Type().Elem()).Elem()
	}
	items, err := b.build(item)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "array", "items": items}, nil
}
