package merge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type mergeFixture struct {
	Description string             `json:"description"`
	Cases       []mergeFixtureCase `json:"cases"`
}

type mergeFixtureCase struct {
	Name          string         `json:"name"`
	Base          map[string]any `json:"base"`
	Patch         map[string]any `json:"patch"`
	ExpectReplace map[string]any `json:"expect_replace"`
	ExpectIndex   map[string]any `json:"expect_index"`
}

func TestDocumentsFromFixture(t *testing.T) {
	fx := loadMergeFixture(t, "merge_documents.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			got := Documents(tc.Base, tc.Patch, ArrayReplace)
			if !reflect.DeepEqual(tc.ExpectReplace, got) {
				t.Errorf("replace mode mismatch:\nwant: %#v\n got: %#v", tc.ExpectReplace, got)
			}
			got = Documents(tc.Base, tc.Patch, ArrayIndex)
			if !reflect.DeepEqual(tc.ExpectIndex, got) {
				t.Errorf("index mode mismatch:\nwant: %#v\n got: %#v", tc.ExpectIndex, got)
			}
		})
	}
}

func TestDocumentsDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": 1}, "list": []any{1, 2}}
	patch := map[string]any{"a": map[string]any{"c": 2}, "list": []any{3}}

	got := Documents(base, patch, ArrayIndex)

	if _, ok := base["a"].(map[string]any)["c"]; ok {
		t.Fatalf("expected base to remain untouched, got %#v", base)
	}
	if base["list"].([]any)[0] != 1 {
		t.Fatalf("expected base list untouched, got %#v", base["list"])
	}
	got["a"].(map[string]any)["c"] = 99
	if patch["a"].(map[string]any)["c"] != 2 {
		t.Fatalf("expected patch detached from result, got %#v", patch)
	}
}

func TestDocumentsNilInputs(t *testing.T) {
	got := Documents(nil, nil, ArrayReplace)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty document, got %#v", got)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	type inner struct {
		Tags []string
	}
	type outer struct {
		Name   string
		Inner  *inner
		Labels map[string]string
		When   time.Time
		hidden int
	}

	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	src := outer{
		Name:   "src",
		Inner:  &inner{Tags: []string{"a"}},
		Labels: map[string]string{"k": "v"},
		When:   when,
		hidden: 7,
	}

	got := Clone(src)
	if !reflect.DeepEqual(src, got) {
		t.Fatalf("expected clone to equal source:\nwant: %#v\n got: %#v", src, got)
	}
	got.Inner.Tags[0] = "changed"
	got.Labels["k"] = "changed"
	if src.Inner.Tags[0] != "a" || src.Labels["k"] != "v" {
		t.Fatalf("expected source untouched, got %#v", src)
	}
	if !got.When.Equal(when) {
		t.Fatalf("expected time preserved, got %v", got.When)
	}
}

func TestCloneNilValues(t *testing.T) {
	var m map[string]any
	if got := Clone(m); got != nil {
		t.Fatalf("expected nil map, got %#v", got)
	}
	var v any
	if got := Clone(v); got != nil {
		t.Fatalf("expected nil interface, got %#v", got)
	}
}

func loadMergeFixture(t *testing.T, name string) mergeFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read merge fixture %q: %v", name, err)
	}
	var fx mergeFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal merge fixture %q: %v", name, err)
	}
	return fx
}
