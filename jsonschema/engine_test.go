package jsonschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/confschema/jsonschema"
	"github.com/reoring/confschema/value"
)

func intp(i int) *int { return &i }

func TestEngine_ReportsFirstViolationPath(t *testing.T) {
	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ports": {Type: "array", Items: &jsonschema.Schema{Type: "integer"}, MaxItems: intp(3)},
		},
		Required: []string{"ports"},
	}
	data := value.FromAny(map[string]any{"ports": []any{1, "two"}})

	v, err := jsonschema.NewEngine().Validate(s, data)
	if err != nil {
		t.Fatal(err)
	}
	if v == nil {
		t.Fatalf("expected violation")
	}
	if diff := cmp.Diff([]string{"ports", "1"}, v.Path); diff != "" {
		t.Fatalf("path (-want +got):\n%s", diff)
	}
	if v.Keyword != "invalid_type" {
		t.Fatalf("keyword = %q", v.Keyword)
	}
}

func TestEngine_Required(t *testing.T) {
	s := &jsonschema.Schema{Type: "object", Required: []string{"name"}}
	v, err := jsonschema.NewEngine().Validate(s, value.NewMap())
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || v.Keyword != "required" {
		t.Fatalf("got %+v", v)
	}
	if diff := cmp.Diff([]string{"name"}, v.Path); diff != "" {
		t.Fatalf("path (-want +got):\n%s", diff)
	}
}

func TestEngine_ValidAndNullable(t *testing.T) {
	s := &jsonschema.Schema{Type: []string{"string", "null"}}
	for _, d := range []value.Value{value.String("x"), value.Null{}} {
		v, err := jsonschema.NewEngine().Validate(s, d)
		if err != nil || v != nil {
			t.Fatalf("%v: violation=%+v err=%v", d, v, err)
		}
	}
	v, _ := jsonschema.NewEngine().Validate(jsonschema.Never(), value.String("x"))
	if v == nil {
		t.Fatalf("Never must reject")
	}
}
