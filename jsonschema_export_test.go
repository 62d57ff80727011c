package confschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	js "github.com/reoring/confschema/jsonschema"
)

func intp(i int) *int { return &i }

func TestJSONSchema_Export(t *testing.T) {
	n := schemaOf(t, `{"type":"object","description":"root","properties":{
		"name":{"type":"string","required":true},
		"mail":{"type":"email","nullable":true},
		"id":{"type":"regex","pattern":"[a-z]+"},
		"ip":{"type":"ip-address","version":6},
		"port":{"type":"port-number"},
		"tags":{"type":"array","length":3,"max":2,"items":[{"type":"any"}]},
		"odd":{"type":"no-such-format"}}}`)

	want := &js.Schema{
		Type:        "object",
		Description: "root",
		Properties: map[string]*js.Schema{
			"name": {Type: "string"},
			"mail": {Type: []string{"string", "null"}, Format: "email"},
			"id":   {Type: "string", Pattern: "^(?:[a-z]+)"},
			"ip":   {Type: "string", Format: "ipv6"},
			"port": {},
			"tags": {Type: "array", Items: &js.Schema{}, MinItems: intp(3), MaxItems: intp(2)},
			"odd":  js.Never(),
		},
		Required: []string{"name"},
	}
	if diff := cmp.Diff(want, n.JSONSchema()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestJSONSchema_BadPatternNeverMatches(t *testing.T) {
	got := schemaOf(t, `{"type":"regex","pattern":"("}`).JSONSchema()
	if diff := cmp.Diff(js.Never(), got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
