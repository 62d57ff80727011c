package confschema_test

import (
	"errors"
	"testing"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/value"
)

func TestParseNode_RoundTripKeepsKeys(t *testing.T) {
	in := `{"type":"object","required":true,"properties":{"z":{"type":"regex","pattern":"a+","description":"zed"},` +
		`"a":{"type":"array","nullable":true,"min":1,"max":3,"items":[{"type":"integer"}]}}}`
	n := schemaOf(t, in)
	if got := mustJSON(t, n.Value()); got != in {
		t.Fatalf("got  %s\nwant %s", got, in)
	}
	if n.Properties[0].Name != "z" || n.Properties[1].Name != "a" {
		t.Fatal("property order lost")
	}
	if p, ok := n.Properties[0].Schema.Param("pattern"); !ok || value.Text(p) != "a+" {
		t.Fatalf("pattern param = %v", p)
	}
}

func TestParseNode_Bounds(t *testing.T) {
	n := schemaOf(t, `{"type":"array","length":2.0}`)
	if n.LengthBound() != 2 || n.MinBound() != confschema.Unbounded || n.MaxBound() != confschema.Unbounded {
		t.Fatalf("bounds = %d %d %d", n.LengthBound(), n.MinBound(), n.MaxBound())
	}
	if n.IsRequired() || n.IsNullable() {
		t.Fatal("flags default to false")
	}
}

func TestParseNode_SingleItemMapping(t *testing.T) {
	n := schemaOf(t, `{"type":"array","items":{"type":"string"}}`)
	if len(n.Items) != 1 || n.Items[0].Type != "string" {
		t.Fatalf("items = %v", n.Items)
	}
}

func TestParseNode_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{`[]`, confschema.ErrInvalidSchema},
		{`{"required":true}`, confschema.ErrMissingType},
		{`{"type":null}`, confschema.ErrMissingType},
		{`{"type":1}`, confschema.ErrInvalidSchema},
		{`{"type":"string","required":"yes"}`, confschema.ErrInvalidSchema},
		{`{"type":"array","min":1.5}`, confschema.ErrInvalidSchema},
		{`{"type":"object","properties":[]}`, confschema.ErrInvalidSchema},
		{`{"type":"array","items":[{"nullable":true}]}`, confschema.ErrMissingType},
	}
	for _, tc := range cases {
		_, err := confschema.ParseNode(jsonValue(t, tc.in))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestExample_Shape(t *testing.T) {
	n := schemaOf(t, `{"type":"object","properties":{"s":{"type":"string"},"n":{"type":"number"},
		"xs":{"type":"array","items":[{"type":"boolean"}]},"u":{"type":"email"}}}`)
	got := mustJSON(t, n.Example())
	want := `{"s":"","n":0.0,"xs":[false],"u":null}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
