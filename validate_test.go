package confschema_test

import (
	"errors"
	"testing"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/formats"
	js "github.com/reoring/confschema/jsonschema"
	"github.com/reoring/confschema/value"
)

func TestValidate_IntegerWidensToNumber(t *testing.T) {
	if !validate(t, `{"type":"number"}`, `3`) || !validate(t, `{"type":"number"}`, `3.14`) {
		t.Fatal("number must accept integers and floats")
	}
	if validate(t, `{"type":"integer"}`, `3.14`) {
		t.Fatal("integer must reject floats")
	}
	if validate(t, `{"type":"integer"}`, `true`) {
		t.Fatal("booleans are not integers")
	}
	items := `{"type":"array","items":[{"type":"number"}]}`
	if !validate(t, items, `[1, 2.5]`) {
		t.Fatal("array items widen too")
	}
}

func TestValidate_RequiredNullableMatrix(t *testing.T) {
	cases := []struct {
		name   string
		prop   string
		data   string
		expect bool
	}{
		{"absent required", `{"type":"string","required":true}`, `{}`, false},
		{"absent optional", `{"type":"string","required":false}`, `{}`, true},
		{"absent default", `{"type":"string"}`, `{}`, true},
		{"null nullable", `{"type":"string","nullable":true}`, `{"a":null}`, true},
		{"null not nullable", `{"type":"string","nullable":false}`, `{"a":null}`, false},
		{"wrong type nullable", `{"type":"string","nullable":true}`, `{"a":1}`, false},
		{"right type", `{"type":"string"}`, `{"a":"x"}`, true},
		{"any takes null", `{"type":"any"}`, `{"a":null}`, true},
		{"null object nullable", `{"type":"object","nullable":true,"properties":{"b":{"type":"string","required":true}}}`, `{"a":null}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := `{"type":"object","properties":{"a":` + tc.prop + `}}`
			if got := validate(t, schema, tc.data); got != tc.expect {
				t.Fatalf("got %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestValidate_ArrayBounds(t *testing.T) {
	schema := `{"type":"array","length":1,"items":[{"type":"string"}]}`
	if !validate(t, schema, `["a"]`) {
		t.Fatal(`["a"] should pass`)
	}

	iss, err := confschema.Check(jsonValue(t, `["a","b"]`), schemaOf(t, schema))
	if err != nil || len(iss) != 1 || iss[0].Code != confschema.CodeInvalidLength {
		t.Fatalf("length: iss=%v err=%v", iss, err)
	}

	iss, err = confschema.Check(jsonValue(t, `[1]`), schemaOf(t, schema))
	if err != nil || len(iss) != 1 || iss[0].Code != confschema.CodeInvalidType || iss[0].Path != "/[0]" {
		t.Fatalf("item type: iss=%v err=%v", iss, err)
	}

	minmax := `{"type":"array","min":2,"max":3}`
	for data, want := range map[string]bool{`[1]`: false, `[1,2]`: true, `[1,2,"x"]`: true, `[1,2,3,4]`: false} {
		if got := validate(t, minmax, data); got != want {
			t.Errorf("%s: got %v", data, got)
		}
	}
	// unbounded markers are ignored
	if !validate(t, `{"type":"array","length":-1,"min":-1,"max":-1,"items":[]}`, `[1,"a",null]`) {
		t.Fatal("-1 bounds and empty items must not constrain")
	}
}

func TestValidate_NullableArrayAcceptsNull(t *testing.T) {
	schema := `{"type":"object","properties":{"xs":{"type":"array","nullable":true,"min":1}}}`
	if !validate(t, schema, `{"xs":null}`) {
		t.Fatal("nullable array must accept null")
	}
	if validate(t, schema, `{"xs":"nope"}`) {
		t.Fatal("non-sequence at array node must fail")
	}
}

func TestValidate_RegexType(t *testing.T) {
	schema := `{"type":"regex","pattern":"foo(bar)?"}`
	for data, want := range map[string]bool{`"foo"`: true, `"foobar"`: true, `"fo0bar"`: false} {
		if got := validate(t, schema, data); got != want {
			t.Errorf("%s: got %v, want %v", data, got, want)
		}
	}
	obj := `{"type":"object","properties":{"k":{"type":"regex","pattern":"^v\\d+$"}}}`
	if !validate(t, obj, `{"k":"v12"}`) || validate(t, obj, `{"k":"v1x"}`) {
		t.Fatal("regex property")
	}
}

func TestValidate_NamedFormats(t *testing.T) {
	schema := `{"type":"object","properties":{
		"id":{"type":"uuid","version":4},
		"ip":{"type":"ip-address","version":4},
		"mail":{"type":"email","nullable":true}}}`
	good := `{"id":"f47ac10b-58cc-4372-a567-0e02b2c3d479","ip":"10.1.2.3","mail":null}`
	if !validate(t, schema, good) {
		t.Fatal("expected pass")
	}
	iss, err := confschema.Check(jsonValue(t, `{"id":"f47ac10b-58cc-4372-a567-0e02b2c3d479","ip":"::1"}`), schemaOf(t, schema))
	if err != nil || len(iss) != 1 || iss[0].Code != confschema.CodeInvalidFormat || iss[0].Path != "/ip" {
		t.Fatalf("iss=%v err=%v", iss, err)
	}
}

func TestValidate_UnknownTagNeverMatches(t *testing.T) {
	if validate(t, `{"type":"no-such-format"}`, `"x"`) {
		t.Fatal("unknown tag must not match")
	}
	// an empty registry disables every named format
	opt := confschema.ValidateOpt{Formats: formats.NewRegistry()}
	if validate(t, `{"type":"email"}`, `"a@example.com"`, opt) {
		t.Fatal("unregistered email must not match")
	}
}

func TestValidate_CustomFormat(t *testing.T) {
	reg := formats.Default().Clone()
	reg.Register("even", func(v value.Value, _ formats.Params) bool {
		i, ok := v.(value.Int)
		return ok && i%2 == 0
	})
	opt := confschema.ValidateOpt{Formats: reg}
	if !validate(t, `{"type":"even"}`, `4`, opt) || validate(t, `{"type":"even"}`, `3`, opt) {
		t.Fatal("custom predicate not applied")
	}
}

func TestValidate_ExtraKeysIgnored(t *testing.T) {
	schema := `{"type":"object","properties":{"a":{"type":"integer"}}}`
	if !validate(t, schema, `{"a":1,"b":"extra"}`) {
		t.Fatal("undeclared keys are allowed")
	}
}

func TestValidate_MissingTypeIsConstructionError(t *testing.T) {
	_, err := confschema.ParseNode(jsonValue(t, `{"type":"object","properties":{"a":{"required":true}}}`))
	if !errors.Is(err, confschema.ErrMissingType) {
		t.Fatalf("ParseNode err = %v", err)
	}

	n := &confschema.Node{Type: "object", Properties: []confschema.Property{{Name: "a", Schema: &confschema.Node{}}}}
	// raised even when the data never reaches the broken node
	_, err = confschema.Validate(value.NewMap(), n)
	if !errors.Is(err, confschema.ErrMissingType) {
		t.Fatalf("Validate err = %v", err)
	}
}

func TestCheck_ReportsPathAndSeparator(t *testing.T) {
	schema := schemaOf(t, `{"type":"object","properties":{"server":{"type":"object","properties":{
		"ports":{"type":"array","items":[{"type":"integer"}]}}}}}`)
	data := jsonValue(t, `{"server":{"ports":[80,"x"]}}`)

	iss, err := confschema.Check(data, schema)
	if err != nil || len(iss) != 1 {
		t.Fatalf("iss=%v err=%v", iss, err)
	}
	if iss[0].Path != "/server/ports/[1]" {
		t.Fatalf("path = %q", iss[0].Path)
	}
	if iss[0].Params["expected"] != "integer" || iss[0].Params["actual"] != "string" {
		t.Fatalf("params = %v", iss[0].Params)
	}

	var seen []confschema.Issue
	iss, _ = confschema.Check(data, schema, confschema.ValidateOpt{PathSeparator: ".", OnIssue: func(it confschema.Issue) { seen = append(seen, it) }})
	if iss[0].Path != ".server.ports.[1]" || len(seen) != 1 {
		t.Fatalf("path = %q, seen = %v", iss[0].Path, seen)
	}

	if iss, err := confschema.Check(jsonValue(t, `{"server":{"ports":[1]}}`), schema); err != nil || iss != nil {
		t.Fatalf("passing data: iss=%v err=%v", iss, err)
	}
}

func TestCheck_RequiredIssue(t *testing.T) {
	iss, _ := confschema.Check(value.NewMap(), schemaOf(t, `{"type":"object","properties":{"name":{"type":"string","required":true}}}`))
	if len(iss) != 1 || iss[0].Code != confschema.CodeRequired || iss[0].Path != "/name" {
		t.Fatalf("iss = %v", iss)
	}
	var err error = iss
	if got, ok := confschema.AsIssues(err); !ok || len(got) != 1 {
		t.Fatal("Issues must unwrap from error")
	}
}

func TestValidate_RootScalarSchema(t *testing.T) {
	if !validate(t, `{"type":"string"}`, `"x"`) || validate(t, `{"type":"string"}`, `1`) {
		t.Fatal("root scalar schema type checks the root")
	}
	if validate(t, `{"type":"object"}`, `[1]`) {
		t.Fatal("array is not an object")
	}
}

func TestValidate_JSONSchemaStrategy(t *testing.T) {
	schema := `{"type":"object","properties":{"name":{"type":"string","required":true},
		"ports":{"type":"array","max":2,"items":[{"type":"integer"}]}}}`

	_, err := confschema.Validate(jsonValue(t, `{}`), schemaOf(t, schema), confschema.ValidateOpt{UseJSONSchema: true})
	if !errors.Is(err, confschema.ErrCapabilityUnavailable) {
		t.Fatalf("err = %v", err)
	}

	var got confschema.Issue
	opt := confschema.ValidateOpt{
		UseJSONSchema: true,
		JSONSchema:    js.NewEngine(),
		OnIssue:       func(it confschema.Issue) { got = it },
	}
	if !validate(t, schema, `{"name":"a","ports":[1,2]}`, opt) {
		t.Fatal("expected pass")
	}
	if validate(t, schema, `{"name":"a","ports":[1,"x"]}`, opt) {
		t.Fatal("expected failure")
	}
	if got.Code != confschema.CodeJSONSchema || got.Path != "/ports/[1]" {
		t.Fatalf("issue = %+v", got)
	}
	if got.SchemaPath != "#/properties/ports/items/invalid_type" {
		t.Fatalf("schema path = %q", got.SchemaPath)
	}
	if validate(t, schema, `{"ports":[]}`, opt) {
		t.Fatal("required name")
	}
}
