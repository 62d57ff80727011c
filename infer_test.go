package confschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/value"
)

func mustJSON(t *testing.T, v value.Value) string {
	t.Helper()
	b, err := value.MarshalJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGenerate_NestedObject(t *testing.T) {
	sample := jsonValue(t, `{"config":{"version":"1.0","name":"svc","threshold":0.75}}`)
	got := mustJSON(t, confschema.Generate(sample, false).Value())
	want := `{"type":"object","properties":{"config":{"type":"object","properties":{"version":{"type":"string"},"name":{"type":"string"},"threshold":{"type":"number"}}}}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestInfer_Arrays(t *testing.T) {
	cases := []struct{ in, want string }{
		{`[]`, `{"type":"array","items":[]}`},
		{`[1,2,3]`, `{"type":"array","items":[{"type":"integer"}]}`},
		{`[1,"a",true]`, `{"type":"array","items":[{"type":"null"}]}`},
		{`[1,2.5]`, `{"type":"array","items":[{"type":"null"}]}`},
		{`[{"a":1},{"b":"x"}]`, `{"type":"array","items":[{"type":"object","properties":{"a":{"type":"integer"}}}]}`},
	}
	for _, tc := range cases {
		if got := mustJSON(t, confschema.Infer(jsonValue(t, tc.in), false).Value()); got != tc.want {
			t.Errorf("%s:\n got  %s\n want %s", tc.in, got, tc.want)
		}
	}
}

func TestInfer_ScalarTags(t *testing.T) {
	sample := jsonValue(t, `{"b":true,"i":1,"f":1.5,"s":"x","n":null}`)
	tt := confschema.ExtractTypes(sample)
	var got []string
	for _, f := range tt.Fields {
		got = append(got, f.Name+":"+f.Type.Tag)
	}
	want := []string{"b:boolean", "i:integer", "f:number", "s:string", "n:null"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestInfer_Extended(t *testing.T) {
	got := mustJSON(t, confschema.Infer(jsonValue(t, `{"xs":[1]}`), true).Value())
	want := `{"type":"object","required":false,"nullable":true,"description":null,"properties":{` +
		`"xs":{"type":"array","required":false,"nullable":true,"description":null,"length":-1,"min":-1,"max":-1,` +
		`"items":[{"type":"integer","required":false,"nullable":true,"description":null}]}}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestInfer_SampleValidates(t *testing.T) {
	samples := []string{
		`{"name":"x","port":8080,"tags":["a","b"],"tls":{"enabled":false,"ratio":0.5},"extra":null}`,
		`[{"a":1},{"a":2}]`,
		`"scalar"`,
	}
	for _, s := range samples {
		for _, ext := range []bool{false, true} {
			sample := jsonValue(t, s)
			ok, err := confschema.Validate(sample, confschema.Infer(sample, ext))
			if err != nil || !ok {
				t.Errorf("%s (extended=%v): ok=%v err=%v", s, ext, ok, err)
			}
		}
	}
}

func TestInfer_IdempotentThroughExample(t *testing.T) {
	sample := jsonValue(t, `{"name":"x","port":8080,"tags":["a"],"tls":{"enabled":true,"ratio":0.5}}`)
	first := confschema.Infer(sample, false)
	second := confschema.Infer(first.Example(), false)
	if diff := cmp.Diff(mustJSON(t, first.Value()), mustJSON(t, second.Value())); diff != "" {
		t.Fatalf("(-first +second):\n%s", diff)
	}
}
