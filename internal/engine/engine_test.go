package engine

import (
	"errors"
	"testing"

	"github.com/reoring/confschema/value"
)

func TestDecodeValue_KeepsOrderAndNumbers(t *testing.T) {
	v, err := DecodeValue(NewJSONBytes([]byte(`{"z":1,"a":[1.5,true,null,"s"],"m":{"y":2,"b":3}}`)))
	if err != nil {
		t.Fatal(err)
	}
	m := v.(*value.Map)
	if got := m.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "a" || got[2] != "m" {
		t.Fatalf("keys = %v", got)
	}
	z, _ := m.Get("z")
	if _, ok := z.(value.Int); !ok {
		t.Fatalf("z = %#v, want Int", z)
	}
	a, _ := m.Get("a")
	want := value.NewSeq(value.Float(1.5), value.Bool(true), value.Null{}, value.String("s"))
	if !value.Equal(a, want) {
		t.Fatalf("a = %#v", a)
	}
	inner, _ := m.Get("m")
	if ks := inner.(*value.Map).Keys(); ks[0] != "y" || ks[1] != "b" {
		t.Fatalf("inner keys = %v", ks)
	}
}

func TestDecodeValue_Errors(t *testing.T) {
	for _, in := range []string{``, `{"a":`, `[1,2`, `{} {}`} {
		if _, err := DecodeValue(NewJSONBytes([]byte(in))); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestEnforcement(t *testing.T) {
	src := WrapWithEnforcement(NewJSONBytes([]byte(`{"a":1,"b":{"c":2,"c":3}}`)), EnforceOptions{RejectDuplicates: true})
	_, err := DecodeValue(src)
	var le *LimitError
	if !errors.As(err, &le) || le.Path != "/b/c" {
		t.Fatalf("err = %v", err)
	}

	src = WrapWithEnforcement(NewJSONBytes([]byte(`[[[1]]]`)), EnforceOptions{MaxDepth: 2})
	if _, err := DecodeValue(src); !errors.As(err, &le) || le.Reason != "max depth exceeded" {
		t.Fatalf("err = %v", err)
	}

	src = WrapWithEnforcement(NewJSONBytes([]byte(`{"a":1,"a":2}`)), EnforceOptions{})
	v, err := DecodeValue(src)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := v.(*value.Map).Get("a"); !value.Equal(got, value.Int(2)) {
		t.Fatalf("last duplicate should win, got %v", got)
	}
}
