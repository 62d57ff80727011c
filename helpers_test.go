package confschema_test

import (
	"testing"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/format"
	"github.com/reoring/confschema/pathcodec"
	"github.com/reoring/confschema/value"
)

func jsonValue(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := format.Read([]byte(s), format.JSON, format.Options{Path: pathcodec.DefaultConfig()})
	if err != nil {
		t.Fatalf("bad test JSON %q: %v", s, err)
	}
	return v
}

func schemaOf(t *testing.T, s string) *confschema.Node {
	t.Helper()
	n, err := confschema.ParseNode(jsonValue(t, s))
	if err != nil {
		t.Fatalf("schema %q: %v", s, err)
	}
	return n
}

func validate(t *testing.T, schema, data string, opts ...confschema.ValidateOpt) bool {
	t.Helper()
	ok, err := confschema.Validate(jsonValue(t, data), schemaOf(t, schema), opts...)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	return ok
}
