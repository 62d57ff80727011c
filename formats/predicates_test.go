package formats_test

import (
	"testing"

	"github.com/reoring/confschema/formats"
	"github.com/reoring/confschema/value"
)

func params(kv ...any) formats.Params {
	m := value.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), value.FromAny(kv[i+1]))
	}
	return formats.NewParams(m)
}

func check(t *testing.T, tag string, p formats.Params, good, bad []value.Value) {
	t.Helper()
	pred, ok := formats.Default().Lookup(tag)
	if !ok {
		t.Fatalf("tag %q not registered", tag)
	}
	for _, v := range good {
		if !pred(v, p) {
			t.Errorf("%s: expected %#v to match", tag, v)
		}
	}
	for _, v := range bad {
		if pred(v, p) {
			t.Errorf("%s: expected %#v not to match", tag, v)
		}
	}
}

func strs(ss ...string) []value.Value {
	out := make([]value.Value, len(ss))
	for i, s := range ss {
		out[i] = value.String(s)
	}
	return out
}

func TestRegex_PrefixMatch(t *testing.T) {
	check(t, "regex", params("pattern", "foo(bar)?"),
		strs("foo", "foobar", "foobarbaz"),
		append(strs("fo0bar", "xfoo"), value.Int(1)))
}

func TestRegex_MissingOrInvalidPattern(t *testing.T) {
	check(t, "regex", params(), nil, strs("foo"))
	check(t, "regex", params("pattern", "("), nil, strs("("))
}

func TestLatLong(t *testing.T) {
	check(t, "lat-long", params(),
		strs("+90.0, -127.554334", "45, 180", "-90, -180", "-90.000, -180.0000", "+90, +180", "47.1231231, 179.99999999"),
		strs("-90., -180.", "+90.1, -100.111", "-91, 123.456", "045, 180"))
}

func TestIPAddress_Version(t *testing.T) {
	check(t, "ip-address", params(), strs("10.0.0.1", "::1"), strs("300.1.1.1", "host"))
	check(t, "ip-address", params("version", 4), strs("10.0.0.1"), strs("::1"))
	check(t, "ip-address", params("version", "6"), strs("fe80::1"), strs("10.0.0.1"))
}

func TestUUID_Version(t *testing.T) {
	v4 := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	check(t, "uuid", params(), strs(v4), strs("not-a-uuid", "{"+v4+"}"))
	check(t, "uuid", params("version", 4), strs(v4), nil)
	check(t, "uuid", params("version", 1), nil, strs(v4))
}

func TestMiscFormats(t *testing.T) {
	check(t, "email", params(), strs("a@example.com"), strs("a@", "plain"))
	check(t, "email", params("allow_display_name", true), strs("Ann <ann@example.com>"), strs("Ann <ann@>"))
	check(t, "sem-ver", params(), strs("1.2.3", "0.1.0-rc.1"), strs("v1.2.3", "1.2"))
	check(t, "colour-hex", params(), strs("#fff", "#a0b1c2", "#a0b1c2ff"), strs("fff", "#ff"))
	check(t, "cloud-aws-region", params(), strs("eu-west-1", "us-gov-west-1"), strs("eu-west", "mars-north-1"))
	check(t, "cloud-aws-arn", params(), strs("arn:aws:s3:::my-bucket"), strs("aws:s3:bucket"))
	check(t, "cloud-aws-arn", params("resource", "iam"), strs("arn:aws:iam::123456789012:user/ann"), strs("arn:aws:s3:::my-bucket"))
	check(t, "ean", params(), strs("4006381333931", "73513537"), strs("4006381333932", "12345"))
	check(t, "mime-type", params(), strs("application/json", "text/plain; charset=utf-8"), strs("json"))
	check(t, "port-number", params(), []value.Value{value.Int(8080), value.String("443")}, []value.Value{value.Int(0), value.String("70000")})
	check(t, "prime-number", params(), []value.Value{value.Int(7), value.String("13")}, []value.Value{value.Int(1), value.Int(8)})
	check(t, "fqdn", params(), strs("example.com", "a.b.example.org"), strs("localhost", "under_score.com"))
	check(t, "date", params(), strs("2024/01/31", "2024-01-31"), strs("31/01/2024", "2024/13/01"))
	check(t, "date", params("format", "DD.MM.YYYY", "strict_mode", true), strs("31.01.2024"), strs("31/01/2024"))
	check(t, "bic", params(), strs("DEUTDEFF", "DEUTDEFF500"), strs("DEUT"))
}

func TestRegistry_CustomAndUnknown(t *testing.T) {
	r := formats.NewRegistry()
	if _, ok := r.Lookup("email"); ok {
		t.Fatalf("empty registry must not know email")
	}
	r.Register("Even", func(v value.Value, _ formats.Params) bool {
		i, ok := v.(value.Int)
		return ok && i%2 == 0
	})
	p, ok := r.Lookup("even")
	if !ok || !p(value.Int(4), formats.Params{}) || p(value.Int(3), formats.Params{}) {
		t.Fatalf("custom predicate not applied")
	}
	c := r.Clone()
	r.Register("even", nil)
	if _, ok := r.Lookup("even"); ok {
		t.Fatalf("nil predicate must unregister")
	}
	if _, ok := c.Lookup("even"); !ok {
		t.Fatalf("clone must be independent")
	}
}
