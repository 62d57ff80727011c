package confschema

import (
	"regexp"

	"github.com/reoring/confschema/formats"
	js "github.com/reoring/confschema/jsonschema"
	"github.com/reoring/confschema/value"
)

// named tags with a JSON Schema "format" equivalent
var jsFormats = map[string]string{
	"email":         "email",
	"url":           "uri",
	"uuid":          "uuid",
	"fqdn":          "hostname",
	"regex-pattern": "regex",
}

// JSONSchema projects the node into a JSON Schema. Named formats become
// string schemas with a "format" or "pattern" where one exists; tags unknown
// to the default format registry become a schema that accepts nothing.
func (n *Node) JSONSchema() *js.Schema {
	s := &js.Schema{}
	if d, ok := n.Param("description"); ok {
		if ds, ok := d.(value.String); ok {
			s.Description = string(ds)
		}
	}
	tag := n.normType()
	var typ string
	switch {
	case tag == TypeAny:
	case jsonTypes[tag]:
		typ = tag
	case tag == "regex":
		typ = TypeString
		if p, ok := n.Param("pattern"); ok && value.IsScalar(p) && !value.IsNull(p) {
			s.Pattern = "^(?:" + value.Text(p) + ")"
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return js.Never()
			}
		} else {
			return js.Never()
		}
	case tag == "ip-address":
		typ = TypeString
		switch n.FormatParams().String("version", "") {
		case "4", "ipv4", "v4":
			s.Format = "ipv4"
		case "6", "ipv6", "v6":
			s.Format = "ipv6"
		}
	case tag == "port-number" || tag == "prime-number":
		// accepts integers and numeric strings
	default:
		if _, ok := formats.Default().Lookup(tag); !ok {
			return js.Never()
		}
		typ = TypeString
		s.Format = jsFormats[tag]
	}
	if typ != "" {
		if n.IsNullable() && typ != TypeNull {
			s.Type = []string{typ, TypeNull}
		} else {
			s.Type = typ
		}
	}

	switch tag {
	case TypeObject:
		if len(n.Properties) > 0 {
			s.Properties = make(map[string]*js.Schema, len(n.Properties))
		}
		for _, p := range n.Properties {
			s.Properties[p.Name] = p.Schema.JSONSchema()
			if p.Schema.IsRequired() {
				s.Required = append(s.Required, p.Name)
			}
		}
	case TypeArray:
		if len(n.Items) == 1 {
			s.Items = n.Items[0].JSONSchema()
		}
		lo, hi := n.MinBound(), n.MaxBound()
		if l := n.LengthBound(); l >= 0 {
			lo, hi = max(lo, l), l
			if m := n.MaxBound(); m >= 0 {
				hi = min(hi, m)
			}
		}
		if lo >= 0 {
			s.MinItems = intPtr(lo)
		}
		if hi >= 0 {
			s.MaxItems = intPtr(hi)
		}
	}
	return s
}
