package confschema

import (
	"fmt"
	"math"
	"strings"

	"github.com/reoring/confschema/formats"
	"github.com/reoring/confschema/value"
)

// Built-in type tags. Any other tag is looked up in the named-format registry.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
	TypeAny     = "any"
)

// DefaultReportSeparator joins diagnostic paths.
const DefaultReportSeparator = "/"

// Unbounded is the value of an unset length, min or max bound.
const Unbounded = -1

var jsonTypes = map[string]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeObject:  true,
	TypeArray:   true,
	TypeNull:    true,
}

// reserved schema keys; everything else is kept in Node.Params
const (
	keyType       = "type"
	keyRequired   = "required"
	keyNullable   = "nullable"
	keyLength     = "length"
	keyMin        = "min"
	keyMax        = "max"
	keyProperties = "properties"
	keyItems      = "items"
)

// Property is one declared field of an object node.
type Property struct {
	Name   string
	Schema *Node
}

// Node describes the shape expected at one position of a data tree.
//
// Optional keys are pointers so that a parsed schema serialises back with the
// same keys it was written with. Items distinguishes nil (no "items" key) from
// an empty slice (untyped array).
type Node struct {
	Type       string
	Required   *bool
	Nullable   *bool
	Length     *int
	Min        *int
	Max        *int
	Properties []Property
	Items      []*Node
	// Params holds format-specific parameters (pattern, version, locale, ...)
	// and any other key the schema carries, such as description.
	Params *value.Map
}

// IsRequired reports the "required" flag (false when absent).
func (n *Node) IsRequired() bool { return n.Required != nil && *n.Required }

// IsNullable reports the "nullable" flag (false when absent).
func (n *Node) IsNullable() bool { return n.Nullable != nil && *n.Nullable }

func (n *Node) LengthBound() int { return bound(n.Length) }
func (n *Node) MinBound() int    { return bound(n.Min) }
func (n *Node) MaxBound() int    { return bound(n.Max) }

func bound(p *int) int {
	if p == nil {
		return Unbounded
	}
	return *p
}

// Property returns the declared child schema for name.
func (n *Node) Property(name string) (*Node, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Param returns an extra parameter.
func (n *Node) Param(name string) (value.Value, bool) { return n.Params.Get(name) }

// FormatParams exposes Params to named-format predicates.
func (n *Node) FormatParams() formats.Params { return formats.NewParams(n.Params) }

// normType is the lower-cased, trimmed type tag.
func (n *Node) normType() string { return strings.ToLower(strings.TrimSpace(n.Type)) }

// SetParam stores an extra parameter.
func (n *Node) SetParam(name string, v value.Value) {
	if n.Params == nil {
		n.Params = value.NewMap()
	}
	n.Params.Set(name, v)
}

// ParseNode builds a schema tree from its value form. A node without "type"
// yields ErrMissingType.
func ParseNode(v value.Value) (*Node, error) {
	m, ok := v.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("%w: expected mapping, got %s", ErrInvalidSchema, value.KindName(v))
	}
	tv, ok := m.Get(keyType)
	if !ok || value.IsNull(tv) {
		return nil, fmt.Errorf("%w: %s", ErrMissingType, snippet(m))
	}
	ts, ok := tv.(value.String)
	if !ok {
		return nil, fmt.Errorf("%w: type must be a string, got %s", ErrInvalidSchema, value.KindName(tv))
	}
	n := &Node{Type: string(ts)}
	for k, child := range m.All() {
		var err error
		switch k {
		case keyType:
		case keyRequired:
			n.Required, err = boolField(k, child)
		case keyNullable:
			n.Nullable, err = boolField(k, child)
		case keyLength:
			n.Length, err = intField(k, child)
		case keyMin:
			n.Min, err = intField(k, child)
		case keyMax:
			n.Max, err = intField(k, child)
		case keyProperties:
			n.Properties, err = parseProperties(child)
		case keyItems:
			n.Items, err = parseItems(child)
		default:
			n.SetParam(k, value.Clone(child))
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func boolField(k string, v value.Value) (*bool, error) {
	switch t := v.(type) {
	case value.Bool:
		b := bool(t)
		return &b, nil
	case value.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q must be a boolean, got %s", ErrInvalidSchema, k, value.KindName(v))
}

func intField(k string, v value.Value) (*int, error) {
	switch t := v.(type) {
	case value.Int:
		i := int(t)
		return &i, nil
	case value.Float:
		if f := float64(t); f == math.Trunc(f) {
			i := int(f)
			return &i, nil
		}
	case value.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q must be an integer, got %s", ErrInvalidSchema, k, value.KindName(v))
}

func parseProperties(v value.Value) ([]Property, error) {
	if value.IsNull(v) {
		return nil, nil
	}
	m, ok := v.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("%w: properties must be a mapping, got %s", ErrInvalidSchema, value.KindName(v))
	}
	props := make([]Property, 0, m.Len())
	for name, child := range m.All() {
		cn, err := ParseNode(child)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, Property{Name: name, Schema: cn})
	}
	return props, nil
}

func parseItems(v value.Value) ([]*Node, error) {
	switch t := v.(type) {
	case value.Null:
		return nil, nil
	case *value.Map:
		// a single item schema written without the list
		cn, err := ParseNode(t)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		return []*Node{cn}, nil
	case *value.Seq:
		items := make([]*Node, 0, t.Len())
		for i, child := range t.Items() {
			cn, err := ParseNode(child)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			items = append(items, cn)
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: items must be a list, got %s", ErrInvalidSchema, value.KindName(v))
}

// Value renders the node back into its value form. Keys are written in the
// order type, required, nullable, extra parameters, length, min, max,
// properties, items.
func (n *Node) Value() *value.Map {
	m := value.NewMap()
	m.Set(keyType, value.String(n.Type))
	if n.Required != nil {
		m.Set(keyRequired, value.Bool(*n.Required))
	}
	if n.Nullable != nil {
		m.Set(keyNullable, value.Bool(*n.Nullable))
	}
	for k, p := range n.Params.All() {
		m.Set(k, value.Clone(p))
	}
	for _, b := range []struct {
		key string
		v   *int
	}{{keyLength, n.Length}, {keyMin, n.Min}, {keyMax, n.Max}} {
		if b.v != nil {
			m.Set(b.key, value.Int(*b.v))
		}
	}
	if n.Properties != nil {
		props := value.NewMap()
		for _, p := range n.Properties {
			props.Set(p.Name, p.Schema.Value())
		}
		m.Set(keyProperties, props)
	}
	if n.Items != nil {
		items := value.NewSeq()
		for _, it := range n.Items {
			items.Append(it.Value())
		}
		m.Set(keyItems, items)
	}
	return m
}

// Example returns a value shaped like the schema: zero scalars, one element
// per typed array, every declared property.
func (n *Node) Example() value.Value {
	switch n.normType() {
	case TypeString:
		return value.String("")
	case TypeInteger:
		return value.Int(0)
	case TypeNumber:
		return value.Float(0)
	case TypeBoolean:
		return value.Bool(false)
	case TypeObject:
		m := value.NewMap()
		for _, p := range n.Properties {
			m.Set(p.Name, p.Schema.Example())
		}
		return m
	case TypeArray:
		s := value.NewSeq()
		if len(n.Items) > 0 {
			s.Append(n.Items[0].Example())
		}
		return s
	default:
		return value.Null{}
	}
}

func snippet(v value.Value) string {
	b, err := value.MarshalJSON(v)
	if err != nil {
		return fmt.Sprint(value.ToAny(v))
	}
	const maxLen = 120
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
