package value

import (
	"fmt"
	"iter"
	"strconv"
)

// Kind identifies a Value variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the universal interchange tree shared by format adapters, the path
// codec and the schema engine. A nil Value is treated as Null by every helper
// in this package.
type Value interface {
	Kind() Kind
}

// Scalars.
type (
	Null   struct{}
	Bool   bool
	Int    int64
	Float  float64
	String string
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }

// KindOf returns v.Kind(), mapping nil to KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool { return KindOf(v) == KindNull }

// IsScalar reports whether v is neither a Seq nor a Map.
func IsScalar(v Value) bool {
	k := KindOf(v)
	return k != KindSeq && k != KindMap
}

// KindName returns the JSON-ish type name of v: string, integer, number,
// boolean, array, object or null.
func KindName(v Value) string {
	switch KindOf(v) {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindSeq:
		return "array"
	case KindMap:
		return "object"
	default:
		return "null"
	}
}

// Seq is an ordered sequence of values.
type Seq struct {
	items []Value
}

// NewSeq returns a sequence holding items.
func NewSeq(items ...Value) *Seq {
	return &Seq{items: append([]Value(nil), items...)}
}

func (s *Seq) Kind() Kind { return KindSeq }

// Len returns the number of items; a nil Seq is empty.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the item at i or nil when i is out of range.
func (s *Seq) At(i int) Value {
	if s == nil || i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// SetAt replaces the item at i. It panics when i is out of range.
func (s *Seq) SetAt(i int, v Value) { s.items[i] = v }

// Append adds v to the end.
func (s *Seq) Append(v Value) { s.items = append(s.items, v) }

// Insert places v at index i, shifting later items. An index past the end
// appends; a negative index inserts at the front.
func (s *Seq) Insert(i int, v Value) {
	if i >= len(s.items) {
		s.items = append(s.items, v)
		return
	}
	if i < 0 {
		i = 0
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
}

// Items returns the backing items. Callers must not retain the slice across
// mutations.
func (s *Seq) Items() []Value {
	if s == nil {
		return nil
	}
	return s.items
}

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty mapping.
func NewMap() *Map {
	return &Map{vals: map[string]Value{}}
}

func (m *Map) Kind() Kind { return KindMap }

// Len returns the number of entries; a nil Map is empty.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set stores v under k. Existing keys keep their position.
func (m *Map) Set(k string, v Value) {
	if m.vals == nil {
		m.vals = map[string]Value{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value stored under k.
func (m *Map) Get(k string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Delete removes k if present.
func (m *Map) Delete(k string) {
	if m == nil {
		return
	}
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Equal reports deep structural equality. Map comparison is order-sensitive
// and Int never equals Float.
func Equal(a, b Value) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindSeq:
		sa, sb := a.(*Seq), b.(*Seq)
		if sa.Len() != sb.Len() {
			return false
		}
		for i := range sa.Len() {
			if !Equal(sa.At(i), sb.At(i)) {
				return false
			}
		}
		return true
	case KindMap:
		ma, mb := a.(*Map), b.(*Map)
		if ma.Len() != mb.Len() {
			return false
		}
		for i, k := range ma.keys {
			if mb.keys[i] != k {
				return false
			}
			if !Equal(ma.vals[k], mb.vals[k]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Seq:
		out := &Seq{items: make([]Value, len(t.Items()))}
		for i, it := range t.Items() {
			out.items[i] = Clone(it)
		}
		return out
	case *Map:
		out := NewMap()
		for k, it := range t.All() {
			out.Set(k, Clone(it))
		}
		return out
	case nil:
		return Null{}
	default:
		return v
	}
}

// Text renders a scalar the way INI and ENV writers expect it. Containers are
// rendered with fmt.
func Text(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return ""
	case Bool:
		return strconv.FormatBool(bool(t))
	case Int:
		return strconv.FormatInt(int64(t), 10)
	case Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case String:
		return string(t)
	default:
		return fmt.Sprint(ToAny(v))
	}
}
