package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// FromAny converts decoded Go data (map[string]any, []any, scalars,
// json.Number, YAML-style map[any]any) into a Value. Plain Go maps have no
// order, so their keys are sorted.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(t)
	case int8:
		return Int(t)
	case int16:
		return Int(t)
	case int32:
		return Int(t)
	case int64:
		return Int(t)
	case uint:
		return uintValue(uint64(t))
	case uint8:
		return Int(t)
	case uint16:
		return Int(t)
	case uint32:
		return Int(t)
	case uint64:
		return uintValue(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	case json.Number:
		return numberValue(string(t))
	case []any:
		s := &Seq{items: make([]Value, len(t))}
		for i, it := range t {
			s.items[i] = FromAny(it)
		}
		return s
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, FromAny(t[k]))
		}
		return m
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, v := range t {
			conv[fmt.Sprint(k)] = v
		}
		return FromAny(conv)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		s := &Seq{items: make([]Value, rv.Len())}
		for i := range rv.Len() {
			s.items[i] = FromAny(rv.Index(i).Interface())
		}
		return s
	case reflect.Map:
		conv := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			conv[fmt.Sprint(it.Key().Interface())] = it.Value().Interface()
		}
		return FromAny(conv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return FromAny(rv.Elem().Interface())
	default:
		return String(fmt.Sprint(rv.Interface()))
	}
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// numberValue keeps integral literals as Int and everything else as Float.
func numberValue(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}

// ParseNumber converts a numeric literal into Int or Float. ok is false when
// s is not a number.
func ParseNumber(s string) (Value, bool) {
	v := numberValue(s)
	if v.Kind() == KindString {
		return nil, false
	}
	return v, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAny converts v into plain Go data. Map order is lost.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case *Seq:
		out := make([]any, t.Len())
		for i, it := range t.Items() {
			out[i] = ToAny(it)
		}
		return out
	case *Map:
		out := make(map[string]any, t.Len())
		for k, it := range t.All() {
			out[k] = ToAny(it)
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON writes entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes the sequence, preserving nested map order.
func (s *Seq) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes v as compact JSON with map order preserved.
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case Float:
		f := float64(t)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("value: unsupported float %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if f == math.Trunc(f) && !bytes.ContainsAny([]byte(s), "e.") {
			s += ".0"
		}
		buf.WriteString(s)
	case String:
		b, err := gojson.Marshal(string(t))
		if err != nil {
			return err
		}
		buf.Write(b)
	case *Seq:
		buf.WriteByte('[')
		for i, it := range t.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		i := 0
		for k, it := range t.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			kb, err := gojson.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeJSON(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: unsupported kind %T", v)
	}
	return nil
}
