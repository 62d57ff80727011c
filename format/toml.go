package format

import (
	"fmt"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/reoring/confschema/value"
)

// readTOML decodes a TOML document. Values come from toml.Unmarshal; the
// key order of every table is taken from a second pass with the unstable
// parser so mappings keep document order.
func readTOML(data []byte, _ Options) (value.Value, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	order, err := tomlKeyOrder(data)
	if err != nil {
		return nil, err
	}
	return orderedTOML(m, "", order), nil
}

// tomlKeyOrder maps a table path to its keys in first-seen order. Array
// indexes are not part of the path, so all elements of an array of tables
// share one order.
func tomlKeyOrder(data []byte) (map[string][]string, error) {
	order := map[string][]string{}
	seen := map[string]bool{}
	note := func(parent, key string) string {
		path := parent + "\x00" + key
		if !seen[path] {
			seen[path] = true
			order[parent] = append(order[parent], key)
		}
		return path
	}
	noteKey := func(parent string, it unstable.Iterator) string {
		for it.Next() {
			parent = note(parent, string(it.Node().Data))
		}
		return parent
	}
	var noteValue func(parent string, n *unstable.Node)
	noteValue = func(parent string, n *unstable.Node) {
		switch n.Kind {
		case unstable.InlineTable:
			it := n.Children()
			for it.Next() {
				kv := it.Node()
				noteValue(noteKey(parent, kv.Key()), kv.Value())
			}
		case unstable.Array:
			it := n.Children()
			for it.Next() {
				noteValue(parent, it.Node())
			}
		}
	}

	var p unstable.Parser
	p.Reset(data)
	table := ""
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = noteKey("", e.Key())
		case unstable.KeyValue:
			noteValue(noteKey(table, e.Key()), e.Value())
		}
	}
	return order, p.Error()
}

// orderedTOML converts a decoded TOML value, laying out map keys as recorded
// in order. Keys missing from order follow in sorted order.
func orderedTOML(x any, path string, order map[string][]string) value.Value {
	switch t := x.(type) {
	case map[string]any:
		out := value.NewMap()
		for _, k := range order[path] {
			if v, ok := t[k]; ok {
				out.Set(k, orderedTOML(v, path+"\x00"+k, order))
			}
		}
		rest := make([]string, 0, len(t))
		for k := range t {
			if !out.Has(k) {
				rest = append(rest, k)
			}
		}
		sort.Strings(rest)
		for _, k := range rest {
			out.Set(k, orderedTOML(t[k], path+"\x00"+k, order))
		}
		return out
	case []any:
		out := value.NewSeq()
		for _, v := range t {
			out.Append(orderedTOML(v, path, order))
		}
		return out
	}
	return value.FromAny(normalizeTOML(x))
}

// normalizeTOML renders date and time values as text.
func normalizeTOML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		for k, v := range t {
			t[k] = normalizeTOML(v)
		}
		return t
	case []any:
		for i, v := range t {
			t[i] = normalizeTOML(v)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return fmt.Sprint(t)
	}
	return x
}

func writeTOML(v value.Value, _ Options) ([]byte, error) {
	m, ok := StripNulls(v).(*value.Map)
	if !ok {
		return nil, fmt.Errorf("toml document must be a mapping, got %s", value.KindName(v))
	}
	return toml.Marshal(value.ToAny(m))
}

// StripNulls returns a copy of v without null map entries or null sequence
// items, recursively. TOML has no null, so the TOML writer applies it first.
func StripNulls(v value.Value) value.Value {
	switch t := v.(type) {
	case *value.Map:
		out := value.NewMap()
		for k, x := range t.All() {
			if value.IsNull(x) {
				continue
			}
			out.Set(k, StripNulls(x))
		}
		return out
	case *value.Seq:
		out := value.NewSeq()
		for _, x := range t.Items() {
			if value.IsNull(x) {
				continue
			}
			out.Append(StripNulls(x))
		}
		return out
	}
	return value.Clone(v)
}
