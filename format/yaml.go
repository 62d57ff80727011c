package format

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/confschema/value"
)

func readYAML(data []byte, _ Options) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.Null{}, nil
	}
	return fromYAMLNode(doc.Content[0])
}

const mergeTag = "!!merge"

func fromYAMLNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.MappingNode:
		m := value.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == mergeTag {
				if err := mergeYAML(m, v); err != nil {
					return nil, err
				}
				continue
			}
			child, err := fromYAMLNode(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		s := value.NewSeq()
		for _, c := range n.Content {
			child, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			s.Append(child)
		}
		return s, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("unexpected yaml node kind %d at line %d", n.Kind, n.Line)
}

// mergeYAML applies a "<<" merge key; explicit keys already set win.
func mergeYAML(m *value.Map, src *yaml.Node) error {
	v, err := fromYAMLNode(src)
	if err != nil {
		return err
	}
	var maps []*value.Map
	switch t := v.(type) {
	case *value.Map:
		maps = append(maps, t)
	case *value.Seq:
		for _, it := range t.Items() {
			if mm, ok := it.(*value.Map); ok {
				maps = append(maps, mm)
			}
		}
	default:
		return fmt.Errorf("merge key at line %d needs a mapping", src.Line)
	}
	for _, mm := range maps {
		for k, x := range mm.All() {
			if !m.Has(k) {
				m.Set(k, x)
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	default:
		return value.String(n.Value), nil
	}
}

func writeYAML(v value.Value, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v value.Value) *yaml.Node {
	switch t := v.(type) {
	case *value.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, x := range t.All() {
			n.Content = append(n.Content, strNode(k), toYAMLNode(x))
		}
		return n
	case *value.Seq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, x := range t.Items() {
			n.Content = append(n.Content, toYAMLNode(x))
		}
		return n
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(t))}
	case value.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(t), 10)}
	case value.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(float64(t))}
	case value.String:
		return strNode(string(t))
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func strNode(s string) *yaml.Node {
	n := &yaml.Node{}
	// Encode picks quoting for strings that would otherwise resolve to another type.
	_ = n.Encode(s)
	return n
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && !bytes.ContainsAny([]byte(s), "e.") {
		s += ".0"
	}
	return s
}
