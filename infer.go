package confschema

import "github.com/reoring/confschema/value"

// TypeTree mirrors the shape of a value tree with every scalar replaced by its
// type tag.
type TypeTree struct {
	Tag    string
	Fields []TypeField // object
	Elems  []*TypeTree // array
}

// TypeField is one entry of an object TypeTree.
type TypeField struct {
	Name string
	Type *TypeTree
}

// ExtractTypes walks v and records the type of every position. Booleans are
// classified before integers and integers before floats.
func ExtractTypes(v value.Value) *TypeTree {
	switch t := v.(type) {
	case *value.Map:
		tt := &TypeTree{Tag: TypeObject, Fields: make([]TypeField, 0, t.Len())}
		for k, child := range t.All() {
			tt.Fields = append(tt.Fields, TypeField{Name: k, Type: ExtractTypes(child)})
		}
		return tt
	case *value.Seq:
		tt := &TypeTree{Tag: TypeArray, Elems: make([]*TypeTree, 0, t.Len())}
		for _, child := range t.Items() {
			tt.Elems = append(tt.Elems, ExtractTypes(child))
		}
		return tt
	case value.Bool:
		return &TypeTree{Tag: TypeBoolean}
	case value.Int:
		return &TypeTree{Tag: TypeInteger}
	case value.Float:
		return &TypeTree{Tag: TypeNumber}
	case value.String:
		return &TypeTree{Tag: TypeString}
	default:
		return &TypeTree{Tag: TypeNull}
	}
}

// BuildSchema converts a TypeTree into the weakest schema that still matches
// the sample's types. With includeExtended every node also carries
// required=false, nullable=true and a null description, and arrays carry
// unbounded length, min and max.
//
// Array items: no elements gives an empty items list, a single distinct
// element type gives one item schema built from the first element, and mixed
// element types collapse to one {type: null} item.
func BuildSchema(tt *TypeTree, includeExtended bool) *Node {
	n := &Node{Type: tt.Tag}
	if includeExtended {
		n.Required = boolPtr(false)
		n.Nullable = boolPtr(true)
		n.SetParam("description", value.Null{})
	}
	switch tt.Tag {
	case TypeObject:
		n.Properties = make([]Property, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			n.Properties = append(n.Properties, Property{Name: f.Name, Schema: BuildSchema(f.Type, includeExtended)})
		}
	case TypeArray:
		if includeExtended {
			n.Length = intPtr(Unbounded)
			n.Min = intPtr(Unbounded)
			n.Max = intPtr(Unbounded)
		}
		n.Items = []*Node{}
		switch distinctTags(tt.Elems) {
		case 0:
		case 1:
			n.Items = append(n.Items, BuildSchema(tt.Elems[0], includeExtended))
		default:
			n.Items = append(n.Items, BuildSchema(&TypeTree{Tag: TypeNull}, includeExtended))
		}
	}
	return n
}

func distinctTags(elems []*TypeTree) int {
	seen := map[string]struct{}{}
	for _, e := range elems {
		seen[e.Tag] = struct{}{}
	}
	return len(seen)
}

// Infer derives a schema from a sample value.
func Infer(sample value.Value, includeExtended bool) *Node {
	return BuildSchema(ExtractTypes(sample), includeExtended)
}
