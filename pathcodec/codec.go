package pathcodec

import (
	"errors"
	"fmt"

	"github.com/reoring/confschema/value"
)

// ErrPathConflict reports a key that needs a container where the tree already
// holds a different kind of node.
var ErrPathConflict = errors.New("pathcodec: path conflict")

// Flatten returns one entry per scalar leaf of v, keyed by its formatted path.
// Empty mappings and sequences produce no entries; a scalar root produces an
// empty mapping.
func Flatten(v value.Value, cfg Config) *value.Map {
	cfg = cfg.normalized()
	out := value.NewMap()
	flatten(v, nil, cfg, out)
	return out
}

func flatten(v value.Value, path PathKey, cfg Config, out *value.Map) {
	switch t := v.(type) {
	case *value.Map:
		for k, child := range t.All() {
			flatten(child, path.Append(FieldSeg(k)), cfg, out)
		}
	case *value.Seq:
		for i, child := range t.Items() {
			flatten(child, path.Append(IndexSeg(i)), cfg, out)
		}
	default:
		if len(path) == 0 {
			return
		}
		out.Set(trimLeading(path.Format(cfg), cfg.Separator), value.Clone(v))
	}
}

// Inflate rebuilds a tree from a flat mapping produced by Flatten. At every
// branch the next segment decides the container: an index makes a sequence,
// anything else a mapping. Index segments insert at their position rather
// than append.
func Inflate(flat *value.Map, cfg Config) (value.Value, error) {
	p := newParser(cfg)
	var root value.Value
	// sequence slots filled so far, containers and leaves, keyed by formatted prefix
	byPrefix := map[string]value.Value{}

	for key, leaf := range flat.All() {
		segs := p.parse(key)
		if len(segs) == 0 {
			continue
		}
		if root == nil {
			root = newContainer(segs[0])
		}
		cur := root
		for i, seg := range segs[:len(segs)-1] {
			next := segs[i+1]
			child, err := descend(cur, seg, next, segs[:i+1], p.cfg, byPrefix)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", err, key)
			}
			cur = child
		}
		if err := assign(cur, segs[len(segs)-1], value.Clone(leaf), segs.Format(p.cfg), byPrefix); err != nil {
			return nil, fmt.Errorf("%w: %q", err, key)
		}
	}
	if root == nil {
		return value.NewMap(), nil
	}
	return root, nil
}

func newContainer(next Segment) value.Value {
	if next.IsIndex {
		return value.NewSeq()
	}
	return value.NewMap()
}

func descend(cur value.Value, seg, next Segment, prefix PathKey, cfg Config, byPrefix map[string]value.Value) (value.Value, error) {
	switch c := cur.(type) {
	case *value.Map:
		if seg.IsIndex {
			return nil, ErrPathConflict
		}
		if existing, ok := c.Get(seg.Field); ok {
			if value.IsScalar(existing) || existing.Kind() != newContainer(next).Kind() {
				return nil, ErrPathConflict
			}
			return existing, nil
		}
		child := newContainer(next)
		c.Set(seg.Field, child)
		return child, nil
	case *value.Seq:
		if !seg.IsIndex {
			return nil, ErrPathConflict
		}
		id := prefix.Format(cfg)
		if existing, ok := byPrefix[id]; ok {
			if existing.Kind() != newContainer(next).Kind() {
				return nil, ErrPathConflict
			}
			return existing, nil
		}
		child := newContainer(next)
		c.Insert(seg.Index, child)
		byPrefix[id] = child
		return child, nil
	default:
		return nil, ErrPathConflict
	}
}

func assign(cur value.Value, seg Segment, leaf value.Value, id string, byPrefix map[string]value.Value) error {
	switch c := cur.(type) {
	case *value.Map:
		if seg.IsIndex {
			return ErrPathConflict
		}
		if existing, ok := c.Get(seg.Field); ok && !value.IsScalar(existing) {
			return ErrPathConflict
		}
		c.Set(seg.Field, leaf)
	case *value.Seq:
		if !seg.IsIndex {
			return ErrPathConflict
		}
		if _, ok := byPrefix[id]; ok {
			return ErrPathConflict
		}
		c.Insert(seg.Index, leaf)
		byPrefix[id] = leaf
	default:
		return ErrPathConflict
	}
	return nil
}

// Lookup returns the node addressed by key.
func Lookup(v value.Value, key PathKey) (value.Value, bool) {
	cur := v
	for _, seg := range key {
		switch c := cur.(type) {
		case *value.Map:
			if seg.IsIndex {
				return nil, false
			}
			child, ok := c.Get(seg.Field)
			if !ok {
				return nil, false
			}
			cur = child
		case *value.Seq:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= c.Len() {
				return nil, false
			}
			cur = c.At(seg.Index)
		default:
			return nil, false
		}
	}
	return cur, true
}

// Put stores x at key inside root, creating missing containers. An index equal
// to or past the sequence length appends; an existing index is replaced.
func Put(root value.Value, key PathKey, x value.Value) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", ErrPathConflict)
	}
	cur := root
	for i, seg := range key {
		last := i == len(key)-1
		switch c := cur.(type) {
		case *value.Map:
			if seg.IsIndex {
				return fmt.Errorf("%w: index %d on mapping", ErrPathConflict, seg.Index)
			}
			if last {
				c.Set(seg.Field, x)
				return nil
			}
			child, ok := c.Get(seg.Field)
			if !ok || value.IsScalar(child) {
				child = newContainer(key[i+1])
				c.Set(seg.Field, child)
			}
			cur = child
		case *value.Seq:
			if !seg.IsIndex {
				return fmt.Errorf("%w: field %q on sequence", ErrPathConflict, seg.Field)
			}
			if seg.Index < c.Len() && seg.Index >= 0 {
				if last {
					c.SetAt(seg.Index, x)
					return nil
				}
				child := c.At(seg.Index)
				if value.IsScalar(child) {
					child = newContainer(key[i+1])
					c.SetAt(seg.Index, child)
				}
				cur = child
				continue
			}
			if last {
				c.Append(x)
				return nil
			}
			child := newContainer(key[i+1])
			c.Append(child)
			cur = child
		default:
			return fmt.Errorf("%w: cannot descend into %s", ErrPathConflict, value.KindName(cur))
		}
	}
	return nil
}
