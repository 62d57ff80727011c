package formats

import (
	"sort"
	"strings"
	"sync"

	"github.com/reoring/confschema/value"
)

// Predicate reports whether v satisfies a named format. params carries the
// extra keys of the schema node that declared the format.
type Predicate func(v value.Value, params Params) bool

// Registry maps type tags to predicates. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{preds: map[string]Predicate{}}
}

// Register binds tag (case-insensitive) to p. A nil predicate removes the tag.
func (r *Registry) Register(tag string, p Predicate) {
	tag = normalize(tag)
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == nil {
		delete(r.preds, tag)
		return
	}
	r.preds[tag] = p
}

// Lookup returns the predicate bound to tag.
func (r *Registry) Lookup(tag string) (Predicate, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[normalize(tag)]
	return p, ok
}

// Tags lists the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.preds))
	for t := range r.preds {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for t, p := range r.preds {
		out.preds[t] = p
	}
	return out
}

func normalize(tag string) string { return strings.ToLower(strings.TrimSpace(tag)) }

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
})

// Default returns the process-wide registry holding every built-in format.
// It is built once on first use.
func Default() *Registry { return defaultRegistry() }

// Params gives predicates typed access to a schema node's extra keys.
type Params struct {
	m *value.Map
}

// NewParams wraps m; a nil map behaves as empty.
func NewParams(m *value.Map) Params { return Params{m: m} }

// Value returns the raw parameter.
func (p Params) Value(key string) (value.Value, bool) {
	v, ok := p.m.Get(key)
	if !ok || value.IsNull(v) {
		return nil, false
	}
	return v, true
}

// String returns a scalar parameter as text, or def when absent.
func (p Params) String(key, def string) string {
	v, ok := p.Value(key)
	if !ok || !value.IsScalar(v) {
		return def
	}
	return value.Text(v)
}

// Bool returns a boolean parameter, or def when absent or not a boolean.
func (p Params) Bool(key string, def bool) bool {
	v, ok := p.Value(key)
	if !ok {
		return def
	}
	b, ok := v.(value.Bool)
	if !ok {
		return def
	}
	return bool(b)
}

// Strings returns a list parameter as text; a single scalar becomes a
// one-element list.
func (p Params) Strings(key string, def []string) []string {
	v, ok := p.Value(key)
	if !ok {
		return def
	}
	if s, ok := v.(*value.Seq); ok {
		out := make([]string, 0, s.Len())
		for _, it := range s.Items() {
			out = append(out, value.Text(it))
		}
		return out
	}
	return []string{value.Text(v)}
}
