package confschema

import (
	"fmt"
	"strconv"

	"github.com/reoring/confschema/formats"
	"github.com/reoring/confschema/i18n"
	js "github.com/reoring/confschema/jsonschema"
	"github.com/reoring/confschema/value"
)

// JSONSchemaEngine validates data against an exported JSON Schema and returns
// the first violation, or nil when the data conforms.
type JSONSchemaEngine interface {
	Validate(s *js.Schema, data value.Value) (*js.Violation, error)
}

// ValidateOpt controls a validation run. When several are passed the last one
// wins.
type ValidateOpt struct {
	// UseJSONSchema delegates to JSONSchema instead of the native walker.
	UseJSONSchema bool
	// JSONSchema is the delegate engine; required when UseJSONSchema is set.
	JSONSchema JSONSchemaEngine
	// Formats resolves named type tags. Defaults to formats.Default().
	Formats *formats.Registry
	// PathSeparator joins report paths. Defaults to "/".
	PathSeparator string
	// OnIssue receives the diagnostic for a failed validation (verbose mode).
	OnIssue func(Issue)
}

func lastOpt(opts []ValidateOpt) ValidateOpt {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Formats == nil {
		opt.Formats = formats.Default()
	}
	if opt.PathSeparator == "" {
		opt.PathSeparator = DefaultReportSeparator
	}
	return opt
}

// Validate reports whether data conforms to the schema rooted at n. A
// mismatch is a false result, never an error. Errors are returned for schema
// nodes without a type and for a requested JSON-Schema delegate that is not
// configured.
func Validate(data value.Value, n *Node, opts ...ValidateOpt) (bool, error) {
	opt := lastOpt(opts)
	if err := n.checkTypes(); err != nil {
		return false, err
	}
	if data == nil {
		data = value.Null{}
	}
	if opt.UseJSONSchema {
		return validateJSONSchema(data, n, opt)
	}
	w := walker{opt: opt}
	return w.node(data, n, RootPath(opt.PathSeparator)), nil
}

// Check validates like Validate and returns the diagnostic of the first
// violation, or nil when data conforms.
func Check(data value.Value, n *Node, opts ...ValidateOpt) (Issues, error) {
	opt := lastOpt(opts)
	var iss Issues
	sink := opt.OnIssue
	opt.OnIssue = func(it Issue) {
		iss = append(iss, it)
		if sink != nil {
			sink(it)
		}
	}
	ok, err := Validate(data, n, opt)
	if err != nil || ok {
		return nil, err
	}
	return iss, nil
}

// checkTypes rejects trees containing a node without a type.
func (n *Node) checkTypes() error {
	if n == nil {
		return fmt.Errorf("%w: nil schema", ErrMissingType)
	}
	if n.Type == "" {
		return fmt.Errorf("%w: %s", ErrMissingType, snippet(n.Value()))
	}
	for _, p := range n.Properties {
		if err := p.Schema.checkTypes(); err != nil {
			return fmt.Errorf("property %q: %w", p.Name, err)
		}
	}
	for i, it := range n.Items {
		if err := it.checkTypes(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

type walker struct {
	opt ValidateOpt
}

func (w walker) report(it Issue) {
	if w.opt.OnIssue != nil {
		w.opt.OnIssue(it)
	}
}

// node type checks the value at p against n and descends into containers.
func (w walker) node(v value.Value, n *Node, p PathRef) bool {
	if !w.checkType(v, n, n.IsNullable(), p) {
		return false
	}
	if value.IsNull(v) {
		return true
	}
	switch n.normType() {
	case TypeObject:
		return w.object(v.(*value.Map), n, p)
	case TypeArray:
		return w.array(v.(*value.Seq), n, p)
	}
	return true
}

func (w walker) object(m *value.Map, n *Node, p PathRef) bool {
	for _, prop := range n.Properties {
		cp := p.Field(prop.Name)
		child, ok := m.Get(prop.Name)
		if !ok {
			if prop.Schema.IsRequired() {
				w.report(cp.Issue(CodeRequired, i18n.T(CodeRequired, nil)))
				return false
			}
			continue
		}
		if !w.node(child, prop.Schema, cp) {
			return false
		}
	}
	return true
}

func (w walker) array(s *value.Seq, n *Node, p PathRef) bool {
	size := s.Len()
	if l := n.LengthBound(); l >= 0 && size != l {
		w.report(w.boundIssue(p, CodeInvalidLength, l, size))
		return false
	}
	if lo := n.MinBound(); lo >= 0 && size < lo {
		w.report(w.boundIssue(p, CodeTooShort, lo, size))
		return false
	}
	if hi := n.MaxBound(); hi >= 0 && size > hi {
		w.report(w.boundIssue(p, CodeTooLong, hi, size))
		return false
	}
	if len(n.Items) != 1 {
		return true
	}
	item := n.Items[0]
	for i, el := range s.Items() {
		if !w.node(el, item, p.Index(i)) {
			return false
		}
	}
	return true
}

func (w walker) boundIssue(p PathRef, code string, bound, actual int) Issue {
	msg := i18n.T(code, map[string]string{"bound": strconv.Itoa(bound), "actual": strconv.Itoa(actual)})
	return p.Issue(code, msg, "bound", bound, "actual", actual)
}

// checkType applies the acceptance rule: a nullable position takes null
// whatever its type, "any" takes everything, and other values must match the
// declared type.
func (w walker) checkType(v value.Value, n *Node, nullable bool, p PathRef) bool {
	tag := n.normType()
	isNull := value.IsNull(v)
	var accept bool
	switch {
	case tag == TypeAny:
		accept = true
	case nullable && isNull:
		accept = true
	default:
		accept = w.matches(v, n, tag)
	}
	if !accept {
		w.report(w.typeIssue(v, n, tag, p))
	}
	return accept
}

func (w walker) matches(v value.Value, n *Node, tag string) bool {
	if jsonTypes[tag] {
		actual := value.KindName(v)
		return actual == tag || (tag == TypeNumber && actual == TypeInteger)
	}
	pred, ok := w.opt.Formats.Lookup(tag)
	if !ok {
		return false
	}
	return pred(v, n.FormatParams())
}

func (w walker) typeIssue(v value.Value, n *Node, tag string, p PathRef) Issue {
	actual := value.KindName(v)
	code := CodeInvalidType
	if !jsonTypes[tag] && !value.IsNull(v) && value.IsScalar(v) {
		code = CodeInvalidFormat
	}
	msg := i18n.T(code, map[string]string{"expected": n.Type, "actual": actual})
	return p.Issue(code, msg, "expected", n.Type, "actual", actual, "value", snippet(v))
}

func validateJSONSchema(data value.Value, n *Node, opt ValidateOpt) (bool, error) {
	if opt.JSONSchema == nil {
		return false, fmt.Errorf("%w: json schema engine not configured", ErrCapabilityUnavailable)
	}
	viol, err := opt.JSONSchema.Validate(n.JSONSchema(), data)
	if err != nil {
		return false, err
	}
	if viol == nil {
		return true, nil
	}
	if opt.OnIssue != nil {
		p, sp := violationPaths(n, viol.Path, opt.PathSeparator)
		it := p.Issue(CodeJSONSchema, viol.Message, "keyword", viol.Keyword)
		it.SchemaPath = sp + "/" + viol.Keyword
		opt.OnIssue(it)
	}
	return false, nil
}

// violationPaths maps engine path segments onto a report path and a
// "#/properties/..." schema path by walking the schema alongside.
func violationPaths(n *Node, segs []string, sep string) (PathRef, string) {
	p := RootPath(sep)
	sp := "#"
	for _, seg := range segs {
		if n != nil && n.normType() == TypeArray {
			if i, err := strconv.Atoi(seg); err == nil {
				p = p.Index(i)
				sp += "/items"
				if len(n.Items) == 1 {
					n = n.Items[0]
				} else {
					n = nil
				}
				continue
			}
		}
		p = p.Field(seg)
		sp += "/properties/" + seg
		if n != nil {
			n, _ = n.Property(seg)
		}
	}
	return p, sp
}
