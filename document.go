package confschema

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reoring/confschema/format"
	js "github.com/reoring/confschema/jsonschema"
	"github.com/reoring/confschema/pathcodec"
	"github.com/reoring/confschema/value"
)

// xmlRootName wraps schemas whose top level has more than one key.
const xmlRootName = "schema"

// Document is a schema together with the format options used to read data
// and to serialise the schema itself.
type Document struct {
	root *Node
	// Format configures readers for data given as a path or text.
	Format format.Options
}

// NewDocument returns an empty document. Validating against it fails with
// ErrMissingType until a schema is set.
func NewDocument() *Document { return &Document{Format: defaultFormatOptions()} }

// FromNode wraps an existing schema tree.
func FromNode(n *Node) *Document {
	d := NewDocument()
	d.root = n
	return d
}

// FromValue parses a schema-shaped mapping.
func FromValue(v value.Value) (*Document, error) {
	n, err := ParseNode(v)
	if err != nil {
		return nil, err
	}
	return FromNode(n), nil
}

// Load reads a schema from a file when pathOrText names one, and otherwise
// parses pathOrText as schema text in any supported format.
func Load(pathOrText string, opt format.Options) (*Document, error) {
	v, err := readInput(pathOrText, opt)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	d, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	d.Format = opt
	return d, nil
}

// Generate infers a document from a sample value.
func Generate(sample value.Value, includeExtended bool) *Document {
	return FromNode(Infer(sample, includeExtended))
}

func defaultFormatOptions() format.Options {
	return format.Options{Path: pathcodec.DefaultConfig()}
}

// readInput treats s as a path when a regular file exists there.
func readInput(s string, opt format.Options) (value.Value, error) {
	if fi, err := os.Stat(s); err == nil && fi.Mode().IsRegular() {
		return format.ReadFile(s, opt)
	}
	return format.ReadString(s, opt)
}

// Root returns the schema tree, or nil for an empty document.
func (d *Document) Root() *Node { return d.root }

// Value renders the schema in its value form. An empty document renders as an
// empty mapping.
func (d *Document) Value() *value.Map {
	if d.root == nil {
		return value.NewMap()
	}
	return d.root.Value()
}

// JSONSchema exports the document as JSON Schema.
func (d *Document) JSONSchema() (*js.Schema, error) {
	if err := d.root.checkTypes(); err != nil {
		return nil, err
	}
	return d.root.JSONSchema(), nil
}

// Validate checks data against the document's schema.
func (d *Document) Validate(data value.Value, opts ...ValidateOpt) (bool, error) {
	return Validate(data, d.root, opts...)
}

// Check returns the diagnostic for the first violation, if any.
func (d *Document) Check(data value.Value, opts ...ValidateOpt) (Issues, error) {
	return Check(data, d.root, opts...)
}

// ValidateSource reads src (a file path or document text) with the document's
// format options and validates the result.
func (d *Document) ValidateSource(src string, opts ...ValidateOpt) (bool, error) {
	v, err := readInput(src, d.Format)
	if err != nil {
		return false, err
	}
	return d.Validate(v, opts...)
}

// Encode serialises the schema. XML needs a single root element, so a schema
// whose top level holds more than one key is wrapped under "schema".
func (d *Document) Encode(f format.Format) ([]byte, error) {
	v := d.Value()
	if f == format.XML && v.Len() > 1 {
		wrapped := value.NewMap()
		wrapped.Set(xmlRootName, v)
		v = wrapped
	}
	if f == format.ENV {
		return nil, fmt.Errorf("%w: schema output as %s", ErrCapabilityUnavailable, f)
	}
	return format.Write(v, f, d.Format)
}

// WriteFile serialises the schema in the format implied by path.
func (d *Document) WriteFile(path string) error {
	f, ok := format.FromExtension(path)
	if !ok {
		return fmt.Errorf("%w: cannot infer output format of %s", format.ErrUnsupported, filepath.Base(path))
	}
	b, err := d.Encode(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
