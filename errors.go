package confschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeInvalidLength = "invalid_length"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	// JSON-Schema delegate reports
	CodeJSONSchema = "json_schema"
)

var (
	// ErrMissingType is returned when a schema node has no "type". It is a
	// construction error and is never turned into a validation result.
	ErrMissingType = errors.New("confschema: schema node has no type")
	// ErrInvalidSchema is returned for schema input that is not a mapping or
	// carries keys of the wrong shape.
	ErrInvalidSchema = errors.New("confschema: invalid schema")
	// ErrCapabilityUnavailable is returned when a requested optional
	// capability (JSON-Schema engine, format adapter) is not wired in.
	ErrCapabilityUnavailable = errors.New("confschema: capability unavailable")
)

// Issue represents a single validation diagnostic.
type Issue struct {
	Path    string // data path joined with the report separator
	Code    string // One of the codes listed above.
	Message string
	// SchemaPath is set by the JSON-Schema delegate.
	SchemaPath string
	// Params carries structured parameters (e.g., {"expected":"string",
	// "actual":"integer"}) for rendering.
	Params map[string]any
}

func (it Issue) String() string {
	if it.Path == "" {
		return it.Code
	}
	return fmt.Sprintf("%s at %s", it.Code, it.Path)
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
