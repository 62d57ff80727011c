package jsonschema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/reoring/confschema/value"
)

// Violation is the first failure reported by the engine.
type Violation struct {
	// Path holds the data path segments; array positions are decimal indices.
	Path []string
	// Keyword is the failing rule, e.g. "required" or "invalid_type".
	Keyword string
	Message string
}

// Engine validates data against a JSON Schema using gojsonschema.
type Engine struct{}

// NewEngine returns a ready engine.
func NewEngine() *Engine { return &Engine{} }

const ctxSep = "\x00"

// Validate checks data against s. It returns nil when data conforms and the
// first violation otherwise. Errors are reserved for schemas the engine cannot
// compile.
func (e *Engine) Validate(s *Schema, data value.Value) (*Violation, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s))
	if err != nil {
		return nil, fmt.Errorf("compile json schema: %w", err)
	}
	res, err := compiled.Validate(gojsonschema.NewGoLoader(value.ToAny(data)))
	if err != nil {
		return nil, fmt.Errorf("json schema validate: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}
	first := res.Errors()[0]
	return &Violation{
		Path:    contextPath(first),
		Keyword: first.Type(),
		Message: first.Description(),
	}, nil
}

// contextPath turns the "(root).a.0.b" context into segments. Required-field
// errors point at the parent object, so the missing property is appended.
func contextPath(re gojsonschema.ResultError) []string {
	var parts []string
	if ctx := re.Context(); ctx != nil {
		parts = strings.Split(ctx.String(ctxSep), ctxSep)
		if len(parts) > 0 && parts[0] == gojsonschema.STRING_CONTEXT_ROOT {
			parts = parts[1:]
		}
	}
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			parts = append(parts, p)
		}
	}
	return parts
}
