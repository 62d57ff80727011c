package jsonschema

// Schema is a minimal JSON Schema representation used for export and for the
// delegate validation engine.
type Schema struct {
	// Core
	// Type is a type name, a list of type names (for nullable types) or nil
	// for "any".
	Type        any     `json:"type,omitempty"`
	Format      string  `json:"format,omitempty"`
	Pattern     string  `json:"pattern,omitempty"`
	Description string  `json:"description,omitempty"`
	Not         *Schema `json:"not,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`
}

// Never returns a schema no value satisfies.
func Never() *Schema { return &Schema{Not: &Schema{}} }
