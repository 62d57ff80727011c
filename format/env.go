package format

import (
	"bytes"
	"errors"

	"github.com/joho/godotenv"

	"github.com/reoring/confschema/value"
)

// readENV decodes KEY=VALUE lines into a flat mapping of strings. Keys are
// sorted.
func readENV(data []byte, _ Options) (value.Value, error) {
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(env) == 0 {
		return nil, errors.New("env: no variables")
	}
	m := make(map[string]any, len(env))
	for k, v := range env {
		m[k] = v
	}
	return value.FromAny(m), nil
}
