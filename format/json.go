package format

import (
	"bytes"

	j "github.com/goccy/go-json"

	"github.com/reoring/confschema/internal/engine"
	"github.com/reoring/confschema/value"
)

func readJSON(data []byte, opt Options) (value.Value, error) {
	src := engine.WrapWithEnforcement(engine.NewJSONBytes(data), engine.EnforceOptions{
		RejectDuplicates: opt.RejectDuplicates,
		MaxDepth:         opt.MaxDepth,
	})
	return engine.DecodeValue(src)
}

func writeJSON(v value.Value, opt Options) ([]byte, error) {
	b, err := value.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	if opt.Indent == "" {
		return b, nil
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, b, "", opt.Indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
