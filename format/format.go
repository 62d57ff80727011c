package format

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/confschema/pathcodec"
	"github.com/reoring/confschema/value"
)

// Format names a serialisation format.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
	XML  Format = "xml"
	INI  Format = "ini"
	ENV  Format = "env"
)

var (
	// ErrUnclassified is returned when no reader accepts the input.
	ErrUnclassified = errors.New("format: input type could not be inferred")
	// ErrUnsupported is returned for a format or direction with no adapter.
	ErrUnsupported = errors.New("format: unsupported")
)

// sniffOrder is the brute-force order used when the format is unknown.
var sniffOrder = []Format{JSON, YAML, TOML, XML, INI, ENV}

// Options configures readers and writers.
type Options struct {
	// Path configures how INI sections map onto nested keys.
	Path pathcodec.Config
	// Indent pretty-prints JSON output when non-empty.
	Indent string
	// MaxDepth bounds JSON nesting; zero means unbounded.
	MaxDepth int
	// RejectDuplicates fails JSON input that repeats an object key.
	RejectDuplicates bool
}

// Parse maps a user-supplied format name (case-insensitive, optional leading
// dot, "yml" allowed) onto a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "xml":
		return XML, nil
	case "ini":
		return INI, nil
	case "env":
		return ENV, nil
	}
	return "", fmt.Errorf("%w: format %q", ErrUnsupported, name)
}

// FromExtension infers the format from a file name. A file named ".env" is
// ENV. ok is false for unknown extensions.
func FromExtension(path string) (Format, bool) {
	base := filepath.Base(path)
	if strings.EqualFold(base, ".env") {
		return ENV, true
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return "", false
	}
	f, err := Parse(ext)
	return f, err == nil
}

type reader func(data []byte, opt Options) (value.Value, error)

var readers = map[Format]reader{
	YAML: readYAML,
	JSON: readJSON,
	TOML: readTOML,
	XML:  readXML,
	INI:  readINI,
	ENV:  readENV,
}

// Read decodes data in the given format.
func Read(data []byte, f Format, opt Options) (value.Value, error) {
	r, ok := readers[f]
	if !ok {
		return nil, fmt.Errorf("%w: format %q", ErrUnsupported, f)
	}
	v, err := r(data, opt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f, err)
	}
	return v, nil
}

// ReadFile decodes the file at path. The extension picks the reader; for
// unknown extensions every reader is tried in turn.
func ReadFile(path string, opt Options) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f, ok := FromExtension(path); ok {
		return Read(data, f, opt)
	}
	v, _, err := sniff(data, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// ReadString decodes text by trying every reader in turn.
func ReadString(text string, opt Options) (value.Value, error) {
	v, _, err := sniff([]byte(text), opt)
	return v, err
}

// Classify reports which format text parses as.
func Classify(text string) (Format, error) {
	_, f, err := sniff([]byte(text), Options{Path: pathcodec.DefaultConfig()})
	return f, err
}

func sniff(data []byte, opt Options) (value.Value, Format, error) {
	for _, f := range sniffOrder {
		v, err := readers[f](data, opt)
		if err != nil {
			continue
		}
		// bare YAML scalars would shadow every later format
		if f == YAML && value.IsScalar(v) {
			continue
		}
		return v, f, nil
	}
	return nil, "", ErrUnclassified
}

type writer func(v value.Value, opt Options) ([]byte, error)

var writers = map[Format]writer{
	YAML: writeYAML,
	JSON: writeJSON,
	TOML: writeTOML,
	XML:  writeXML,
	INI:  writeINI,
}

// Write encodes v in the given format. ENV output is not supported.
func Write(v value.Value, f Format, opt Options) ([]byte, error) {
	w, ok := writers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s output", ErrUnsupported, f)
	}
	b, err := w(v, opt)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", f, err)
	}
	return b, nil
}

// WriteFile encodes v in the format implied by path and writes it.
func WriteFile(path string, v value.Value, opt Options) error {
	f, ok := FromExtension(path)
	if !ok {
		return fmt.Errorf("%w: cannot infer output format of %s", ErrUnsupported, filepath.Base(path))
	}
	b, err := Write(v, f, opt)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
