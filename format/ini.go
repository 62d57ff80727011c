package format

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/reoring/confschema/pathcodec"
	"github.com/reoring/confschema/value"
)

// readINI joins every section and key with the path separator and inflates
// the result, so "[server.ports(0)]" with "host = a" becomes
// server.ports[0].host. Values stay strings.
func readINI(data []byte, opt Options) (value.Value, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment:   true,
		AllowPythonMultilineValues: true,
	}, data)
	if err != nil {
		return nil, err
	}
	cfg := opt.Path
	sep := cfg.Separator
	if sep == "" {
		sep = pathcodec.DefaultConfig().Separator
	}
	flat := value.NewMap()
	sections := 0
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		sections++
		for _, key := range sec.Keys() {
			flat.Set(sec.Name()+sep+key.Name(), value.String(key.Value()))
		}
	}
	if sections == 0 {
		return nil, errNoSections
	}
	return pathcodec.Inflate(flat, cfg)
}

var errNoSections = errors.New("ini: no sections")

// writeINI flattens v; the last path segment becomes the key and the rest the
// section. Top-level scalars go to the section named by the separator.
func writeINI(v value.Value, opt Options) ([]byte, error) {
	cfg := opt.Path
	sep := cfg.Separator
	if sep == "" {
		sep = pathcodec.DefaultConfig().Separator
	}
	f := ini.Empty()
	for k, x := range pathcodec.Flatten(v, cfg).All() {
		section, key := sep, k
		if i := strings.LastIndex(k, sep); i >= 0 {
			section, key = k[:i], k[i+len(sep):]
			if section == "" {
				section = sep
			}
		}
		if _, err := f.Section(section).NewKey(key, value.Text(x)); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
