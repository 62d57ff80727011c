package confschema

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds report paths in a chain-safe way and creates Issues.
// Fields are joined by the separator; sequence positions render as "[i]".
type PathRef struct {
	sep   string
	parts []string
}

// RootPath returns the empty path for the given separator ("/" when empty).
func RootPath(sep string) PathRef {
	if sep == "" {
		sep = DefaultReportSeparator
	}
	return PathRef{sep: sep}
}

func (p PathRef) Field(name string) PathRef {
	return PathRef{sep: p.sep, parts: append(append([]string{}, p.parts...), name)}
}

func (p PathRef) Index(i int) PathRef {
	return PathRef{sep: p.sep, parts: append(append([]string{}, p.parts...), "["+strconv.Itoa(i)+"]")}
}

// String renders the path with a leading separator; the root renders as the
// separator alone.
func (p PathRef) String() string {
	if len(p.parts) == 0 {
		return p.sep
	}
	return p.sep + strings.Join(p.parts, p.sep)
}

// Issue creates an Issue at p; kv are key/value pairs stored in Params.
func (p PathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.String(), Code: code, Message: msg, Params: m}
}
