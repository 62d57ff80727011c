package pathcodec

import (
	"regexp"
	"strconv"
	"strings"
)

// Config selects the path separator and the bracket pair used for sequence
// indices. It is passed explicitly; nothing in this package reads the
// environment.
type Config struct {
	Separator string
	Open      string
	Close     string
}

// DefaultConfig returns the "." separator with "(" ")" index brackets.
func DefaultConfig() Config {
	return Config{Separator: ".", Open: "(", Close: ")"}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Separator == "" {
		c.Separator = d.Separator
	}
	if c.Open == "" {
		c.Open = d.Open
	}
	if c.Close == "" {
		c.Close = d.Close
	}
	return c
}

// parser splits keys for one Config. The index pattern matches a piece ending
// in one or more bracketed indices, e.g. "name(0)(2)" or "(3)".
type parser struct {
	cfg   Config
	piece *regexp.Regexp
	group *regexp.Regexp
}

func newParser(cfg Config) *parser {
	cfg = cfg.normalized()
	o, c := regexp.QuoteMeta(cfg.Open), regexp.QuoteMeta(cfg.Close)
	return &parser{
		cfg:   cfg,
		piece: regexp.MustCompile(`^(.*?)((?:` + o + `\d+` + c + `)+)$`),
		group: regexp.MustCompile(o + `(\d+)` + c),
	}
}

func (p *parser) parse(key string) PathKey {
	key = trimLeading(key, p.cfg.Separator)
	if key == "" {
		return nil
	}
	var out PathKey
	for _, piece := range strings.Split(key, p.cfg.Separator) {
		out = append(out, p.parsePiece(piece)...)
	}
	return out
}

func (p *parser) parsePiece(piece string) []Segment {
	m := p.piece.FindStringSubmatch(piece)
	if m == nil {
		return []Segment{FieldSeg(piece)}
	}
	var segs []Segment
	if m[1] != "" {
		segs = append(segs, FieldSeg(m[1]))
	}
	for _, g := range p.group.FindAllStringSubmatch(m[2], -1) {
		i, err := strconv.Atoi(g[1])
		if err != nil {
			return []Segment{FieldSeg(piece)}
		}
		segs = append(segs, IndexSeg(i))
	}
	return segs
}

// Segment is one step of a PathKey: a mapping field or a sequence index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

// FieldSeg returns a mapping descent segment.
func FieldSeg(name string) Segment { return Segment{Field: name} }

// IndexSeg returns a sequence descent segment.
func IndexSeg(i int) Segment { return Segment{Index: i, IsIndex: true} }

// PathKey addresses one position in a value tree.
type PathKey []Segment

// Parse splits key into segments. Pieces are separated by cfg.Separator and
// may carry trailing bracketed indices. Malformed index syntax is kept as a
// plain field.
func Parse(key string, cfg Config) PathKey {
	return newParser(cfg).parse(key)
}

// Format renders the key. Fields are joined by the separator and indices are
// appended to the preceding segment.
func (k PathKey) Format(cfg Config) string {
	cfg = cfg.normalized()
	var b strings.Builder
	for i, s := range k {
		if s.IsIndex {
			b.WriteString(cfg.Open)
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteString(cfg.Close)
			continue
		}
		if i > 0 {
			b.WriteString(cfg.Separator)
		}
		b.WriteString(s.Field)
	}
	return b.String()
}

// String formats the key with DefaultConfig.
func (k PathKey) String() string { return k.Format(DefaultConfig()) }

// Append returns a copy of k extended by s.
func (k PathKey) Append(s Segment) PathKey {
	out := make(PathKey, len(k), len(k)+1)
	copy(out, k)
	return append(out, s)
}

// trimLeading strips every leading occurrence of any character in sep.
func trimLeading(s, sep string) string {
	return strings.TrimLeft(s, sep)
}
