package format

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/confschema/value"
)

const (
	attrPrefix = "@"
	textKey    = "#text"
)

// ErrXMLRoot is returned when writing a value that is not a single-key mapping.
var ErrXMLRoot = errors.New("xml document needs exactly one root element")

// readXML maps elements onto mappings: attributes become "@name" keys,
// repeated children become sequences and text-only elements become strings.
// Empty elements are null.
func readXML(data []byte, _ Options) (value.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("no root element")
			}
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			v, err := readElement(dec, se)
			if err != nil {
				return nil, err
			}
			if err := expectEOF(dec); err != nil {
				return nil, err
			}
			root := value.NewMap()
			root.Set(se.Name.Local, v)
			return root, nil
		}
		if cd, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(cd)) > 0 {
			return nil, errors.New("text outside root element")
		}
	}
}

func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("second root element <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after root element")
			}
		}
	}
}

func readElement(dec *xml.Decoder, se xml.StartElement) (value.Value, error) {
	m := value.NewMap()
	for _, a := range se.Attr {
		m.Set(attrPrefix+a.Name.Local, value.String(a.Value))
	}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(dec, t)
			if err != nil {
				return nil, err
			}
			addChild(m, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if m.Len() == 0 {
				if s == "" {
					return value.Null{}, nil
				}
				return value.String(s), nil
			}
			if s != "" {
				m.Set(textKey, value.String(s))
			}
			return m, nil
		}
	}
}

// addChild appends a repeated element to a sequence under its name.
func addChild(m *value.Map, name string, child value.Value) {
	prev, ok := m.Get(name)
	if !ok {
		m.Set(name, child)
		return
	}
	if s, ok := prev.(*value.Seq); ok && s.Len() > 0 {
		s.Append(child)
		return
	}
	m.Set(name, value.NewSeq(prev, child))
}

func writeXML(v value.Value, _ Options) ([]byte, error) {
	m, ok := v.(*value.Map)
	if !ok || m.Len() != 1 {
		return nil, ErrXMLRoot
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	for k, x := range m.All() {
		if s, ok := x.(*value.Seq); ok && s.Len() != 1 {
			return nil, ErrXMLRoot
		} else if ok {
			x = s.At(0)
		}
		if err := writeElement(enc, k, x); err != nil {
			return nil, err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeElement(enc *xml.Encoder, name string, v value.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	m, isMap := v.(*value.Map)
	if isMap {
		for k, x := range m.All() {
			if strings.HasPrefix(k, attrPrefix) && value.IsScalar(x) {
				start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k[len(attrPrefix):]}, Value: value.Text(x)})
			}
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	switch {
	case isMap:
		for k, x := range m.All() {
			switch {
			case strings.HasPrefix(k, attrPrefix) && value.IsScalar(x):
			case k == textKey:
				if err := enc.EncodeToken(xml.CharData(value.Text(x))); err != nil {
					return err
				}
			default:
				if err := writeChild(enc, k, x); err != nil {
					return err
				}
			}
		}
	case value.IsScalar(v):
		if err := enc.EncodeToken(xml.CharData(value.Text(v))); err != nil {
			return err
		}
	default:
		// a sequence directly under an element repeats an "item" child
		for _, x := range v.(*value.Seq).Items() {
			if err := writeElement(enc, "item", x); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

// writeChild repeats the element for every item of a sequence.
func writeChild(enc *xml.Encoder, name string, v value.Value) error {
	s, ok := v.(*value.Seq)
	if !ok {
		return writeElement(enc, name, v)
	}
	for _, x := range s.Items() {
		if err := writeElement(enc, name, x); err != nil {
			return err
		}
	}
	return nil
}
