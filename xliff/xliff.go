// Package xliff implements reading and writing of XLIFF 1.2 translation
// files as produced by the Symfony translation extractor:
//
//	<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
//	  <file source-language="en" target-language="fr" datatype="plaintext" original="messages.en.xlf">
//	    <body>
//	      <trans-unit id="key" resname="key">
//	        <source>key</source>
//	        <target>Texte</target>
//	      </trans-unit>
//	    </body>
//	  </file>
//	</xliff>
//
// Units are keyed by resname. Attributes, the <header> block, notes and
// target attributes (state, ...) are carried through a parse/marshal round
// trip; comments and whitespace are not.
package xliff

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Namespace is the XLIFF 1.2 document namespace.
const Namespace = "urn:oasis:names:tc:xliff:document:1.2"

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Unit is a single <trans-unit>.
type Unit struct {
	// ID is the id attribute. Units created by dtools use the resname.
	ID string
	// ResName is the translation key.
	ResName string
	// Source is the text of <source>.
	Source string
	// Target is the text of <target>, with CDATA unwrapped and entities
	// decoded. Empty means missing.
	Target string
	// Notes holds the text of <note> children in document order.
	Notes []string
	// SourceMarkup and TargetMarkup report that Source or Target is raw
	// inner XML holding inline elements. It is written back verbatim.
	SourceMarkup bool
	TargetMarkup bool

	// Attrs holds trans-unit attributes other than id and resname.
	Attrs []xml.Attr
	// TargetAttrs holds the attributes of <target> (e.g. state).
	TargetAttrs []xml.Attr
}

// Document is one parsed translation file.
type Document struct {
	// Name is the parsed file name (domain, language, culture).
	Name FileName

	// Version is the xliff version attribute.
	Version string
	// SourceLanguage, TargetLanguage, Datatype and Original mirror the
	// attributes of the <file> element.
	SourceLanguage string
	TargetLanguage string
	Datatype       string
	Original       string
	// Header is the raw inner XML of <header>, if any.
	Header string

	// Units in document order.
	Units []*Unit

	rootAttrs []xml.Attr
	fileAttrs []xml.Attr
	byName    map[string]int
}

// New creates an empty document for a domain and locale, as used when a
// translation file does not exist yet.
func New(domain, locale string) *Document {
	name := NewFileName(domain, locale, "xlf")
	return &Document{
		Name:           name,
		Version:        "1.2",
		SourceLanguage: "en",
		TargetLanguage: name.TargetLanguage(),
		Datatype:       "plaintext",
		Original:       name.WithLanguage("en"),
		rootAttrs: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: Namespace},
			{Name: xml.Name{Local: "version"}},
		},
		byName: make(map[string]int),
	}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a translation file. The language is inferred
// from the file name.
func ParseFile(path string) (*Document, error) {
	name, err := ParseFileName(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc, err := parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc.Name = name
	return doc, nil
}

// Parse parses translation file data. name is the file name the data was
// read from and is used to infer domain and language.
func Parse(data []byte, name string) (*Document, error) {
	fn, err := ParseFileName(name)
	if err != nil {
		return nil, err
	}
	doc, err := parse(data)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	doc.Name = fn
	return doc, nil
}

// decoder wraps xml.Decoder raw tokens and checks that end tags match
// their start tags. Raw tokens keep namespace prefixes as written, which
// lets attributes such as xml:space and xmlns round-trip unchanged.
type decoder struct {
	dec   *xml.Decoder
	stack []xml.Name
}

func newDecoder(data []byte) *decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	return &decoder{dec: dec}
}

func (d *decoder) token() (xml.Token, error) {
	tok, err := d.dec.RawToken()
	if err != nil {
		if errors.Is(err, io.EOF) && len(d.stack) > 0 {
			return nil, fmt.Errorf("unexpected end of file inside <%s>", qualified(d.stack[len(d.stack)-1]))
		}
		return nil, err
	}
	switch t := tok.(type) {
	case xml.StartElement:
		d.stack = append(d.stack, t.Name)
		return t.Copy(), nil
	case xml.EndElement:
		if len(d.stack) == 0 {
			return nil, fmt.Errorf("unexpected closing tag </%s>", qualified(t.Name))
		}
		open := d.stack[len(d.stack)-1]
		if open != t.Name {
			return nil, fmt.Errorf("element <%s> closed by </%s>", qualified(open), qualified(t.Name))
		}
		d.stack = d.stack[:len(d.stack)-1]
	case xml.CharData:
		return t.Copy(), nil
	}
	return tok, nil
}

// skip consumes tokens up to and including the end of the element whose
// start tag was just read.
func (d *decoder) skip() error {
	depth := 1
	for depth > 0 {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func parse(data []byte) (*Document, error) {
	d := newDecoder(data)
	doc := &Document{byName: make(map[string]int)}

	sawRoot := false
	sawFile := false
	for {
		tok, err := d.token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if sawRoot {
				return nil, fmt.Errorf("unexpected element <%s> after document root", qualified(t.Name))
			}
			if t.Name.Local != "xliff" {
				return nil, fmt.Errorf("root element is <%s>, want <xliff>", qualified(t.Name))
			}
			sawRoot = true
			doc.rootAttrs = t.Attr
			doc.Version = attr(t.Attr, "version")

			found, err := doc.parseRoot(d)
			if err != nil {
				return nil, err
			}
			sawFile = found
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("text outside of document root")
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("no <xliff> root element")
	}
	if !sawFile {
		return nil, fmt.Errorf("no <file><body> element")
	}
	return doc, nil
}

// parseRoot reads the children of <xliff>. It reports whether a <file>
// with a <body> was found.
func (doc *Document) parseRoot(d *decoder) (bool, error) {
	found := false
	for {
		tok, err := d.token()
		if err != nil {
			return false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "file" {
				if err := d.skip(); err != nil {
					return false, err
				}
				continue
			}
			if found {
				return false, fmt.Errorf("more than one <file> element")
			}
			if err := doc.parseFile(d, t); err != nil {
				return false, err
			}
			found = true
		case xml.EndElement:
			return found, nil
		}
	}
}

func (doc *Document) parseFile(d *decoder, elem xml.StartElement) error {
	doc.fileAttrs = elem.Attr
	doc.SourceLanguage = attr(elem.Attr, "source-language")
	doc.TargetLanguage = attr(elem.Attr, "target-language")
	doc.Datatype = attr(elem.Attr, "datatype")
	doc.Original = attr(elem.Attr, "original")

	sawBody := false
	for {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "header":
				var inner strings.Builder
				if err := readElementContent(d, &inner, true); err != nil {
					return fmt.Errorf("reading <header>: %w", err)
				}
				doc.Header = strings.TrimSpace(inner.String())
			case "body":
				if err := doc.parseBody(d); err != nil {
					return err
				}
				sawBody = true
			default:
				if err := d.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if !sawBody {
				return fmt.Errorf("<file> has no <body>")
			}
			return nil
		}
	}
}

// parseBody reads trans-units until </body>. Units nested in <group>
// elements are flattened into the body.
func (doc *Document) parseBody(d *decoder) error {
	for {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trans-unit":
				u, err := parseUnit(d, t)
				if err != nil {
					return err
				}
				doc.addUnit(u)
			case "group":
				if err := doc.parseBody(d); err != nil {
					return err
				}
			default:
				if err := d.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func parseUnit(d *decoder, elem xml.StartElement) (*Unit, error) {
	u := &Unit{}
	for _, a := range elem.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			u.ID = a.Value
		case a.Name.Space == "" && a.Name.Local == "resname":
			u.ResName = a.Value
		default:
			u.Attrs = append(u.Attrs, a)
		}
	}
	if u.ResName == "" {
		u.ResName = u.ID
	}

	for {
		tok, err := d.token()
		if err != nil {
			return nil, fmt.Errorf("reading <trans-unit id=%q>: %w", u.ID, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "source":
				if u.Source, u.SourceMarkup, err = readInline(d); err != nil {
					return nil, fmt.Errorf("reading <source> of %q: %w", u.ResName, err)
				}
			case "target":
				if u.Target, u.TargetMarkup, err = readInline(d); err != nil {
					return nil, fmt.Errorf("reading <target> of %q: %w", u.ResName, err)
				}
				u.TargetAttrs = t.Attr
			case "note":
				var inner strings.Builder
				if err := readElementContent(d, &inner, false); err != nil {
					return nil, fmt.Errorf("reading <note> of %q: %w", u.ResName, err)
				}
				u.Notes = append(u.Notes, inner.String())
			default:
				if err := d.skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return u, nil
		}
	}
}

// readInline reads the content of <source> or <target>. Plain content is
// returned decoded. Content with inline elements (<g>, <x/>, ...) is
// returned as raw XML with markup set, so it can be written back
// unchanged; an element closed right after it opened is rendered
// self-closing.
func readInline(d *decoder) (text string, markup bool, err error) {
	var toks []xml.Token
	for depth := 1; ; {
		tok, terr := d.token()
		if terr != nil {
			return "", false, terr
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
			markup = true
		case xml.EndElement:
			depth--
		}
		if depth == 0 {
			break
		}
		toks = append(toks, tok)
	}

	var b strings.Builder
	for i, tok := range toks {
		switch t := tok.(type) {
		case xml.CharData:
			if markup {
				b.WriteString(escapeText(string(t)))
			} else {
				b.Write(t)
			}
		case xml.StartElement:
			b.WriteString("<")
			b.WriteString(qualified(t.Name))
			writeAttrs(&b, t.Attr)
			if i+1 < len(toks) {
				if _, ok := toks[i+1].(xml.EndElement); ok {
					b.WriteString("/>")
					continue
				}
			}
			b.WriteString(">")
		case xml.EndElement:
			if _, ok := toks[i-1].(xml.StartElement); ok {
				continue
			}
			b.WriteString("</")
			b.WriteString(qualified(t.Name))
			b.WriteString(">")
		}
	}
	return b.String(), markup, nil
}

// readElementContent reads the inner content of an element up to its
// closing tag. Inline child elements (<g>, <x/>, ...) are reconstructed as
// raw markup. When escape is true character data is re-escaped so the
// result is valid XML again (used for <header>); otherwise it is the
// decoded text.
func readElementContent(d *decoder, b *strings.Builder, escape bool) error {
	depth := 1
	for depth > 0 {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if escape {
				b.WriteString(escapeText(string(t)))
			} else {
				b.WriteString(string(t))
			}
		case xml.StartElement:
			depth++
			b.WriteString("<")
			b.WriteString(qualified(t.Name))
			writeAttrs(b, t.Attr)
			b.WriteString(">")
		case xml.EndElement:
			depth--
			if depth > 0 {
				b.WriteString("</")
				b.WriteString(qualified(t.Name))
				b.WriteString(">")
			}
		}
	}
	return nil
}

// addUnit appends a unit, or replaces the value of an earlier unit with the
// same resname in place.
func (doc *Document) addUnit(u *Unit) {
	if doc.byName == nil {
		doc.byName = make(map[string]int)
	}
	if idx, ok := doc.byName[u.ResName]; ok {
		doc.Units[idx] = u
		return
	}
	doc.byName[u.ResName] = len(doc.Units)
	doc.Units = append(doc.Units, u)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Unit returns the unit with the given resname, or nil.
func (doc *Document) Unit(resname string) *Unit {
	idx, ok := doc.byName[resname]
	if !ok {
		return nil
	}
	return doc.Units[idx]
}

// Keys returns all resnames in document order.
func (doc *Document) Keys() []string {
	keys := make([]string, 0, len(doc.Units))
	for _, u := range doc.Units {
		keys = append(keys, u.ResName)
	}
	return keys
}

// Set updates the target of an existing unit or appends a new unit with
// id, resname and source set to the key. It reports whether a unit was
// created.
func (doc *Document) Set(resname, target string) bool {
	if u := doc.Unit(resname); u != nil {
		u.SetTarget(target)
		return false
	}
	doc.addUnit(&Unit{ID: resname, ResName: resname, Source: resname, Target: target})
	return true
}

// SetTarget replaces the target with plain text.
func (u *Unit) SetTarget(target string) {
	u.Target = target
	u.TargetMarkup = false
}

// SetUnits replaces all units, e.g. after sorting or filtering.
func (doc *Document) SetUnits(units []*Unit) {
	doc.Units = nil
	doc.byName = make(map[string]int, len(units))
	for _, u := range units {
		doc.addUnit(u)
	}
}

// Stats returns unit counts. A target is untranslated when it starts with
// prefix (and prefix is not empty), missing when it is empty.
func (doc *Document) Stats(prefix string) (total, translated, untranslated, missing int) {
	for _, u := range doc.Units {
		total++
		switch {
		case u.Target == "":
			missing++
		case prefix != "" && strings.HasPrefix(u.Target, prefix):
			untranslated++
		default:
			translated++
		}
	}
	return
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// attr returns the value of an unprefixed attribute.
func attr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// qualified renders a raw name as written in the source: "prefix:local".
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
