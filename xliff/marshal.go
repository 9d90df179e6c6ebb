package xliff

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile renders the document and atomically replaces path with it: the
// output goes to a temporary file in the same directory which is then
// renamed over path. On failure the previous file is left untouched and a
// *WriteError is returned.
func (doc *Document) WriteFile(path string) error {
	data := doc.Marshal()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Marshal produces the formatted XML of the document: two-space
// indentation and no self-closing elements. Targets containing "&", "<"
// or ">" are written as CDATA sections, everything else is escaped.
// Sources and targets holding inline elements are written as parsed.
func (doc *Document) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")

	b.WriteString("<xliff")
	writeAttrs(&b, doc.rootAttributes())
	b.WriteString(">\n")

	b.WriteString("  <file")
	writeAttrs(&b, doc.fileAttributes())
	b.WriteString(">\n")

	if doc.Header != "" {
		fmt.Fprintf(&b, "    <header>%s</header>\n", doc.Header)
	}

	if len(doc.Units) == 0 {
		b.WriteString("    <body></body>\n")
	} else {
		b.WriteString("    <body>\n")
		for _, u := range doc.Units {
			writeUnit(&b, u)
		}
		b.WriteString("    </body>\n")
	}

	b.WriteString("  </file>\n")
	b.WriteString("</xliff>\n")
	return []byte(b.String())
}

func writeUnit(b *strings.Builder, u *Unit) {
	id := u.ID
	if id == "" {
		id = u.ResName
	}
	attrs := append([]xml.Attr{
		{Name: xml.Name{Local: "id"}, Value: id},
		{Name: xml.Name{Local: "resname"}, Value: u.ResName},
	}, u.Attrs...)

	b.WriteString("      <trans-unit")
	writeAttrs(b, attrs)
	b.WriteString(">\n")

	source := u.Source
	if !u.SourceMarkup {
		source = escapeText(source)
	}
	fmt.Fprintf(b, "        <source>%s</source>\n", source)

	b.WriteString("        <target")
	writeAttrs(b, u.TargetAttrs)
	b.WriteString(">")
	if u.TargetMarkup {
		b.WriteString(u.Target)
	} else {
		b.WriteString(MarshalTarget(u.Target))
	}
	b.WriteString("</target>\n")

	for _, n := range u.Notes {
		fmt.Fprintf(b, "        <note>%s</note>\n", escapeText(n))
	}

	b.WriteString("      </trans-unit>\n")
}

// MarshalTarget encodes a target text: as a CDATA section when it contains
// "&", "<" or ">", as plain text otherwise.
func MarshalTarget(s string) string {
	if NeedsCDATA(s) {
		return cdata(s)
	}
	return s
}

// NeedsCDATA reports whether s must be wrapped in CDATA to be written
// without entity escaping.
func NeedsCDATA(s string) bool {
	return strings.ContainsAny(s, "&<>")
}

// cdata wraps s in a CDATA section. A "]]>" inside s is split across two
// sections.
func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// rootAttributes returns the <xliff> attributes in their original order
// with the current version.
func (doc *Document) rootAttributes() []xml.Attr {
	attrs := make([]xml.Attr, 0, len(doc.rootAttrs)+1)
	hasVersion := false
	for _, a := range doc.rootAttrs {
		if a.Name.Space == "" && a.Name.Local == "version" {
			hasVersion = true
			if doc.Version == "" {
				continue
			}
			a.Value = doc.Version
		}
		attrs = append(attrs, a)
	}
	if !hasVersion && doc.Version != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "version"}, Value: doc.Version})
	}
	return attrs
}

// fileAttributes returns the <file> attributes in their original order.
// The known attributes carry the current field values; known attributes
// absent from the source are appended in canonical order.
func (doc *Document) fileAttributes() []xml.Attr {
	known := []struct {
		name  string
		value string
	}{
		{"source-language", doc.SourceLanguage},
		{"target-language", doc.TargetLanguage},
		{"datatype", doc.Datatype},
		{"original", doc.Original},
	}

	seen := make(map[string]bool)
	attrs := make([]xml.Attr, 0, len(doc.fileAttrs)+len(known))
	for _, a := range doc.fileAttrs {
		if a.Name.Space == "" {
			for _, k := range known {
				if k.name == a.Name.Local {
					a.Value = k.value
					seen[k.name] = true
				}
			}
		}
		attrs = append(attrs, a)
	}
	for _, k := range known {
		if !seen[k.name] && k.value != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: k.name}, Value: k.value})
		}
	}
	return attrs
}

func writeAttrs(b *strings.Builder, attrs []xml.Attr) {
	for _, a := range attrs {
		fmt.Fprintf(b, ` %s="%s"`, qualified(a.Name), escapeAttr(a.Value))
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#10;", "\t", "&#9;")
)

// escapeText escapes special XML characters in element content.
func escapeText(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes an attribute value for use inside double quotes.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
