// Package convert implements the character conversions applied to
// translation targets: ampersands, angle brackets and non-breaking spaces,
// each either as a literal character or as an HTML entity.
//
// Every category is controlled by a pair of options. When both options of a
// pair are set, the "as char" conversion wins and the "as entity" one is
// ignored. When neither is set the category is left untouched.
package convert

import (
	"regexp"
	"strings"
)

// NBSP is the non-breaking space character (U+00A0).
const NBSP = "\u00a0"

// Options selects the conversions to apply. The yaml tags match the
// translation_update.conversions section of .dtools.yaml.
type Options struct {
	// AmpAsChar rewrites "&amp;" as a bare "&".
	AmpAsChar bool `yaml:"amp_as_char"`
	// AmpAsEntity rewrites bare "&" as "&amp;", leaving existing entities alone.
	AmpAsEntity bool `yaml:"amp_as_entity"`
	// LtGtAsChar rewrites "&lt;" and "&gt;" as "<" and ">".
	LtGtAsChar bool `yaml:"ltgt_as_char"`
	// LtGtAsEntity rewrites "<" and ">" as "&lt;" and "&gt;".
	LtGtAsEntity bool `yaml:"ltgt_as_entity"`
	// NbspAsChar rewrites "&nbsp;" as U+00A0.
	NbspAsChar bool `yaml:"nbsp_as_char"`
	// NbspAsEntity rewrites U+00A0 as "&nbsp;".
	NbspAsEntity bool `yaml:"nbsp_as_entity"`
}

// Any reports whether at least one conversion is enabled.
func (o Options) Any() bool {
	return o.AmpAsChar || o.AmpAsEntity ||
		o.LtGtAsChar || o.LtGtAsEntity ||
		o.NbspAsChar || o.NbspAsEntity
}

// reEntity matches a named or numeric character reference.
var reEntity = regexp.MustCompile(`&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)

// Convert applies the enabled conversions to s. Ampersands are handled
// first so that entities produced by the later passes are never escaped
// a second time.
func Convert(s string, opts Options) string {
	switch {
	case opts.AmpAsChar:
		s = strings.ReplaceAll(s, "&amp;", "&")
	case opts.AmpAsEntity:
		s = EscapeBareAmpersands(s)
	}

	switch {
	case opts.LtGtAsChar:
		s = strings.ReplaceAll(s, "&lt;", "<")
		s = strings.ReplaceAll(s, "&gt;", ">")
	case opts.LtGtAsEntity:
		s = strings.ReplaceAll(s, "<", "&lt;")
		s = strings.ReplaceAll(s, ">", "&gt;")
	}

	switch {
	case opts.NbspAsChar:
		s = strings.ReplaceAll(s, "&nbsp;", NBSP)
	case opts.NbspAsEntity:
		s = strings.ReplaceAll(s, NBSP, "&nbsp;")
	}

	return s
}

// EscapeBareAmpersands replaces every "&" that does not start a character
// reference with "&amp;".
func EscapeBareAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	entityStart := make(map[int]bool)
	for _, loc := range reEntity.FindAllStringIndex(s, -1) {
		entityStart[loc[0]] = true
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '&' && !entityStart[i] {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
