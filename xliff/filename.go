package xliff

import (
	"path/filepath"
	"regexp"
	"strings"
)

// reFileName matches <domain>.<lang>[_<CULTURE>].<ext>.
var reFileName = regexp.MustCompile(`^(.+)\.([a-z]{2,3})(?:_([A-Z]{2}))?\.([A-Za-z0-9]+)$`)

// FileName is a parsed translation file name.
type FileName struct {
	Domain   string
	Language string
	Culture  string
	Ext      string
}

// ParseFileName splits a translation file name (a path is reduced to its
// base name) into domain, language, culture and extension.
func ParseFileName(name string) (FileName, error) {
	base := filepath.Base(name)
	m := reFileName.FindStringSubmatch(base)
	if m == nil {
		return FileName{}, &NamingError{Name: base}
	}
	return FileName{Domain: m[1], Language: m[2], Culture: m[3], Ext: m[4]}, nil
}

// NewFileName builds a FileName from a domain and a locale such as "fr",
// "fr_CA" or "fr-CA".
func NewFileName(domain, locale, ext string) FileName {
	lang, culture := SplitLocale(locale)
	return FileName{Domain: domain, Language: lang, Culture: culture, Ext: ext}
}

// SplitLocale splits "fr_CA" or "fr-CA" into ("fr", "CA").
func SplitLocale(locale string) (lang, culture string) {
	if idx := strings.IndexAny(locale, "_-"); idx >= 0 {
		return locale[:idx], locale[idx+1:]
	}
	return locale, ""
}

// Locale returns the file name locale: "fr" or "fr_CA".
func (f FileName) Locale() string {
	if f.Culture == "" {
		return f.Language
	}
	return f.Language + "_" + f.Culture
}

// TargetLanguage returns the XLIFF target-language value: "fr" or "fr-CA".
func (f FileName) TargetLanguage() string {
	if f.Culture == "" {
		return f.Language
	}
	return f.Language + "-" + f.Culture
}

// WithLanguage returns the file name for the same domain in another
// language, e.g. "messages.en.xlf" for the original attribute.
func (f FileName) WithLanguage(lang string) string {
	return f.Domain + "." + lang + "." + f.Ext
}

func (f FileName) String() string {
	return f.Domain + "." + f.Locale() + "." + f.Ext
}
