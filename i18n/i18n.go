// Package i18n translates the messages dtools prints.
//
// It wraps gotext with T() and N(). Catalogs are embedded from
// locales/{lang}/LC_MESSAGES/dtools.po and loaded by Init():
//
//	i18n.Init("")  // from DTOOLS_LANG, then LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	logInfo(i18n.T("Done!"))
//	logInfo(i18n.N("%d file cleaned", "%d files cleaned", n), n)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the .po catalogs.
//
//go:embed all:locales
var locales embed.FS

const domain = "dtools"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init loads the catalog for lang, or for the language of the environment
// when lang is empty. Call it once before T or N.
func Init(lang string) {
	if lang == "" {
		lang = Language()
	}
	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid, returning it unchanged when no translation exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a message with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// langVars are read in order. DTOOLS_LANG overrides the gettext variables.
var langVars = []string{"DTOOLS_LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

// Language returns the first usable language of the environment, "en"
// when there is none.
func Language() string {
	for _, name := range langVars {
		if lang := normalize(os.Getenv(name)); lang != "" {
			return lang
		}
	}
	return "en"
}

// normalize turns an environment value such as "fr_FR.UTF-8@euro" or the
// LANGUAGE list "fr:en" into "fr_FR". C and POSIX yield "".
func normalize(val string) string {
	val, _, _ = strings.Cut(val, ":")
	if i := strings.IndexAny(val, ".@"); i >= 0 {
		val = val[:i]
	}
	if val == "C" || val == "POSIX" {
		return ""
	}
	return val
}
