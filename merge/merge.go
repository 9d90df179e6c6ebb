// Package merge reconciles translation tokens with XLIFF documents: parsing
// KEY[:TEXT] arguments, resolving duplicate keys, inserting them into a
// document, and the clean pass (prune, natural sort, character conversion)
// run after every extraction.
package merge

import (
	"sort"
	"strings"

	"github.com/aaronopela/dtools/convert"
	"github.com/aaronopela/dtools/xliff"
)

// InsertResult lists the keys touched by Insert.
type InsertResult struct {
	// Added are keys appended as new units.
	Added []string
	// Updated are existing units whose target was replaced.
	Updated []string
	// Kept are existing translated units left alone because the batch only
	// had a placeholder for them.
	Kept []string
}

// Insert writes the batch into doc. Existing units get their target
// replaced; new keys are appended with id, resname and source set to the
// key. A translated target is never replaced by a placeholder.
func Insert(doc *xliff.Document, batch *Batch) InsertResult {
	var res InsertResult
	for _, tok := range batch.Tokens() {
		u := doc.Unit(tok.Key)
		switch {
		case u == nil:
			doc.Set(tok.Key, tok.Text)
			res.Added = append(res.Added, tok.Key)
		case !tok.Translated && !IsPlaceholder(u.Target, batch.Prefix):
			res.Kept = append(res.Kept, tok.Key)
		default:
			u.ID = tok.Key
			u.SetTarget(tok.Text)
			res.Updated = append(res.Updated, tok.Key)
		}
	}
	return res
}

// CleanOptions configures the clean pass.
type CleanOptions struct {
	// PrimaryLocale is the locale whose file keeps placeholders. When set,
	// files of every other locale drop their untranslated units. Empty
	// keeps every unit everywhere.
	PrimaryLocale string
	// Prefix marks placeholder targets. Empty means only empty targets
	// count as untranslated.
	Prefix string
	// Conversions applied to every remaining target.
	Conversions convert.Options
}

// CleanResult describes what Clean did to a document.
type CleanResult struct {
	// Kept is the number of units left in the document.
	Kept int
	// Dropped lists the keys of removed units, in document order.
	Dropped []string
}

// Clean normalizes a document after extraction:
//   - source-language is set to the primary locale when one is configured,
//     original to <domain>.<source-language>.<ext>, target-language to the
//     locale of the file name;
//   - when the file is not the primary locale, units whose target is empty
//     or still a placeholder are removed. A file with a culture (en_GB) is
//     never primary;
//   - units are sorted by resname in natural order;
//   - conversions are applied to every target.
func Clean(doc *xliff.Document, opts CleanOptions) CleanResult {
	primary := strings.ReplaceAll(opts.PrimaryLocale, "-", "_")
	if primary != "" {
		doc.SourceLanguage = strings.ReplaceAll(primary, "_", "-")
	}
	if doc.SourceLanguage != "" {
		doc.Original = doc.Name.WithLanguage(strings.ReplaceAll(doc.SourceLanguage, "-", "_"))
	}
	doc.TargetLanguage = doc.Name.TargetLanguage()

	prune := primary != "" && !IsPrimary(doc.Name, primary)

	var res CleanResult
	units := make([]*xliff.Unit, 0, len(doc.Units))
	for _, u := range doc.Units {
		if prune && IsPlaceholder(u.Target, opts.Prefix) {
			res.Dropped = append(res.Dropped, u.ResName)
			continue
		}
		// Inline markup is kept as written.
		if opts.Conversions.Any() && !u.TargetMarkup {
			u.Target = convert.Convert(u.Target, opts.Conversions)
		}
		units = append(units, u)
	}

	sort.SliceStable(units, func(i, j int) bool {
		return NaturalLess(units[i].ResName, units[j].ResName)
	})
	doc.SetUnits(units)

	res.Kept = len(units)
	return res
}

// IsPrimary reports whether a file belongs to the primary locale. Files
// carrying a culture are never primary.
func IsPrimary(name xliff.FileName, primary string) bool {
	if name.Culture != "" {
		return false
	}
	return name.Language == strings.ReplaceAll(primary, "-", "_")
}
