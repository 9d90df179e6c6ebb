// Package trans drives the translation commands: the refresh run (one
// extraction per locale, then the clean pass over every file of the
// domain) and the add run (insert tokens into one file, optionally
// followed by a refresh).
package trans

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaronopela/dtools/convert"
	"github.com/aaronopela/dtools/delegate"
	"github.com/aaronopela/dtools/merge"
	"github.com/aaronopela/dtools/prompt"
	"github.com/aaronopela/dtools/xliff"
)

// Extractor runs the translation extraction tool for one locale.
type Extractor interface {
	Extract(ctx context.Context, req delegate.Request) error
}

// State is the step a refresh run is in.
type State int

const (
	StateInit State = iota
	StateExtract
	StateClean
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateExtract:
		return "extract"
	case StateClean:
		return "clean"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RefreshOptions configures a refresh run.
type RefreshOptions struct {
	// Bundle is passed to the extractor. Empty lets the tool pick.
	Bundle string
	// TranslationsDir holds the XLIFF files to clean.
	TranslationsDir string
	Domain          string
	// Locales are extracted in order.
	Locales      []string
	Mode         string
	OutputFormat string
	// Prefix marks untranslated placeholders unless NoPrefix is set.
	Prefix   string
	NoPrefix bool
	NoBackup bool
	// Clean asks the extractor to drop messages no longer in the sources.
	Clean bool
	// PrimaryLocale keeps placeholders in its own files only.
	PrimaryLocale string
	Conversions   convert.Options
	// Interactive enables prompting for placeholders.
	Interactive bool

	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
	// OnWarn reports untranslated units removed from a file.
	OnWarn func(format string, args ...any)
	// OnError emits per-file failures. The run continues.
	OnError func(format string, args ...any)
}

func (o *RefreshOptions) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *RefreshOptions) warn(format string, args ...any) {
	if o.OnWarn != nil {
		o.OnWarn(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *RefreshOptions) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// prefix returns the placeholder prefix in effect.
func (o *RefreshOptions) prefix() string {
	if o.NoPrefix {
		return ""
	}
	return o.Prefix
}

// Summary reports what a refresh run did.
type Summary struct {
	// Locales is the number of successful extractions.
	Locales int
	// Files is the number of files matching the domain.
	Files int
	// Cleaned is the number of files rewritten.
	Cleaned int
	// Failed is the number of files skipped because of an error.
	Failed int
	// Units is the number of units left in the cleaned files.
	Units int
	// Dropped is the number of untranslated units removed.
	Dropped int
	// Prompted is the number of placeholders answered by the operator.
	Prompted int
}

// Refresher runs trans refresh.
type Refresher struct {
	Options   RefreshOptions
	Extractor Extractor
	// Prompter answers placeholders when Options.Interactive is set.
	Prompter prompt.Prompter

	state State
}

// State returns the current step.
func (r *Refresher) State() State { return r.state }

// Run extracts every locale and then cleans the files of the domain. An
// extraction failure stops the run before any later locale; a file that
// cannot be parsed or written is reported and skipped.
func (r *Refresher) Run(ctx context.Context) (*Summary, error) {
	r.state = StateInit
	sum := &Summary{}
	o := &r.Options

	if len(o.Locales) == 0 {
		return r.fail(sum, fmt.Errorf("no locale to refresh"))
	}
	if o.Domain == "" {
		return r.fail(sum, fmt.Errorf("no translation domain"))
	}

	for _, locale := range o.Locales {
		if err := ctx.Err(); err != nil {
			return r.fail(sum, err)
		}
		r.state = StateExtract
		o.log("Extracting %s messages for %s", o.Domain, locale)
		req := delegate.Request{
			Bundle:       o.Bundle,
			Locale:       locale,
			Mode:         o.Mode,
			OutputFormat: o.OutputFormat,
			Domain:       o.Domain,
			Prefix:       o.Prefix,
			NoPrefix:     o.NoPrefix,
			NoBackup:     o.NoBackup,
			Clean:        o.Clean,
		}
		if err := r.Extractor.Extract(ctx, req); err != nil {
			return r.fail(sum, fmt.Errorf("extracting %s: %w", locale, err))
		}
		sum.Locales++
	}

	if o.Mode == delegate.ModeDump {
		o.log("Messages dumped, translation files left unchanged")
		r.state = StateDone
		return sum, nil
	}

	files, err := DomainFiles(o.TranslationsDir, o.Domain)
	if err != nil {
		return r.fail(sum, err)
	}
	sum.Files = len(files)

	for _, path := range files {
		r.state = StateClean
		if err := r.cleanFile(ctx, path, sum); err != nil {
			if isFileError(err) {
				o.logError("%v", err)
				sum.Failed++
				continue
			}
			return r.fail(sum, err)
		}
		sum.Cleaned++
	}

	r.state = StateDone
	return sum, nil
}

func (r *Refresher) fail(sum *Summary, err error) (*Summary, error) {
	r.state = StateError
	return sum, err
}

// isFileError reports errors that only affect the current file.
func isFileError(err error) bool {
	var pe *xliff.ParseError
	var ne *xliff.NamingError
	var we *xliff.WriteError
	return errors.As(err, &pe) || errors.As(err, &ne) || errors.As(err, &we)
}

func (r *Refresher) cleanFile(ctx context.Context, path string, sum *Summary) error {
	o := &r.Options
	doc, err := xliff.ParseFile(path)
	if err != nil {
		return err
	}

	res := merge.Clean(doc, merge.CleanOptions{
		PrimaryLocale: o.PrimaryLocale,
		Prefix:        o.prefix(),
		Conversions:   o.Conversions,
	})
	for _, key := range res.Dropped {
		o.log("%s: dropped untranslated %q", doc.Name, key)
	}
	if n := len(res.Dropped); n > 0 {
		o.warn("%s: %d untranslated unit(s) removed", doc.Name, n)
	}

	if o.Interactive && o.prefix() != "" && r.Prompter != nil {
		n, err := r.promptPlaceholders(ctx, doc)
		sum.Prompted += n
		if err != nil {
			return fmt.Errorf("%s: %w", doc.Name, err)
		}
	}

	if err := doc.WriteFile(path); err != nil {
		return err
	}

	total, _, untranslated, missing := doc.Stats(o.prefix())
	o.log("%s: %d units, %d untranslated, %d empty, %d dropped", doc.Name, total, untranslated, missing, len(res.Dropped))
	sum.Units += res.Kept
	sum.Dropped += len(res.Dropped)
	return nil
}

// promptPlaceholders asks for a translation of every target that still
// carries the prefix, offering the stripped text as the default.
func (r *Refresher) promptPlaceholders(ctx context.Context, doc *xliff.Document) (int, error) {
	o := &r.Options
	prefix := o.prefix()
	n := 0
	for _, u := range doc.Units {
		if !strings.HasPrefix(u.Target, prefix) {
			continue
		}
		stripped := merge.StripPrefix(u.Target, prefix)
		o.log("%s [%s]", doc.Name.Locale(), u.ResName)
		answer, err := r.Prompter.Prompt(ctx, fmt.Sprintf("Translation (%s): ", stripped), stripped)
		if err != nil {
			return n, err
		}
		u.SetTarget(convert.Convert(answer, o.Conversions))
		n++
	}
	return n, nil
}

// DomainFiles lists the XLIFF files of domain in dir, sorted by name.
// Backups ending in "~" and other extensions are ignored.
func DomainFiles(dir, domain string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, "~") || !strings.HasPrefix(name, domain+".") {
			continue
		}
		switch filepath.Ext(name) {
		case ".xlf", ".xliff":
		default:
			continue
		}
		// "messages.admin.fr.xlf" belongs to the messages.admin domain.
		if fn, err := xliff.ParseFileName(name); err == nil && fn.Domain != domain {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
