package trans

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aaronopela/dtools/convert"
	"github.com/aaronopela/dtools/merge"
	"github.com/aaronopela/dtools/prompt"
	"github.com/aaronopela/dtools/xliff"
)

var (
	// ErrNoTranslationFile is returned when the target file is missing and
	// its creation was declined.
	ErrNoTranslationFile = errors.New("no translation file")
	// ErrUnsupportedFormat is returned for a file format other than xlf.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNothingToAdd is returned when no valid token was given.
	ErrNothingToAdd = errors.New("no valid translation to add")
)

// AddOptions configures an add run.
type AddOptions struct {
	TranslationsDir string
	Domain          string
	Locale          string
	// FileFormat must be "xlf".
	FileFormat string
	// Tokens are KEY or KEY:TEXT arguments.
	Tokens   []string
	Prefix   string
	NoPrefix bool
	// Conversions are applied to the inserted targets.
	Conversions convert.Options

	OnLog   func(format string, args ...any)
	OnWarn  func(format string, args ...any)
	OnError func(format string, args ...any)
}

func (o *AddOptions) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *AddOptions) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// AddResult reports what an add run did.
type AddResult struct {
	// Path is the translation file written.
	Path    string
	Created bool
	merge.InsertResult
	// Rejected is the number of invalid tokens.
	Rejected int
	// Refresh is the refresh summary when a refresh ran.
	Refresh *Summary
}

// Adder runs trans add.
type Adder struct {
	Options AddOptions
	// Prompter confirms the creation of a missing file. Nil declines.
	Prompter prompt.Prompter
	// Refresher, when set, runs after the file was saved.
	Refresher *Refresher
}

// Run inserts the tokens into <domain>.<locale>.xlf, creating the file
// when the operator agrees.
func (a *Adder) Run(ctx context.Context) (*AddResult, error) {
	o := &a.Options
	if o.FileFormat != "xlf" {
		return nil, fmt.Errorf("%w %q: only xlf is supported", ErrUnsupportedFormat, o.FileFormat)
	}

	prefix := o.Prefix
	if o.NoPrefix {
		prefix = ""
	}
	batch := merge.NewBatch(prefix)
	batch.OnWarn = o.OnWarn
	for _, err := range batch.AddAll(o.Tokens) {
		o.logError("%v", err)
	}

	res := &AddResult{Rejected: len(batch.Errors)}
	if batch.Len() == 0 {
		return res, ErrNothingToAdd
	}

	name := xliff.NewFileName(o.Domain, o.Locale, "xlf")
	res.Path = filepath.Join(o.TranslationsDir, name.String())

	res.Created = !fileExists(res.Path)
	doc, err := a.open(ctx, res.Path, name)
	if err != nil {
		return res, err
	}

	res.InsertResult = merge.Insert(doc, batch)
	if o.Conversions.Any() {
		for _, keys := range [][]string{res.Added, res.Updated} {
			for _, key := range keys {
				u := doc.Unit(key)
				u.SetTarget(convert.Convert(u.Target, o.Conversions))
			}
		}
	}
	for _, key := range res.Kept {
		o.log("%s: %q already translated, kept", name, key)
	}

	if err := doc.WriteFile(res.Path); err != nil {
		return res, err
	}
	o.log("%s: %d added, %d updated", name, len(res.Added), len(res.Updated))

	if a.Refresher != nil {
		sum, err := a.Refresher.Run(ctx)
		res.Refresh = sum
		if err != nil {
			return res, fmt.Errorf("refresh: %w", err)
		}
	}
	return res, nil
}

// open parses the existing file or, on confirmation, starts a new one.
func (a *Adder) open(ctx context.Context, path string, name xliff.FileName) (*xliff.Document, error) {
	if fileExists(path) {
		return xliff.ParseFile(path)
	}
	if a.Prompter == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoTranslationFile)
	}
	ok, err := a.Prompter.Confirm(ctx, fmt.Sprintf("Translation file %q doesn't exist. Create?", name.String()), false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNoTranslationFile)
	}
	return xliff.New(name.Domain, name.Locale()), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
