package main

import (
	"github.com/spf13/cobra"

	"github.com/aaronopela/dtools/config"
	"github.com/aaronopela/dtools/delegate"
	"github.com/aaronopela/dtools/i18n"
	"github.com/aaronopela/dtools/prompt"
	"github.com/aaronopela/dtools/trans"
)

func newTransCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trans",
		Short: "Manage XLIFF translation files",
	}
	cmd.AddCommand(
		newTransRefreshCmd("refresh"),
		newTransAddCmd("add"),
	)
	return cmd
}

// ---------------------------------------------------------------------------
// trans refresh
// ---------------------------------------------------------------------------

type refreshFlags struct {
	domain   string
	locales  []string
	path     string
	prefix   string
	noPrefix bool
	clean    bool
}

func newTransRefreshCmd(name string) *cobra.Command {
	var f refreshFlags

	cmd := &cobra.Command{
		Use:   name + " [bundle]",
		Short: "Extract messages for every locale and clean the XLIFF files",
		Long: `Run the translation extractor once per locale, then normalize every
XLIFF file of the domain: units are sorted in natural order, untranslated
units are removed from non-primary locales, configured character
conversions are applied and the files are rewritten.

When a placeholder prefix is used and a terminal is attached, the
remaining placeholders are offered for translation.

Examples:
  dtools trans refresh
  dtools trans refresh src/AppBundle -l en -l fr
  dtools trans refresh --dump -d validators`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(config.EnvDev)
			if err != nil {
				return err
			}
			r, err := p.newRefresher(cmd, bundleArg(args, p.cfg), f, newConsole())
			if err != nil {
				return err
			}

			sum, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}
			reportRefresh(sum)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.domain, "domain", "d", "", "Translation domain (default from config)")
	fl.StringArrayVarP(&f.locales, "locale", "l", nil, "Locale to extract (repeatable, default from config)")
	fl.StringVarP(&f.path, "path", "p", "", "Translations directory")
	fl.Bool("force", false, "Write the extracted messages to the translation files")
	fl.Bool("dump", false, "Only print the extracted messages")
	fl.Bool("no-backup", false, "Do not let the extractor keep backup files")
	fl.Bool("force-backup", false, "Let the extractor keep backup files")
	fl.StringVar(&f.prefix, "prefix", "", "Placeholder prefix for new messages (default from config)")
	fl.BoolVar(&f.noPrefix, "no-prefix", false, "Do not prefix new messages")
	fl.BoolVar(&f.clean, "clean", false, "Remove messages no longer found in the sources")
	cmd.MarkFlagsMutuallyExclusive("force", "dump")

	return cmd
}

func bundleArg(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Bundle
}

// newConsole returns the prompter of the run, or nil with --no-interaction.
// Callers share it: a second console on stdin would steal answers.
func newConsole() *prompt.Console {
	if noInteraction {
		return nil
	}
	return prompt.NewConsole()
}

// newRefresher builds a refresh run from the configuration and the flags
// of cmd that were set. Placeholders are prompted for through console when
// it is attached to a terminal.
func (p *project) newRefresher(cmd *cobra.Command, bundle string, f refreshFlags, console *prompt.Console) (*trans.Refresher, error) {
	u := p.cfg.TranslationUpdate
	d := u.Defaults
	fl := cmd.Flags()

	command, err := p.cfg.ExtractCommand()
	if err != nil {
		return nil, err
	}
	dir, err := p.translationsDir(f.path, bundle)
	if err != nil {
		return nil, err
	}

	opts := trans.RefreshOptions{
		Bundle:          bundle,
		TranslationsDir: dir,
		Domain:          d.Domain,
		Locales:         d.Locales,
		Mode:            d.Mode,
		OutputFormat:    d.OutputFormat,
		Prefix:          d.Prefix,
		NoPrefix:        d.NoPrefix,
		NoBackup:        resolvePair(fl, "no-backup", "force-backup", d.NoBackup),
		Clean:           d.Clean,
		PrimaryLocale:   u.PrimaryLocale,
		Conversions:     u.Conversions,
		OnLog:           logVerbose,
		OnWarn:          logWarning,
		OnError:         logError,
	}
	if f.domain != "" {
		opts.Domain = f.domain
	}
	if len(f.locales) > 0 {
		for _, l := range f.locales {
			if err := config.ValidateLocale(l); err != nil {
				return nil, err
			}
		}
		opts.Locales = f.locales
	}
	if on, _ := fl.GetBool("force"); on {
		opts.Mode = delegate.ModeForce
	}
	if on, _ := fl.GetBool("dump"); on {
		opts.Mode = delegate.ModeDump
	}
	if fl.Changed("prefix") {
		opts.Prefix = f.prefix
	}
	if f.noPrefix {
		opts.NoPrefix = true
	}
	if f.clean {
		opts.Clean = true
	}

	r := &trans.Refresher{
		Options: opts,
		Extractor: &delegate.Extractor{
			Command: command,
			Runner:  p.runner(),
		},
	}
	if console != nil && console.Interactive() {
		r.Options.Interactive = true
		r.Prompter = console
	}

	logVerbose("translations directory %s, locales %v, mode %s", dir, opts.Locales, opts.Mode)
	return r, nil
}

func reportRefresh(sum *trans.Summary) {
	logInfo(i18n.N("%d locale extracted", "%d locales extracted", sum.Locales), sum.Locales)
	if sum.Files > 0 {
		logInfo(i18n.N("%d file cleaned", "%d files cleaned", sum.Cleaned), sum.Cleaned)
	}
	if sum.Dropped > 0 {
		logInfo(i18n.N("%d untranslated unit removed", "%d untranslated units removed", sum.Dropped), sum.Dropped)
	}
	if sum.Prompted > 0 {
		logInfo(i18n.N("%d placeholder translated", "%d placeholders translated", sum.Prompted), sum.Prompted)
	}
	if sum.Failed > 0 {
		logWarning(i18n.N("%d file could not be cleaned", "%d files could not be cleaned", sum.Failed), sum.Failed)
	}
	logSuccess("Done!")
}

// ---------------------------------------------------------------------------
// trans add
// ---------------------------------------------------------------------------

func newTransAddCmd(name string) *cobra.Command {
	var (
		domain   string
		locale   string
		format   string
		path     string
		tokens   []string
		refresh  refreshFlags
		noPrefix bool
	)

	cmd := &cobra.Command{
		Use:   name + " [bundle]",
		Short: "Add translation keys to an XLIFF file",
		Long: `Add KEY or KEY:TEXT translations to <domain>.<locale>.xlf. A key given
without text gets the placeholder prefix (e.g. __my.key). When a key is
given twice, a translation wins over a placeholder and a later
translation replaces an earlier one with a warning.

If the file does not exist you are asked whether to create it.

Examples:
  dtools trans add -t menu.home:Home -t menu.about
  dtools trans add src/AppBundle -l fr -t menu.home:Accueil --refresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(config.EnvDev, config.EnvTest)
			if err != nil {
				return err
			}
			d := p.cfg.TranslationAdd.Defaults
			u := p.cfg.TranslationUpdate
			fl := cmd.Flags()
			bundle := bundleArg(args, p.cfg)

			dir, err := p.translationsDir(path, bundle)
			if err != nil {
				return err
			}

			opts := trans.AddOptions{
				TranslationsDir: dir,
				Domain:          d.Domain,
				Locale:          d.Locale,
				FileFormat:      d.FileFormat,
				Tokens:          tokens,
				Prefix:          u.Defaults.Prefix,
				NoPrefix:        u.Defaults.NoPrefix || noPrefix,
				Conversions:     u.Conversions,
				OnLog:           logVerbose,
				OnWarn:          logWarning,
				OnError:         logError,
			}
			if domain != "" {
				opts.Domain = domain
			}
			if locale != "" {
				if err := config.ValidateLocale(locale); err != nil {
					return err
				}
				opts.Locale = locale
			}
			if format != "" {
				opts.FileFormat = format
			}

			console := newConsole()
			a := &trans.Adder{Options: opts}
			if console != nil {
				a.Prompter = console
			}
			if resolvePair(fl, "refresh", "no-refresh", d.Refresh) {
				refresh.path = path
				refresh.domain = opts.Domain
				refresh.noPrefix = noPrefix
				if a.Refresher, err = p.newRefresher(cmd, bundle, refresh, console); err != nil {
					return err
				}
			}

			res, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}

			if res.Created {
				logInfo("Created %s", res.Path)
			}
			logSuccess(i18n.N("%d translation added", "%d translations added", len(res.Added)), len(res.Added))
			if len(res.Updated) > 0 {
				logInfo(i18n.N("%d translation updated", "%d translations updated", len(res.Updated)), len(res.Updated))
			}
			if res.Refresh != nil {
				reportRefresh(res.Refresh)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&domain, "domain", "d", "", "Translation domain (default from config)")
	fl.StringVarP(&locale, "locale", "l", "", "Locale of the file (default from config)")
	fl.StringVar(&format, "format", "", "File format, only xlf is supported (default from config)")
	fl.StringVarP(&path, "path", "p", "", "Translations directory")
	fl.StringArrayVarP(&tokens, "trans", "t", nil, "KEY or KEY:TEXT to add (repeatable)")
	fl.BoolVar(&noPrefix, "no-prefix", false, "Use the bare key for keys given without text")
	fl.Bool("refresh", false, "Run trans refresh afterwards")
	fl.Bool("no-refresh", false, "Do not run trans refresh afterwards")
	_ = cmd.MarkFlagRequired("trans")
	cmd.MarkFlagsMutuallyExclusive("refresh", "no-refresh")

	return cmd
}
