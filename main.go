// dtools: developer tools for a Symfony application (translation refresh,
// translation add, entity refresh).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aaronopela/dtools/config"
	"github.com/aaronopela/dtools/delegate"
	"github.com/aaronopela/dtools/i18n"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

// logVerbose prints only with --verbose. Library progress goes here.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "       "+format+"\n", args...)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir       string
	configPath    string
	envName       string
	verbose       bool
	noInteraction bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dtools",
		Short: "Developer tools for translations and Doctrine entities",
		Long: `dtools: developer tools for a Symfony application.

Commands:
  trans refresh     Extract messages for every locale and clean the XLIFF files
  trans add         Add translation keys to an XLIFF file
  entities refresh  Regenerate Doctrine entities

Every command only runs on a development environment (trans add also on
test). The environment is taken from --env, DTOOLS_ENV, APP_ENV, or
defaults to dev.

Configuration is read from .dtools.yaml in the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags, inherited by all subcommands
	pf := root.PersistentFlags()
	pf.StringVar(&rootDir, "root", ".", "Project root directory")
	pf.StringVar(&configPath, "config", "", "Config file (default: <root>/"+config.FileName+")")
	pf.StringVar(&envName, "env", "", "Environment name (default: $DTOOLS_ENV, $APP_ENV or dev)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show tool command lines and per-file details")
	pf.BoolVarP(&noInteraction, "no-interaction", "n", false, "Never ask questions")

	root.AddCommand(
		newTransCmd(),
		newEntitiesCmd(),
		newVersionCmd(),
		// Short forms of the commands above.
		newTransRefreshCmd("refresh-translations"),
		newTransAddCmd("add-translation"),
		newEntitiesRefreshCmd("refresh-entities"),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, cancel := interruptContext()
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints a command error as one line, plus the exit code of a
// failed tool.
func reportError(err error) {
	logError("%v", err)
	var te *delegate.ToolError
	if errors.As(err, &te) && te.ExitCode >= 0 {
		logError("Process ended with error code: %d", te.ExitCode)
	}
}

// interruptContext is cancelled on the first SIGINT.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			logWarning("Interrupted")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dtools version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared setup
// ---------------------------------------------------------------------------

// project is the checked environment and loaded configuration of a run.
type project struct {
	root string
	env  string
	cfg  *config.Config
}

// loadProject checks the environment against allowed and loads the
// configuration. Nothing else happens before the guard passed.
func loadProject(allowed ...string) (*project, error) {
	env := config.ResolveEnvironment(envName)
	if err := config.Guard(env, allowed...); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logVerbose("environment %s, project root %s", env, root)
	return &project{root: root, env: env, cfg: cfg}, nil
}

// runner returns the tool runner for the project.
func (p *project) runner() *delegate.Runner {
	return &delegate.Runner{
		Dir:           p.root,
		Verbose:       verbose,
		OnCommandLine: func(line string) { logInfo("> %s", line) },
	}
}

// translationsDir returns the directory given with --path, or the one
// found for bundle.
func (p *project) translationsDir(path, bundle string) (string, error) {
	if path == "" {
		return p.cfg.FindTranslationsDir(p.root, bundle)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("translations directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("translations directory: %s is not a directory", path)
	}
	return path, nil
}

// resolvePair resolves a pair of opposite boolean flags: yes wins over no,
// and def applies when neither is set.
func resolvePair(fs *pflag.FlagSet, yes, no string, def bool) bool {
	if on, _ := fs.GetBool(yes); on {
		return true
	}
	if off, _ := fs.GetBool(no); off {
		return false
	}
	return def
}
