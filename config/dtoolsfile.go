package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/aaronopela/dtools/delegate"
)

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name, looked up in the project root.
const FileName = ".dtools.yaml"

// Load reads .dtools.yaml from rootDir. Defaults are returned when the file
// does not exist.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads and validates a config file. Values missing from the file
// keep their defaults; unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate checks modes, locales and command lines.
func (c *Config) Validate() error {
	u := c.TranslationUpdate
	switch u.Defaults.Mode {
	case delegate.ModeForce, delegate.ModeDump:
	default:
		return fmt.Errorf("translation_update.defaults.mode %q is invalid (valid: force, dump-messages)", u.Defaults.Mode)
	}

	if len(u.Defaults.Locales) == 0 {
		return fmt.Errorf("translation_update.defaults.locales is empty")
	}
	for _, l := range u.Defaults.Locales {
		if err := ValidateLocale(l); err != nil {
			return fmt.Errorf("translation_update.defaults.locales: %w", err)
		}
	}
	if u.PrimaryLocale != "" {
		if err := ValidateLocale(u.PrimaryLocale); err != nil {
			return fmt.Errorf("translation_update.primary_locale: %w", err)
		}
	}
	if u.Defaults.Domain == "" {
		return fmt.Errorf("translation_update.defaults.domain is empty")
	}

	a := c.TranslationAdd.Defaults
	if a.Domain == "" {
		return fmt.Errorf("translation_add.defaults.domain is empty")
	}
	if err := ValidateLocale(a.Locale); err != nil {
		return fmt.Errorf("translation_add.defaults.locale: %w", err)
	}

	if _, err := delegate.ParseCommand(u.Command); err != nil {
		return fmt.Errorf("translation_update.command: %w", err)
	}
	if _, err := delegate.ParseCommand(c.Entities.Command); err != nil {
		return fmt.Errorf("doctrine_generate_entities.command: %w", err)
	}
	return nil
}

// ValidateLocale checks that s is a locale such as "en", "fr_CA" or "pt-BR".
func ValidateLocale(s string) error {
	if s == "" {
		return fmt.Errorf("empty locale")
	}
	if _, err := language.Parse(strings.ReplaceAll(s, "_", "-")); err != nil {
		return fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return nil
}

// ExtractCommand returns the split translation_update.command.
func (c *Config) ExtractCommand() ([]string, error) {
	return delegate.ParseCommand(c.TranslationUpdate.Command)
}

// EntitiesCommand returns the split doctrine_generate_entities.command.
func (c *Config) EntitiesCommand() ([]string, error) {
	return delegate.ParseCommand(c.Entities.Command)
}
