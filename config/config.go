// Package config holds the dtools configuration loaded from .dtools.yaml,
// the development environment guard and the lookup of the translations
// directory of a bundle.
package config

import (
	"github.com/aaronopela/dtools/convert"
)

// Config is the .dtools.yaml structure. It is loaded once per run and not
// modified afterwards.
type Config struct {
	// Bundle is the default bundle or directory (e.g. "src/AppBundle").
	Bundle string `yaml:"bundle"`
	// Path is the bundle path when it cannot be guessed from Bundle.
	Path string `yaml:"path"`
	// TranslationsPath is the translations directory when it is not under
	// <bundle>/Resources/translations.
	TranslationsPath string `yaml:"translations_path"`

	TranslationUpdate TranslationUpdate `yaml:"translation_update"`
	TranslationAdd    TranslationAdd    `yaml:"translation_add"`
	Entities          Entities          `yaml:"doctrine_generate_entities"`
}

// TranslationUpdate configures trans refresh.
type TranslationUpdate struct {
	// Command is the extraction tool command line.
	Command string `yaml:"command"`
	// PrimaryLocale, when set, is the only locale whose files keep
	// untranslated placeholders.
	PrimaryLocale string          `yaml:"primary_locale"`
	Conversions   convert.Options `yaml:"conversions"`
	Defaults      UpdateDefaults  `yaml:"defaults"`
}

// UpdateDefaults are the trans refresh option defaults.
type UpdateDefaults struct {
	Locales      []string `yaml:"locales"`
	Prefix       string   `yaml:"prefix"`
	NoPrefix     bool     `yaml:"no_prefix"`
	OutputFormat string   `yaml:"output_format"`
	// Mode is "force" (write files) or "dump-messages" (print only).
	Mode     string `yaml:"mode"`
	NoBackup bool   `yaml:"no_backup"`
	Clean    bool   `yaml:"clean"`
	Domain   string `yaml:"domain"`
}

// TranslationAdd configures trans add.
type TranslationAdd struct {
	Defaults AddDefaults `yaml:"defaults"`
}

// AddDefaults are the trans add option defaults.
type AddDefaults struct {
	Domain     string `yaml:"domain"`
	Locale     string `yaml:"locale"`
	FileFormat string `yaml:"file_format"`
	// Refresh runs trans refresh after adding.
	Refresh bool `yaml:"refresh"`
}

// Entities configures entities refresh.
type Entities struct {
	Command  string           `yaml:"command"`
	Defaults EntitiesDefaults `yaml:"defaults"`
}

// EntitiesDefaults are the entities refresh option defaults.
type EntitiesDefaults struct {
	NoBackup bool `yaml:"no_backup"`
}

// Default returns the configuration used when no .dtools.yaml exists.
func Default() *Config {
	return &Config{
		TranslationUpdate: TranslationUpdate{
			Command: "php bin/console translation:update",
			Defaults: UpdateDefaults{
				Locales:      []string{"en"},
				Prefix:       "__",
				OutputFormat: "xlf",
				Mode:         "force",
				Domain:       "messages",
			},
		},
		TranslationAdd: TranslationAdd{
			Defaults: AddDefaults{
				Domain:     "messages",
				Locale:     "en",
				FileFormat: "xlf",
			},
		},
		Entities: Entities{
			Command: "php bin/console doctrine:generate:entities",
		},
	}
}
