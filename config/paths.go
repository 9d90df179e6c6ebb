package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TranslationsDirCandidates returns the directories, relative to the
// project root unless absolute, that may hold the translations of bundle,
// in lookup order. An empty bundle falls back to the configured one.
func (c *Config) TranslationsDirCandidates(bundle string) []string {
	if bundle == "" {
		bundle = c.Bundle
	}

	var dirs []string
	add := func(parts ...string) {
		dirs = append(dirs, filepath.Join(parts...))
	}

	if c.TranslationsPath != "" {
		add(c.TranslationsPath)
	}
	if bundle != "" {
		add(bundle, "Resources", "translations")
		add(bundle, "translations")
		// "AppBundle" lives in src/AppBundle.
		if !strings.ContainsRune(bundle, '/') {
			add("src", bundle, "Resources", "translations")
		}
	}
	if c.Path != "" {
		add(c.Path, "Resources", "translations")
		add(c.Path, "translations")
	}
	add("translations")
	return dirs
}

// FindTranslationsDir returns the first existing translations directory
// for bundle under rootDir.
func (c *Config) FindTranslationsDir(rootDir, bundle string) (string, error) {
	candidates := c.TranslationsDirCandidates(bundle)
	for _, dir := range candidates {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(rootDir, dir)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no translations directory found (tried %s): %w", strings.Join(candidates, ", "), os.ErrNotExist)
}
