package delegate

import (
	"context"
	"fmt"
)

// Extraction modes of translation:update.
const (
	ModeForce = "force"
	ModeDump  = "dump-messages"
)

// Request describes one translation:update run for a single locale.
type Request struct {
	Bundle       string
	Locale       string
	Mode         string
	OutputFormat string
	Domain       string
	// Prefix is passed as --prefix unless NoPrefix is set or it is empty.
	Prefix   string
	NoPrefix bool
	NoBackup bool
	// Clean removes messages no longer found in the sources.
	Clean bool
}

// Args returns the translation:update arguments for the request.
func (r Request) Args() []string {
	var args []string
	if r.Mode == ModeDump {
		args = append(args, "--dump-messages")
	} else {
		args = append(args, "--force")
	}
	if r.OutputFormat != "" {
		args = append(args, "--output-format="+r.OutputFormat)
	}
	switch {
	case r.NoPrefix:
		args = append(args, "--no-prefix")
	case r.Prefix != "":
		args = append(args, "--prefix="+r.Prefix)
	}
	if r.Domain != "" {
		args = append(args, "--domain="+r.Domain)
	}
	if r.NoBackup {
		args = append(args, "--no-backup")
	}
	if r.Clean {
		args = append(args, "--clean")
	}
	args = append(args, r.Locale)
	if r.Bundle != "" {
		args = append(args, r.Bundle)
	}
	return args
}

// Extractor runs the translation extraction tool.
type Extractor struct {
	Command []string
	Runner  *Runner
}

// Extract runs the extraction for one locale.
func (e *Extractor) Extract(ctx context.Context, req Request) error {
	if req.Locale == "" {
		return fmt.Errorf("extract: no locale given")
	}
	return e.Runner.Run(ctx, e.Command, req.Args()...)
}

// EntityRequest describes one doctrine:generate:entities run.
type EntityRequest struct {
	// Name is a bundle, namespace or entity class.
	Name     string
	NoBackup bool
}

// Args returns the doctrine:generate:entities arguments for the request.
func (r EntityRequest) Args() []string {
	args := []string{r.Name}
	if r.NoBackup {
		args = append(args, "--no-backup")
	}
	return args
}

// EntityGenerator runs the Doctrine entity generator.
type EntityGenerator struct {
	Command []string
	Runner  *Runner
}

// Generate runs the generator for req.Name.
func (g *EntityGenerator) Generate(ctx context.Context, req EntityRequest) error {
	if req.Name == "" {
		return fmt.Errorf("generate entities: no bundle, namespace or entity given")
	}
	return g.Runner.Run(ctx, g.Command, req.Args()...)
}
