package delegate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTool creates an executable script that records its arguments, one
// per line, in $DTOOLS_ARGS_OUT and exits with $DTOOLS_EXIT.
func writeTool(t *testing.T) (command []string, argsOut string) {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "console")
	body := "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$DTOOLS_ARGS_OUT\"\nexit \"${DTOOLS_EXIT:-0}\"\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	argsOut = filepath.Join(dir, "args.txt")
	t.Setenv("DTOOLS_ARGS_OUT", argsOut)
	return []string{script, "translation:update"}, argsOut
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestParseCommand(t *testing.T) {
	got, err := ParseCommand(`php "bin/my console" translation:update`)
	if err != nil {
		t.Fatalf("ParseCommand error: %v", err)
	}
	if diff := cmp.Diff([]string{"php", "bin/my console", "translation:update"}, got); diff != "" {
		t.Errorf("ParseCommand mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseCommand("   "); err == nil {
		t.Error("expected error for empty command")
	}
	if ToolName(got) != "translation:update" {
		t.Errorf("ToolName = %q", ToolName(got))
	}
}

func TestRequestArgs(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "force with prefix",
			req:  Request{Locale: "fr", Mode: ModeForce, OutputFormat: "xlf", Prefix: "__", Domain: "messages", Bundle: "AppBundle"},
			want: []string{"--force", "--output-format=xlf", "--prefix=__", "--domain=messages", "fr", "AppBundle"},
		},
		{
			name: "dump without prefix",
			req:  Request{Locale: "en", Mode: ModeDump, Prefix: "__", NoPrefix: true, Clean: true, NoBackup: true},
			want: []string{"--dump-messages", "--no-prefix", "--no-backup", "--clean", "en"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.req.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractor_PassesArguments(t *testing.T) {
	command, argsOut := writeTool(t)

	var lines []string
	runner := &Runner{
		Dir:           t.TempDir(),
		Verbose:       true,
		OnCommandLine: func(line string) { lines = append(lines, line) },
	}
	ex := &Extractor{Command: command, Runner: runner}

	req := Request{Locale: "fr", Mode: ModeForce, OutputFormat: "xlf"}
	if err := ex.Extract(context.Background(), req); err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	want := []string{"translation:update", "--force", "--output-format=xlf", "fr"}
	if diff := cmp.Diff(want, readArgs(t, argsOut)); diff != "" {
		t.Errorf("tool arguments mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"translation:update --force --output-format=xlf fr"}, lines); diff != "" {
		t.Errorf("command line mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	command, _ := writeTool(t)
	t.Setenv("DTOOLS_EXIT", "3")

	var stderr bytes.Buffer
	runner := &Runner{Stderr: &stderr}
	err := runner.Run(context.Background(), command, "fr")

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Run() error = %v, want *ToolError", err)
	}
	if te.ExitCode != 3 || te.Tool != "translation:update" {
		t.Errorf("ToolError = %+v", te)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	runner := &Runner{}
	err := runner.Run(context.Background(), []string{"dtools-no-such-binary", "doctrine:generate:entities"}, "AppBundle")

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Run() error = %v, want *ToolError", err)
	}
	if te.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", te.ExitCode)
	}
}

func TestRunner_VerboseOff(t *testing.T) {
	command, _ := writeTool(t)
	called := false
	runner := &Runner{OnCommandLine: func(string) { called = true }}
	if err := runner.Run(context.Background(), command, "en"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if called {
		t.Error("OnCommandLine called without Verbose")
	}
}

func TestEntityGenerator(t *testing.T) {
	command, argsOut := writeTool(t)
	gen := &EntityGenerator{Command: command, Runner: &Runner{}}

	if err := gen.Generate(context.Background(), EntityRequest{Name: "AppBundle", NoBackup: true}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if diff := cmp.Diff([]string{"translation:update", "AppBundle", "--no-backup"}, readArgs(t, argsOut)); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}

	if err := gen.Generate(context.Background(), EntityRequest{}); err == nil {
		t.Error("expected error for empty name")
	}
}
