// Package prompt asks the operator questions on the console. The refresh
// flow uses it to fill in untranslated placeholders and the add flow to
// confirm creating a missing translation file.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input ends before an answer was read.
var ErrNoInput = errors.New("no input received")

// Prompter asks questions. Prompt returns def when the answer is blank.
type Prompter interface {
	Prompt(ctx context.Context, message, def string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Console reads answers line by line from In and writes questions to Out.
// Input is only read while a question waits for its answer, so one
// Console must be shared by everything asking questions in a run.
type Console struct {
	In  io.Reader
	Out io.Writer

	r       *bufio.Reader
	pending chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// NewConsole returns a console prompter on stdin and stderr.
func NewConsole() *Console {
	return &Console{In: os.Stdin, Out: os.Stderr}
}

// Interactive reports whether In is a terminal.
func (c *Console) Interactive() bool {
	f, ok := c.In.(*os.File)
	return ok && IsTerminal(f)
}

// Prompt prints message and reads one line. A blank line selects def;
// any other answer is returned with its spaces.
func (c *Console) Prompt(ctx context.Context, message, def string) (string, error) {
	fmt.Fprint(c.Out, message)
	line, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question until it gets an answer it understands.
func (c *Console) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	hint := "no"
	if def {
		hint = "yes"
	}
	for {
		fmt.Fprintf(c.Out, "%s (yes/no) [%s]: ", message, hint)
		line, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		if ok, valid := ParseYesNo(line, def); valid {
			return ok, nil
		}
		fmt.Fprintln(c.Out, "Please answer yes or no.")
	}
}

// readLine reads the next line without the line ending. A read is only
// started when asked for; when ctx ends first, the read stays pending and
// its line goes to the next call.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if c.pending == nil {
		if c.r == nil {
			c.r = bufio.NewReader(c.In)
		}
		ch := make(chan lineResult, 1)
		c.pending = ch
		go func() { ch <- readOne(c.r) }()
	}
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.Out)
		return "", ctx.Err()
	case r := <-c.pending:
		c.pending = nil
		return r.text, r.err
	}
}

func readOne(r *bufio.Reader) lineResult {
	line, err := r.ReadString('\n')
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	switch {
	case err == nil:
		return lineResult{text: line}
	case errors.Is(err, io.EOF):
		if line != "" {
			return lineResult{text: line}
		}
		return lineResult{err: ErrNoInput}
	default:
		return lineResult{err: fmt.Errorf("reading input: %w", err)}
	}
}

// ParseYesNo interprets a confirmation answer. An empty answer selects
// def; valid is false for anything that is not a yes or no.
func ParseYesNo(answer string, def bool) (ok, valid bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// Scripted answers questions from a fixed list, in order. It records every
// question asked.
type Scripted struct {
	Answers []string
	Asked   []string
}

// Prompt returns the next answer, or def when it is blank.
func (s *Scripted) Prompt(ctx context.Context, message, def string) (string, error) {
	answer, err := s.next(ctx, message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm returns the next answer read as yes or no.
func (s *Scripted) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	answer, err := s.next(ctx, message)
	if err != nil {
		return false, err
	}
	ok, valid := ParseYesNo(answer, def)
	if !valid {
		return false, fmt.Errorf("scripted answer %q is not yes or no", answer)
	}
	return ok, nil
}

func (s *Scripted) next(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Asked = append(s.Asked, message)
	if len(s.Answers) == 0 {
		return "", ErrNoInput
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}
