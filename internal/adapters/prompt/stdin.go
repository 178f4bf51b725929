// Package prompt provides an operator prompt adapter reading from stdin.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opsbench/setup/internal/ports"
)

// StdinPrompter reads single-line answers from an input stream.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter creates a prompter wired to the operator's terminal.
func NewStdinPrompter() *StdinPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter creates a prompter with explicit streams, for testing.
func NewPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask displays the prompt and reads one line, trimmed of whitespace.
func (p *StdinPrompter) Ask(_ context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Ensure StdinPrompter implements ports.Prompter.
var _ ports.Prompter = (*StdinPrompter)(nil)
