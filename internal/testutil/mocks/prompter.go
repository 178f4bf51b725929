package mocks

import (
	"context"
	"sync"

	"github.com/opsbench/setup/internal/ports"
)

// Prompter is a test double for ports.Prompter returning scripted answers.
type Prompter struct {
	mu      sync.Mutex
	answers []string
	err     error
	asked   []string
}

// NewPrompter creates a Prompter that replies with the given answers in order.
func NewPrompter(answers ...string) *Prompter {
	return &Prompter{answers: answers}
}

// SetError makes every Ask return the given error.
func (m *Prompter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Ask records the prompt and returns the next scripted answer.
// Once answers run out it returns an empty string.
func (m *Prompter) Ask(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.asked = append(m.asked, prompt)

	if m.err != nil {
		return "", m.err
	}
	if len(m.answers) == 0 {
		return "", nil
	}

	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer, nil
}

// Prompts returns all prompts shown so far.
func (m *Prompter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	prompts := make([]string, len(m.asked))
	copy(prompts, m.asked)
	return prompts
}

// Ensure Prompter implements ports.Prompter.
var _ ports.Prompter = (*Prompter)(nil)
