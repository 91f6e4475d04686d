package prompt

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Cancel is the scripted answer that cancels a prompt.
const Cancel = "\x00cancel"

// Notice is one message passed to Notify.
type Notice struct {
	Title   string
	Message string
}

// Scripted answers prompts from a queue. An exhausted queue cancels.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	asked   []string
	notices []Notice
}

// NewScripted returns a Scripted prompter that will give answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(title string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, title)
	if len(s.answers) == 0 {
		return "", false
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a == Cancel {
		return "", false
	}
	return a, true
}

// Choose implements Prompter. An answer that is not one of options
// cancels.
func (s *Scripted) Choose(ctx context.Context, title, _ string, options []string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	a, ok := s.next(title)
	if !ok || !slices.Contains(options, a) {
		return "", false
	}
	return a, true
}

// Input implements Prompter.
func (s *Scripted) Input(ctx context.Context, title, _ string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	a, ok := s.next(title)
	a = strings.TrimSpace(a)
	return a, ok && a != ""
}

// Notify implements Prompter.
func (s *Scripted) Notify(_ context.Context, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Title: title, Message: message})
}

// Asked returns the titles of every Choose and Input call so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.asked)
}

// Notices returns every Notify call so far.
func (s *Scripted) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notices)
}

// Remaining returns how many answers are left.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Scripted) String() string {
	return fmt.Sprintf("scripted(%d left)", s.Remaining())
}
