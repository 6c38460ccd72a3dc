package decision

import (
	"github.com/arthur-debert/cleanfiles/pkg/errors"
)

// Scripted answers prompts from a fixed queue. Answers that are not valid
// for the prompt they meet are skipped, mirroring the console's
// re-prompting; running out of answers behaves like closed input.
type Scripted struct {
	answers []string
	Asked   []Prompt
}

// NewScripted creates a provider that replays answers in order
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Choose implements Provider
func (s *Scripted) Choose(prompt Prompt) (string, error) {
	s.Asked = append(s.Asked, prompt)
	for len(s.answers) > 0 {
		answer := s.answers[0]
		s.answers = s.answers[1:]
		if key, ok := prompt.Match(answer); ok {
			return key, nil
		}
	}
	return "", errors.Newf(errors.ErrInputClosed, "no scripted answer left for %q", prompt.Question)
}

// Remaining returns the number of unused answers
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

// Recommended answers every prompt with its recommended choice, or the first
// choice when none is flagged. It never blocks.
type Recommended struct{}

// Choose implements Provider
func (Recommended) Choose(prompt Prompt) (string, error) {
	if len(prompt.Choices) == 0 {
		return "", errors.Newf(errors.ErrInternal, "prompt %q has no choices", prompt.Question)
	}
	for _, c := range prompt.Choices {
		if c.Recommended {
			return c.Key, nil
		}
	}
	return prompt.Choices[0].Key, nil
}
