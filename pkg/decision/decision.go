// Package decision supplies answers when a policy is set to ask.
//
// A Provider is synchronous: Choose blocks until it has an answer that is
// one of the prompt's options. Invalid answers are handled inside the
// provider (the console re-prompts); the only error a caller sees is that no
// answer can be obtained at all, which aborts the run.
package decision

import "strings"

// Choice is one allowed answer
type Choice struct {
	// Key is what the user types and what Choose returns
	Key string

	// Label describes the choice
	Label string

	// Recommended marks the answer the policy would pick on its own
	Recommended bool
}

// Prompt is a question with a closed set of answers
type Prompt struct {
	Question string
	Choices  []Choice
}

// Options returns the allowed keys in order
func (p Prompt) Options() []string {
	keys := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		keys[i] = c.Key
	}
	return keys
}

// Match returns the option key equal to answer (case-insensitive, trimmed)
func (p Prompt) Match(answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	for _, c := range p.Choices {
		if strings.EqualFold(c.Key, answer) {
			return c.Key, true
		}
	}
	return "", false
}

// Provider answers prompts
type Provider interface {
	Choose(prompt Prompt) (string, error)
}

// Keys shared by yes/no style prompts
const (
	Yes = "y"
	No  = "n"
)

// YesNo builds a confirmation prompt
func YesNo(question, yesLabel, noLabel string) Prompt {
	return Prompt{
		Question: question,
		Choices: []Choice{
			{Key: Yes, Label: yesLabel},
			{Key: No, Label: noLabel},
		},
	}
}
