package testutil

import (
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/decision"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of decision.Provider
type MockProvider struct {
	mock.Mock
}

// Choose implements decision.Provider
func (m *MockProvider) Choose(prompt decision.Prompt) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

// QuestionContains matches prompts whose question contains substr
func QuestionContains(substr string) interface{} {
	return mock.MatchedBy(func(p decision.Prompt) bool {
		return strings.Contains(p.Question, substr)
	})
}
