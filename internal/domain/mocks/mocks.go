// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// MockLLMGateway is a mock of domain.LLMGateway.
type MockLLMGateway struct{ mock.Mock }

// Call records the request and returns the configured response.
func (m *MockLLMGateway) Call(ctx domain.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(domain.LLMResponse)
	return resp, args.Error(1)
}

// MockTextExtractor is a mock of domain.TextExtractor.
type MockTextExtractor struct{ mock.Mock }

// ExtractPath returns the configured text.
func (m *MockTextExtractor) ExtractPath(ctx domain.Context, fileName, path string) (string, error) {
	args := m.Called(ctx, fileName, path)
	return args.String(0), args.Error(1)
}

// MockRubricLoader is a mock of domain.RubricLoader.
type MockRubricLoader struct{ mock.Mock }

// Load returns the configured rubric items.
func (m *MockRubricLoader) Load(ctx domain.Context, path string) ([]string, error) {
	args := m.Called(ctx, path)
	items, _ := args.Get(0).([]string)
	return items, args.Error(1)
}
