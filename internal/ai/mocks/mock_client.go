package mocks

import (
	"context"

	"docedit/internal/ai"

	"github.com/stretchr/testify/mock"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAIClient) Enhance(ctx context.Context, text string, maxWords int) (string, error) {
	args := m.Called(ctx, text, maxWords)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) Summarize(ctx context.Context, text string, length ai.SummaryLength) (string, error) {
	args := m.Called(ctx, text, length)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) Critique(ctx context.Context, text string) (*ai.Critique, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Critique), args.Error(1)
}

func (m *MockAIClient) AnalyzeTitle(ctx context.Context, title, text string) (string, error) {
	args := m.Called(ctx, title, text)
	return args.String(0), args.Error(1)
}
