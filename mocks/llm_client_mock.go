package mocks

import (
	"context"

	"ai_copywriter/generator"

	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a mock type for the generator.LLMClient type
type MockLLMClient struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, prompt, opts
func (_m *MockLLMClient) Complete(ctx context.Context, prompt generator.Prompt, opts generator.Options) (generator.Completion, error) {
	ret := _m.Called(ctx, prompt, opts)

	var r0 generator.Completion
	if rf, ok := ret.Get(0).(func(context.Context, generator.Prompt, generator.Options) generator.Completion); ok {
		r0 = rf(ctx, prompt, opts)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(generator.Completion)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, generator.Prompt, generator.Options) error); ok {
		r1 = rf(ctx, prompt, opts)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockLLMClient creates a new instance of MockLLMClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockLLMClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLLMClient {
	m := &MockLLMClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Text is a convenience return value for Complete.
func Text(s string) generator.Completion {
	return generator.Completion{Text: s}
}

var _ generator.LLMClient = (*MockLLMClient)(nil)
