// Package mocks provides testify mocks for hpcpy interfaces.
package mocks

import (
	"context"

	"github.com/ACCESS-NRI/hpcpy/executor"
	"github.com/stretchr/testify/mock"
)

// Executor is a mock of scheduler.Executor.
type Executor struct {
	mock.Mock
}

// Execute provides a mock function with the given fields.
func (m *Executor) Execute(ctx context.Context, argv []string, env map[string]string) (executor.Result, error) {
	ret := m.Called(ctx, argv, env)

	var r0 executor.Result
	if rf, ok := ret.Get(0).(func(context.Context, []string, map[string]string) executor.Result); ok {
		r0 = rf(ctx, argv, env)
	} else {
		r0 = ret.Get(0).(executor.Result)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, []string, map[string]string) error); ok {
		r1 = rf(ctx, argv, env)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewExecutor creates a new Executor mock registered for cleanup assertions.
func NewExecutor(t interface {
	mock.TestingT
	Cleanup(func())
}) *Executor {
	m := &Executor{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
