package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Authorizer is a mock of middleware.Authorizer.
type Authorizer struct {
	mock.Mock
}

// NewAuthorizer creates an Authorizer mock that asserts its
// expectations on test cleanup.
func NewAuthorizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authorizer {
	m := &Authorizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Authorizer) Authorize(ctx context.Context, header string) bool {
	ret := m.Called(ctx, header)
	return ret.Bool(0)
}
