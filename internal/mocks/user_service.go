package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/userdir/userdir-server/internal/model"
)

// UserService is a mock of handler.UserService.
type UserService struct {
	mock.Mock
}

// NewUserService creates a UserService mock that asserts its
// expectations on test cleanup.
func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	m := &UserService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserService) List(ctx context.Context, params model.ListParams) (model.ListResult, error) {
	ret := m.Called(ctx, params)
	return ret.Get(0).(model.ListResult), ret.Error(1)
}

func (m *UserService) Create(ctx context.Context, user model.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *UserService) Update(ctx context.Context, patch model.User) error {
	ret := m.Called(ctx, patch)
	return ret.Error(0)
}

func (m *UserService) Delete(ctx context.Context, email string) error {
	ret := m.Called(ctx, email)
	return ret.Error(0)
}
