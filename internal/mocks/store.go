// Package mocks contains testify mocks for the interfaces crossed in
// tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/userdir/userdir-server/internal/model"
)

// Store is a mock of model.Store.
type Store struct {
	mock.Mock
}

var _ model.Store = (*Store)(nil)

// NewStore creates a Store mock that asserts its expectations on test
// cleanup.
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Store) Get(ctx context.Context, key model.Key) (model.User, error) {
	ret := m.Called(ctx, key)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (m *Store) Put(ctx context.Context, user model.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *Store) PutExisting(ctx context.Context, user model.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *Store) Delete(ctx context.Context, key model.Key) error {
	ret := m.Called(ctx, key)
	return ret.Error(0)
}

func (m *Store) Scan(ctx context.Context, in model.ScanInput) (model.ScanOutput, error) {
	ret := m.Called(ctx, in)
	return ret.Get(0).(model.ScanOutput), ret.Error(1)
}

func (m *Store) BatchPut(ctx context.Context, users []model.User) error {
	ret := m.Called(ctx, users)
	return ret.Error(0)
}
