package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"
)

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

// NewSecurityLayer creates a SecurityLayer mock that asserts its
// expectations on test cleanup.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	ret := m.Called(protocol, addr)
	var listener net.Listener
	if ret.Get(0) != nil {
		listener = ret.Get(0).(net.Listener)
	}
	return listener, ret.Error(1)
}
