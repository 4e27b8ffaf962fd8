package services

import (
	"github.com/stretchr/testify/mock"
)

// MockWebSocketHub is a mock for WebSocketHub interface
type MockWebSocketHub struct {
	mock.Mock
}

func (m *MockWebSocketHub) Broadcast(messageType string, data interface{}) {
	m.Called(messageType, data)
}

// MockStatusProvider is a mock for StatusProvider interface
type MockStatusProvider struct {
	mock.Mock
}

func (m *MockStatusProvider) Status() DashboardStatus {
	return m.Called().Get(0).(DashboardStatus)
}

// MockClientCounter is a mock for ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}
