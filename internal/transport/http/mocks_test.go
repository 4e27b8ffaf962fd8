package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"proddash/internal/services"
	api "proddash/pkg/contracts/api/v1"
)

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) Current() (*services.Snapshot, error) {
	args := m.Called()
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap, args.Error(1)
}

func (m *mockDashboardService) Status() services.DashboardStatus {
	return m.Called().Get(0).(services.DashboardStatus)
}

func (m *mockDashboardService) Refresh(ctx context.Context) (*services.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap, args.Error(1)
}

type mockHealthService struct {
	mock.Mock
}

func (m *mockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) Version() api.VersionResponse {
	return m.Called().Get(0).(api.VersionResponse)
}
