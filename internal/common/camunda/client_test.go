package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"grpc unavailable", status.Error(codes.Unavailable, "gateway down"), true},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), true},
		{"grpc not found", status.Error(codes.NotFound, "no such job"), false},
		{"plain connection refused", stderrors.New("dial tcp: connection refused"), true},
		{"plain business error", stderrors.New("invalid variables"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(tt.err))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"timeout", status.Error(codes.DeadlineExceeded, "deadline"), "TIMEOUT_ERROR"},
		{"not found", status.Error(codes.NotFound, "job 1"), "RESOURCE_NOT_FOUND"},
		{"already exists", stderrors.New("process already exists"), "BUSINESS_RULE_VIOLATION"},
		{"unauthenticated", status.Error(codes.Unauthenticated, "token"), "AUTHENTICATION_ERROR"},
		{"other", stderrors.New("boom"), "EXTERNAL_SERVICE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapZeebeError(tt.err, "complete-job", 2)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(mapped, &stdErr))
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Contains(t, mapped.Error()+stdErr.Details, "complete-job")
		})
	}
}

func TestExecuteWithRetry(t *testing.T) {
	retry := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		result, err := executeWithRetry(context.Background(), retry, func(context.Context) (interface{}, error) {
			calls++
			if calls < 3 {
				return nil, status.Error(codes.Unavailable, "try again")
			}
			return "ok", nil
		}, "topology")

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		_, err := executeWithRetry(context.Background(), retry, func(context.Context) (interface{}, error) {
			calls++
			return nil, status.Error(codes.NotFound, "gone")
		}, "complete-job")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
		_, err := executeWithRetry(ctx, slow, func(context.Context) (interface{}, error) {
			cancel()
			return nil, status.Error(codes.Unavailable, "down")
		}, "topology")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// topologyGateway answers Topology with the queued errors, then succeeds.
type topologyGateway struct {
	pb.GatewayClient
	errs  []error
	calls int
}

func (g *topologyGateway) Topology(ctx context.Context, _ *pb.TopologyRequest, _ ...grpc.CallOption) (*pb.TopologyResponse, error) {
	g.calls++
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		return nil, err
	}
	return &pb.TopologyResponse{}, nil
}

type fakeZeebe struct {
	zbc.Client
	gateway *topologyGateway
}

func (f *fakeZeebe) NewTopologyCommand() *commands.TopologyCommand {
	return commands.NewTopologyCommand(f.gateway, func(context.Context, error) bool { return false })
}

func newTestClient(gateway *topologyGateway) *Client {
	return &Client{
		client: &fakeZeebe{gateway: gateway},
		config: &ClientConfig{
			ConnectionTimeout: time.Second,
			RetryConfig:       &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		},
	}
}

func TestClient_HealthCheck(t *testing.T) {
	t.Run("retries a transient topology failure", func(t *testing.T) {
		gateway := &topologyGateway{errs: []error{status.Error(codes.Unavailable, "starting")}}

		require.NoError(t, newTestClient(gateway).HealthCheck(context.Background()))
		assert.Equal(t, 2, gateway.calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		down := status.Error(codes.Unavailable, "down")
		gateway := &topologyGateway{errs: []error{down, down, down, down}}

		err := newTestClient(gateway).HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zeebe health check failed")
		assert.Equal(t, 3, gateway.calls)
	})

	t.Run("does not retry a permanent failure", func(t *testing.T) {
		gateway := &topologyGateway{errs: []error{status.Error(codes.PermissionDenied, "no")}}

		require.Error(t, newTestClient(gateway).HealthCheck(context.Background()))
		assert.Equal(t, 1, gateway.calls)
	})
}

type mockWorker struct {
	mock.Mock
}

func (m *mockWorker) Register() error                       { return m.Called().Error(0) }
func (m *mockWorker) Close()                                { m.Called() }
func (m *mockWorker) HealthCheck(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockWorker) GetTaskType() string                   { return m.Called().String(0) }
func (m *mockWorker) IsEnabled() bool                       { return m.Called().Bool(0) }

func TestManager_StartAndStop(t *testing.T) {
	enabled := &mockWorker{}
	enabled.On("IsEnabled").Return(true)
	enabled.On("GetTaskType").Return("promptstudio.recipes.search")
	enabled.On("Register").Return(nil).Once()
	enabled.On("Close").Return().Once()

	disabled := &mockWorker{}
	disabled.On("IsEnabled").Return(false)
	disabled.On("GetTaskType").Return("promptstudio.deployment.run")
	disabled.On("Close").Return().Once()

	m := NewManager(logger.NewNoOpLogger(), enabled, disabled)
	require.NoError(t, m.Start())
	assert.Equal(t, []string{"promptstudio.recipes.search"}, m.TaskTypes())
	m.Stop()

	enabled.AssertExpectations(t)
	disabled.AssertNotCalled(t, "Register")
}

func TestManager_StartRollsBackOnFailure(t *testing.T) {
	first := &mockWorker{}
	first.On("IsEnabled").Return(true)
	first.On("GetTaskType").Return("a.b.c")
	first.On("Register").Return(nil)
	first.On("Close").Return().Once()

	second := &mockWorker{}
	second.On("IsEnabled").Return(true)
	second.On("GetTaskType").Return("d.e.f")
	second.On("Register").Return(stderrors.New("gateway unavailable"))

	err := NewManager(nil, first, second).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "d.e.f")
	first.AssertCalled(t, "Close")
}

func TestManager_HealthCheck(t *testing.T) {
	w := &mockWorker{}
	w.On("IsEnabled").Return(true)
	w.On("GetTaskType").Return("a.b.c")
	w.On("HealthCheck", mock.Anything).Return(stderrors.New("credential invalid"))

	err := NewManager(nil, w).HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.b.c")
}
