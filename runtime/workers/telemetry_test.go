package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/logs"
	"chat-relay/mocks"
	"chat-relay/observability"
)

func TestTelemetryWorker_Reports_Until_Cancelled(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryMock := mocks.NewMockIRegistry(ctrl)
	registryMock.EXPECT().Len().Return(3).MinTimes(1)

	stats := observability.NewRelayStats()
	stats.IncrMessagesRelayed()

	worker := NewTelemetryWorker(logs.GetLoggerFromString("error"),
		registryMock, stats, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Run returns nil once the context expires
	req.NoError(worker.Run(ctx))
}
