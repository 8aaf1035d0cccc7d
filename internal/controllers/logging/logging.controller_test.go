package loggingController

import (
	"context"
	"testing"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"
	"hseinspect/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockForwarder struct {
	mock.Mock
}

func (m *mockForwarder) ProcessLogBatch(
	ctx context.Context,
	batch types.LogBatchRequest,
	userID string,
) (*types.LogBatchResponse, error) {
	args := m.Called(ctx, batch, userID)
	response, _ := args.Get(0).(*types.LogBatchResponse)
	return response, args.Error(1)
}

func inspector() *models.User {
	user := &models.User{Name: "Field Inspector", Role: models.RoleInspector}
	user.ID = uuid.New()
	return user
}

func TestProcessLogBatch_EmptyBatchSkipsSink(t *testing.T) {
	forwarder := &mockForwarder{}
	controller := New(forwarder, false)

	response, err := controller.ProcessLogBatch(context.Background(), inspector(), types.LogBatchRequest{})

	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Zero(t, response.Processed)
	forwarder.AssertNotCalled(t, "ProcessLogBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessLogBatch_RequiresUser(t *testing.T) {
	_, err := New(&mockForwarder{}, false).ProcessLogBatch(context.Background(), nil, types.LogBatchRequest{})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestProcessLogBatch_RequiresSession(t *testing.T) {
	controller := New(&mockForwarder{}, false)

	_, err := controller.ProcessLogBatch(context.Background(), inspector(), types.LogBatchRequest{
		Logs:      []types.LogEntry{{Level: types.LogLevelInfo, Message: "opened form"}},
		SessionID: "   ",
	})

	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
}

func TestProcessLogBatch_DropsDebugOutsideDevelopment(t *testing.T) {
	forwarder := &mockForwarder{}
	user := inspector()
	controller := New(forwarder, false)

	forwarder.On("ProcessLogBatch", mock.Anything, mock.MatchedBy(func(batch types.LogBatchRequest) bool {
		return len(batch.Logs) == 1 && batch.Logs[0].Message == "upload failed" && batch.SessionID == "s-1"
	}), user.ID.String()).
		Return(&types.LogBatchResponse{Success: true, Processed: 1}, nil)

	response, err := controller.ProcessLogBatch(context.Background(), user, types.LogBatchRequest{
		Logs: []types.LogEntry{
			{Level: types.LogLevelDebug, Message: "render"},
			{Level: types.LogLevelError, Message: " upload failed "},
			{Level: types.LogLevelWarn, Message: "  "},
		},
		SessionID: " s-1 ",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, response.Processed)
	forwarder.AssertExpectations(t)
}

func TestProcessLogBatch_KeepsDebugInDevelopment(t *testing.T) {
	forwarder := &mockForwarder{}
	user := inspector()
	batch := types.LogBatchRequest{
		Logs:      []types.LogEntry{{Level: types.LogLevelDebug, Message: "render"}},
		SessionID: "s-1",
	}

	forwarder.On("ProcessLogBatch", mock.Anything, batch, user.ID.String()).
		Return(&types.LogBatchResponse{Success: true, Processed: 1}, nil)

	response, err := New(forwarder, true).ProcessLogBatch(context.Background(), user, batch)

	require.NoError(t, err)
	assert.Equal(t, 1, response.Processed)
}

func TestProcessLogBatch_ForwarderError(t *testing.T) {
	forwarder := &mockForwarder{}
	forwarder.On("ProcessLogBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := New(forwarder, false).ProcessLogBatch(context.Background(), inspector(), types.LogBatchRequest{
		Logs:      []types.LogEntry{{Level: types.LogLevelInfo, Message: "sync"}},
		SessionID: "s-1",
	})

	assert.ErrorIs(t, err, assert.AnError)
}
