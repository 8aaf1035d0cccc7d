package loggingController

import (
	"context"
	"strings"

	"hseinspect/internal/apperrors"
	. "hseinspect/internal/models"
	"hseinspect/internal/services"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type LogForwarder interface {
	ProcessLogBatch(ctx context.Context, batch types.LogBatchRequest, userID string) (*types.LogBatchResponse, error)
}

var _ LogForwarder = (*services.LoggingService)(nil)

type LoggingControllerInterface interface {
	ProcessLogBatch(ctx context.Context, user *User, req types.LogBatchRequest) (*types.LogBatchResponse, error)
}

type LoggingController struct {
	forwarder LogForwarder
	keepDebug bool
	log       logger.Logger
}

// New builds the client log controller. Debug entries from devices are only
// forwarded when keepDebug is set, which the app does outside production.
func New(forwarder LogForwarder, keepDebug bool) LoggingControllerInterface {
	return &LoggingController{
		forwarder: forwarder,
		keepDebug: keepDebug,
		log:       logger.New("loggingController"),
	}
}

func (c *LoggingController) ProcessLogBatch(
	ctx context.Context,
	user *User,
	req types.LogBatchRequest,
) (*types.LogBatchResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("ProcessLogBatch")

	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" && len(req.Logs) > 0 {
		return nil, apperrors.Validation("Session ID is required", "sessionId")
	}

	received := len(req.Logs)
	req.Logs = c.filter(req.Logs)
	if len(req.Logs) == 0 {
		return &types.LogBatchResponse{Success: true}, nil
	}

	response, err := c.forwarder.ProcessLogBatch(ctx, req, user.ID.String())
	if err != nil {
		log.Er("client log batch not forwarded", err,
			"userID", user.ID,
			"sessionID", req.SessionID,
			"received", received,
			"kept", len(req.Logs))
		return nil, err
	}

	return response, nil
}

func (c *LoggingController) filter(entries []types.LogEntry) []types.LogEntry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Level == types.LogLevelDebug && !c.keepDebug {
			continue
		}
		entry.Message = strings.TrimSpace(entry.Message)
		if entry.Message == "" {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
