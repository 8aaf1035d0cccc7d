package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const clientLogApp = "hseinspect"

type LoggingService struct {
	sinkURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewLoggingService forwards client logs to a JSON-lines sink. An empty URL
// disables forwarding; batches are then accepted and dropped.
func NewLoggingService(sinkURL string) *LoggingService {
	log := logger.New("loggingService")
	if sinkURL == "" {
		log.Warn("client log sink not configured, client logs will be dropped")
	}

	return &LoggingService{
		sinkURL:    strings.TrimRight(sinkURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (s *LoggingService) IsEnabled() bool {
	return s.sinkURL != ""
}

func (s *LoggingService) ProcessLogBatch(
	ctx context.Context,
	batch types.LogBatchRequest,
	userID string,
) (*types.LogBatchResponse, error) {
	log := s.log.TraceFromContext(ctx).Function("ProcessLogBatch")

	if !s.IsEnabled() || len(batch.Logs) == 0 {
		return &types.LogBatchResponse{Success: true}, nil
	}

	entries := make([]types.LogSinkEntry, 0, len(batch.Logs))
	for _, entry := range batch.Logs {
		entries = append(entries, toSinkEntry(entry, batch.SessionID, userID))
	}

	if err := s.send(ctx, entries); err != nil {
		return nil, log.Err("failed to forward client logs", err,
			"count", len(entries),
			"userID", userID,
			"sessionID", batch.SessionID)
	}

	return &types.LogBatchResponse{Success: true, Processed: len(entries)}, nil
}

func toSinkEntry(entry types.LogEntry, sessionID, userID string) types.LogSinkEntry {
	sink := types.LogSinkEntry{
		Time:         entry.Timestamp,
		Msg:          entry.Message,
		StreamFields: "source,app,level",
		Source:       "mobile",
		App:          clientLogApp,
		Level:        string(entry.Level),
		UserID:       userID,
		SessionID:    sessionID,
		Platform:     entry.Metadata.Platform,
		AppVersion:   entry.Metadata.AppVersion,
	}

	if entry.Context != nil {
		sink.Action = entry.Context.Action
		sink.Screen = entry.Context.Screen
		sink.InspectionID = entry.Context.InspectionID
		sink.Component = entry.Context.Component
		sink.TraceID = entry.Context.TraceID
		if entry.Context.Error != nil {
			sink.ErrorMessage = entry.Context.Error.Message
			sink.ErrorStack = entry.Context.Error.Stack
		}
	}

	return sink
}

// encodeJSONLines gzips one JSON document per line.
func encodeJSONLines(entries []types.LogSinkEntry) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	encoder := json.NewEncoder(gz)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return nil, err
		}
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (s *LoggingService) send(ctx context.Context, entries []types.LogSinkEntry) error {
	log := s.log.Function("send")

	body, err := encodeJSONLines(entries)
	if err != nil {
		return log.Err("failed to encode log payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sinkURL+"/insert/jsonline", body)
	if err != nil {
		return log.Err("failed to create log request", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("Content-Encoding", "gzip")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return log.Err("failed to send logs", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return log.Error("log sink rejected batch", "status", resp.StatusCode)
	}

	return nil
}
