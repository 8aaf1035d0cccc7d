package types

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogContext contains optional context for a log entry
type LogContext struct {
	Action       string           `json:"action,omitempty"`
	Screen       string           `json:"screen,omitempty"`
	InspectionID string           `json:"inspectionId,omitempty"`
	TemplateID   string           `json:"templateId,omitempty"`
	Component    string           `json:"component,omitempty"`
	Duration     *int64           `json:"duration,omitempty"`
	TraceID      string           `json:"traceId,omitempty"`
	Error        *LogErrorContext `json:"error,omitempty"`
}

// LogErrorContext contains error details
type LogErrorContext struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
	Code    string `json:"code,omitempty"`
}

// LogMetadata contains device metadata sent by the mobile client
type LogMetadata struct {
	Platform   string `json:"platform"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
	Device     string `json:"device"`
}

// LogEntry represents a single log entry from the client
type LogEntry struct {
	Timestamp string      `json:"timestamp" validate:"required"`
	Level     LogLevel    `json:"level"     validate:"required,oneof=debug info warn error"`
	Message   string      `json:"message"   validate:"required,max=4000"`
	Context   *LogContext `json:"context,omitempty"`
	Metadata  LogMetadata `json:"metadata"`
}

// LogBatchRequest is the request body for batch log submission
type LogBatchRequest struct {
	Logs      []LogEntry `json:"logs"      validate:"max=500,dive"`
	SessionID string     `json:"sessionId"`
}

// LogBatchResponse is the response for batch log submission
type LogBatchResponse struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
}

// LogSinkEntry is one JSON line sent to the log sink.
type LogSinkEntry struct {
	Time         string `json:"_time"`
	Msg          string `json:"_msg"`
	StreamFields string `json:"_stream_fields"`
	Source       string `json:"source"`
	App          string `json:"app"`
	Level        string `json:"level"`
	UserID       string `json:"userId,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	TraceID      string `json:"traceId,omitempty"`
	Action       string `json:"action,omitempty"`
	Screen       string `json:"screen,omitempty"`
	InspectionID string `json:"inspectionId,omitempty"`
	Component    string `json:"component,omitempty"`
	Platform     string `json:"platform,omitempty"`
	AppVersion   string `json:"appVersion,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorStack   string `json:"errorStack,omitempty"`
}
