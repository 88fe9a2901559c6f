package model

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// LogLevel orders messages from most to least severe.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[LogLevel]string{
	LogLevelError: "ERROR",
	LogLevelWarn:  "WARN",
	LogLevelInfo:  "INFO",
	LogLevelDebug: "DEBUG",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// DebugLogger writes leveled diagnostics to stderr. It is silent until
// enabled by SNF_FEED_DEBUG or --debug, so a normal build prints nothing.
type DebugLogger struct {
	level    LogLevel
	logger   *log.Logger
	enabled  bool
	jsonMode bool
}

var defaultLogger = NewDebugLogger()

// NewDebugLogger reads SNF_FEED_DEBUG, SNF_FEED_LOG_LEVEL and SNF_FEED_JSON_LOGS.
func NewDebugLogger() *DebugLogger {
	return &DebugLogger{
		level:    parseLogLevel(envOr("SNF_FEED_LOG_LEVEL", "info")),
		logger:   log.New(os.Stderr, "", 0),
		enabled:  envBool("SNF_FEED_DEBUG"),
		jsonMode: envBool("SNF_FEED_JSON_LOGS"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1"
}

func (d *DebugLogger) SetLevel(level LogLevel) { d.level = level }

func (d *DebugLogger) SetEnabled(enabled bool) { d.enabled = enabled }

func (d *DebugLogger) SetJSONMode(jsonMode bool) { d.jsonMode = jsonMode }

// ShouldLog reports whether a message at level would be written.
func (d *DebugLogger) ShouldLog(level LogLevel) bool {
	return d.enabled && level <= d.level
}

// LogMessage is one structured log line.
type LogMessage struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	URL       string                 `json:"url,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

func (d *DebugLogger) log(level LogLevel, message, component, operation, url string, err error, extra map[string]interface{}) {
	if !d.ShouldLog(level) {
		return
	}

	msg := LogMessage{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Message:   message,
		Component: component,
		Operation: operation,
		URL:       url,
		Extra:     extra,
	}
	if err != nil {
		msg.Error = err.Error()
	}

	if d.jsonMode {
		data, jerr := json.Marshal(msg)
		if jerr != nil {
			d.logger.Printf("ERROR: Failed to marshal log message to JSON: %v", jerr)
			return
		}
		d.logger.Println(string(data))
		return
	}
	d.logger.Println(formatText(msg))
}

// formatText renders "time [LEVEL] message key=value ..." with extra keys sorted.
func formatText(msg LogMessage) string {
	parts := []string{msg.Timestamp.Format("2006-01-02T15:04:05.000Z"), "[" + msg.Level + "]", msg.Message}
	for _, kv := range [][2]string{
		{"component", msg.Component},
		{"operation", msg.Operation},
		{"url", msg.URL},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if msg.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", msg.Error))
	}

	keys := make([]string, 0, len(msg.Extra))
	for key := range msg.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, msg.Extra[key]))
	}
	return strings.Join(parts, " ")
}

func (d *DebugLogger) DebugWithContext(message, component, operation, url string, extra map[string]interface{}) {
	d.log(LogLevelDebug, message, component, operation, url, nil, extra)
}

func (d *DebugLogger) InfoWithContext(message, component, operation, url string, extra map[string]interface{}) {
	d.log(LogLevelInfo, message, component, operation, url, nil, extra)
}

func (d *DebugLogger) WarnWithContext(message, component, operation, url string, err error, extra map[string]interface{}) {
	d.log(LogLevelWarn, message, component, operation, url, err, extra)
}

func (d *DebugLogger) Error(message string, err error) {
	d.log(LogLevelError, message, "", "", "", err, nil)
}

// LogFeedError logs a FeedError with its correlation ID, type and suggestion.
func (d *DebugLogger) LogFeedError(feedErr *FeedError) {
	if feedErr == nil {
		return
	}

	extra := map[string]interface{}{
		"error_id":   feedErr.ID,
		"error_type": feedErr.ErrorType,
		"suggestion": feedErr.Suggestion,
	}
	if feedErr.HTTPStatus != 0 {
		extra["http_status"] = feedErr.HTTPStatus
	}
	if len(feedErr.HTTPHeaders) > 0 {
		extra["http_headers"] = feedErr.HTTPHeaders
	}
	if feedErr.ParseContext != nil {
		extra["parse_line"] = feedErr.ParseContext.LineNumber
	}

	d.log(LogLevelError, feedErr.Message, feedErr.Component, feedErr.Operation, feedErr.URL, feedErr.Cause, extra)
}

// ConfigureLogging applies CLI flags on top of the environment configuration.
// An empty level leaves the current level untouched.
func ConfigureLogging(debug bool, level string, jsonMode bool) {
	if debug {
		defaultLogger.SetEnabled(true)
	}
	if level != "" {
		defaultLogger.SetLevel(parseLogLevel(level))
	}
	if jsonMode {
		defaultLogger.SetJSONMode(true)
	}
}

func DebugLogWithContext(message, component, operation, url string, extra map[string]interface{}) {
	defaultLogger.DebugWithContext(message, component, operation, url, extra)
}

func InfoLogWithContext(message, component, operation, url string, extra map[string]interface{}) {
	defaultLogger.InfoWithContext(message, component, operation, url, extra)
}

func WarnLogWithContext(message, component, operation, url string, err error, extra map[string]interface{}) {
	defaultLogger.WarnWithContext(message, component, operation, url, err, extra)
}

func ErrorLog(message string, err error) {
	defaultLogger.Error(message, err)
}

func LogFeedError(feedErr *FeedError) {
	defaultLogger.LogFeedError(feedErr)
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "ERROR":
		return LogLevelError
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}
