package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
)

// CreateNetworkError creates a FeedError for network-related issues
func CreateNetworkError(err error, targetURL string) *FeedError {
	errorType := ErrorTypeNetwork
	message := "Network error occurred"

	switch {
	case isTimeoutError(err):
		errorType = ErrorTypeTimeout
		message = "Request timed out"
	case isDNSError(err):
		errorType = ErrorTypeDNSResolution
		message = "DNS resolution failed"
	case isConnectionError(err):
		errorType = ErrorTypeConnectionFailed
		message = "Connection failed"
	}

	return NewFeedErrorWithCause(errorType, message, err).
		WithURL(targetURL).
		WithOperation("fetch").
		WithComponent("http_client")
}

// CreateHTTPError creates a FeedError for a non-success HTTP response
func CreateHTTPError(status int, statusText string, headers http.Header, targetURL string) *FeedError {
	var errorType ErrorType
	var message string

	if statusText == "" {
		statusText = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	switch {
	case status >= 400 && status < 500:
		errorType = ErrorTypeHTTPClientError
		message = fmt.Sprintf("Client error: %s", statusText)
	case status >= 500:
		errorType = ErrorTypeHTTPServerError
		message = fmt.Sprintf("Server error: %s", statusText)
	case status >= 300 && status < 400:
		errorType = ErrorTypeHTTPRedirect
		message = fmt.Sprintf("Redirect error: %s", statusText)
	default:
		errorType = ErrorTypeHTTP
		message = fmt.Sprintf("HTTP error: %s", statusText)
	}

	return NewFeedError(errorType, message).
		WithURL(targetURL).
		WithOperation("fetch").
		WithComponent("http_client").
		WithHTTP(status, headers)
}

// CreateParsingError creates a FeedError for a document that no longer parses as a feed
func CreateParsingError(err error, feedURL, content string) *FeedError {
	errorType := ErrorTypeParsing
	message := "Failed to parse feed"

	if err != nil {
		errStr := strings.ToLower(err.Error())
		switch {
		case strings.Contains(errStr, "xml"):
			errorType = ErrorTypeMalformedXML
			message = "Feed contains malformed XML"
		case strings.Contains(errStr, "empty") || strings.Contains(errStr, "no content"):
			errorType = ErrorTypeEmptyFeed
			message = "Feed is empty or contains no content"
		}
	}

	fe := NewFeedErrorWithCause(errorType, message, err).
		WithURL(feedURL).
		WithOperation("verify_feed").
		WithComponent("feed_parser")

	if parseCtx := extractParseContext(err, content); parseCtx != nil {
		fe.WithParseContext(parseCtx)
	}

	return fe
}

// CreateValidationError creates a FeedError for URL validation issues
func CreateValidationError(err error, targetURL string) *FeedError {
	errorType := ErrorTypeValidation
	message := "URL validation failed"

	switch {
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrMissingHost), errors.Is(err, ErrEmptyURL):
		errorType = ErrorTypeInvalidURL
		message = "Invalid URL format"
	case errors.Is(err, ErrUnsupportedScheme):
		errorType = ErrorTypeUnsupportedScheme
		message = "Unsupported URL scheme"
	case errors.Is(err, ErrPrivateIPBlocked):
		errorType = ErrorTypePrivateIP
		message = "Private IP address blocked"
	case errors.Is(err, ErrDisallowedImage):
		errorType = ErrorTypeDisallowedImage
		message = "Image URL not allowed"
	}

	return NewFeedErrorWithCause(errorType, message, err).
		WithURL(targetURL).
		WithOperation("validate_url").
		WithComponent("url_validator")
}

// CreateCircuitBreakerError creates a FeedError for circuit breaker events
func CreateCircuitBreakerError(targetURL string, state string) *FeedError {
	message := fmt.Sprintf("Circuit breaker is %s", state)

	return NewFeedError(ErrorTypeCircuitBreaker, message).
		WithURL(targetURL).
		WithOperation("fetch_article").
		WithComponent("circuit_breaker")
}

// CreateRateLimitError creates a FeedError for a request that gave up waiting on the limiter
func CreateRateLimitError(err error, targetURL string) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeRateLimit, "Rate limit wait aborted", err).
		WithURL(targetURL).
		WithOperation("fetch_article").
		WithComponent("rate_limiter")
}

// CreateInternalError creates a FeedError for a broken invariant inside a component
func CreateInternalError(message, component string) *FeedError {
	return NewFeedError(ErrorTypeInternal, message).
		WithComponent(component)
}

// CreateOutputError creates a FeedError for failures writing the artifact
func CreateOutputError(err error, path string) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeOutput, "Failed to write output", err).
		WithURL(path).
		WithOperation("write_output").
		WithComponent("builder")
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, keyword := range []string{"timeout", "deadline exceeded", "timed out"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	dnsKeywords := []string{
		"no such host", "name resolution", "name or service not known",
		"nodename nor servname provided",
	}
	for _, keyword := range dnsKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
		syscall.EHOSTUNREACH, syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	connKeywords := []string{
		"connection refused", "connection reset", "connection aborted",
		"no route to host", "unreachable", "broken pipe",
	}
	for _, keyword := range connKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// extractParseContext pulls a line number and a few lines of surrounding content out of an XML error
func extractParseContext(err error, content string) *ParseContext {
	if err == nil {
		return nil
	}

	ctx := &ParseContext{}

	// "XML syntax error on line X: ..."
	parts := strings.Fields(err.Error())
	for i, part := range parts {
		if part == "line" && i+1 < len(parts) {
			if lineNum, parseErr := strconv.Atoi(strings.TrimSuffix(parts[i+1], ":")); parseErr == nil {
				ctx.LineNumber = lineNum
				break
			}
		}
	}

	if ctx.LineNumber > 0 && content != "" {
		lines := strings.Split(content, "\n")
		if ctx.LineNumber <= len(lines) {
			start := max(0, ctx.LineNumber-3)
			end := min(len(lines), ctx.LineNumber+2)
			ctx.ContentSnippet = strings.Join(lines[start:end], "\n")
		}
	}

	if ctx.LineNumber > 0 {
		return ctx
	}
	return nil
}
