package model

import (
	"errors"
	"strings"
)

var ErrInvalidTransport = errors.New("invalid transport")

// Transport represents the communication transport method for the MCP server
// started by the serve command
type Transport uint8

const (
	UndefinedTransport Transport = iota
	StdioTransport
	HTTPWithSSETransport
)

// ParseTransport converts a --transport value, ignoring case and surrounding space
func ParseTransport(transport string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "stdio":
		return StdioTransport, nil
	case "http-with-sse":
		return HTTPWithSSETransport, nil
	default:
		return UndefinedTransport, ErrInvalidTransport
	}
}

// String returns the string representation of a Transport
func (t Transport) String() string {
	switch t {
	case StdioTransport:
		return "stdio"
	case HTTPWithSSETransport:
		return "http-with-sse"
	default:
		return "undefined"
	}
}
