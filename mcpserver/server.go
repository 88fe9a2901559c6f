// Package mcpserver exposes the SmartNews feed pipeline over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ctv-clearlink/smartnews-feed/model"
	"github.com/ctv-clearlink/smartnews-feed/sanitize"
	"github.com/ctv-clearlink/smartnews-feed/version"
)

var sessionCounter int64

// DefaultAddr is where the HTTP transport listens when no address is configured.
const DefaultAddr = "127.0.0.1:8080"

// Config holds the configuration for creating a new MCP server
type Config struct {
	Builder   FeedBuilder
	Transport model.Transport
	Addr      string
	MaxLinks  int
}

// Server implements an MCP server for previewing and checking the SmartNews feed
type Server struct {
	builder   FeedBuilder
	transport model.Transport
	addr      string
	maxLinks  int
	sessionID string
}

// generateSessionID creates a unique session ID for this server instance
func generateSessionID() string {
	counter := atomic.AddInt64(&sessionCounter, 1)
	return fmt.Sprintf("smartnews-feed-session-%d-%d", time.Now().UnixNano(), counter)
}

// NewServer creates a new MCP server with the given configuration
func NewServer(config Config) (*Server, error) {
	if config.Transport == model.UndefinedTransport {
		return nil, model.NewFeedError(model.ErrorTypeTransport, "transport must be specified").
			WithOperation("create_server").
			WithComponent("mcp_server")
	}
	if config.Builder == nil {
		return nil, model.NewFeedError(model.ErrorTypeConfiguration, "Builder is required").
			WithOperation("create_server").
			WithComponent("mcp_server")
	}
	addr := config.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		builder:   config.Builder,
		transport: config.Transport,
		addr:      addr,
		maxLinks:  config.MaxLinks,
		sessionID: generateSessionID(),
	}, nil
}

// PreviewParams contains parameters for the preview_smartnews_feed tool.
type PreviewParams struct{}

// SanitizeParams contains parameters for the sanitize_item_html tool.
type SanitizeParams struct {
	HTML     string `json:"html"`
	MaxLinks *int   `json:"max_links,omitempty"`
}

// StripTrackingParams contains parameters for the strip_tracking tool.
type StripTrackingParams struct {
	URL string `json:"url"`
}

// newMCPServer registers the tools, prompts and resources on a fresh SDK server.
func (s *Server) newMCPServer() *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "SmartNews Feed Builder",
			Version: version.GetVersion(),
		},
		nil,
	)

	previewTool := &mcp.Tool{
		Name:        "preview_smartnews_feed",
		Description: "Fetch the origin feed and return the rewritten SmartNews XML without writing it",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
	mcp.AddTool(srv, previewTool, func(ctx context.Context, req *mcp.CallToolRequest, args PreviewParams) (*mcp.CallToolResult, any, error) {
		doc, stats, err := s.builder.Build(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		data, err := json.Marshal(stats)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: doc},
				&mcp.TextContent{Text: string(data)},
			},
		}, nil, nil
	})

	sanitizeTool := &mcp.Tool{
		Name:        "sanitize_item_html",
		Description: "Apply the item body rules to an HTML fragment",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"html"},
			Properties: map[string]*jsonschema.Schema{
				"html": {
					Type:        "string",
					Description: "Item body HTML",
				},
				"max_links": {
					Type:        "integer",
					Description: "Anchors to keep; negative keeps all",
				},
			},
		},
	}
	mcp.AddTool(srv, sanitizeTool, func(ctx context.Context, req *mcp.CallToolRequest, args SanitizeParams) (*mcp.CallToolResult, any, error) {
		maxLinks := s.maxLinks
		if args.MaxLinks != nil {
			maxLinks = *args.MaxLinks
		}
		clean, err := sanitize.Body(args.HTML, maxLinks)
		if err != nil {
			return toolError(err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: clean}},
		}, nil, nil
	})

	stripTool := &mcp.Tool{
		Name:        "strip_tracking",
		Description: "Remove tracking query parameters from a link",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"url"},
			Properties: map[string]*jsonschema.Schema{
				"url": {
					Type:        "string",
					Description: "Link URL",
				},
			},
		},
	}
	mcp.AddTool(srv, stripTool, func(ctx context.Context, req *mcp.CallToolRequest, args StripTrackingParams) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: sanitize.StripTracking(args.URL)}},
		}, nil, nil
	})

	s.addPrompts(srv)
	s.addResources(srv)

	return srv
}

// Run starts the MCP server and handles client connections until context is canceled
func (s *Server) Run(ctx context.Context) error {
	srv := s.newMCPServer()
	model.InfoLogWithContext("Starting MCP server", "mcp_server", "run_server", "", map[string]interface{}{
		"transport": s.transport.String(),
		"session":   s.sessionID,
	})

	switch s.transport {
	case model.StdioTransport:
		return srv.Run(ctx, &mcp.StdioTransport{})
	case model.HTTPWithSSETransport:
		return s.serveHTTP(ctx, srv)
	default:
		return model.NewFeedError(model.ErrorTypeTransport, "unsupported transport").
			WithOperation("run_server").
			WithComponent("mcp_server")
	}
}

func (s *Server) serveHTTP(ctx context.Context, srv *mcp.Server) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return model.NewFeedErrorWithCause(model.ErrorTypeTransport, "HTTP transport stopped", err).
			WithURL(s.addr).
			WithOperation("run_server").
			WithComponent("mcp_server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func toolError(err error) *mcp.CallToolResult {
	var fe *model.FeedError
	if errors.As(err, &fe) {
		model.LogFeedError(fe)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
