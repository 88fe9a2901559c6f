package cmd

import (
	"context"
	"errors"

	"github.com/ctv-clearlink/smartnews-feed/mcpserver"
	"github.com/ctv-clearlink/smartnews-feed/model"
)

// ServeCmd runs the MCP server over the pipeline.
type ServeCmd struct {
	PipelineFlags `embed:""`

	Transport string `name:"transport" default:"stdio" enum:"stdio,http-with-sse" help:"Transport to use for the MCP server."`
	Addr      string `name:"addr" env:"SNF_MCP_ADDR" default:"127.0.0.1:8080" help:"Listen address for the http-with-sse transport."`
}

func (c *ServeCmd) Run(globals *model.Globals, ctx context.Context) error {
	globals.ApplyLogging()

	server, err := c.newServer()
	if err != nil {
		return err
	}

	err = server.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *ServeCmd) newServer() (*mcpserver.Server, error) {
	transport, err := model.ParseTransport(c.Transport)
	if err != nil {
		return nil, err
	}
	builder, err := c.newBuilder("")
	if err != nil {
		return nil, err
	}
	return mcpserver.NewServer(mcpserver.Config{
		Builder:   builder,
		Transport: transport,
		Addr:      c.Addr,
		MaxLinks:  c.MaxLinks,
	})
}
