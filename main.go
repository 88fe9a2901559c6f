package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ctv-clearlink/smartnews-feed/cmd"
	"github.com/ctv-clearlink/smartnews-feed/model"
	"github.com/ctv-clearlink/smartnews-feed/version"
)

// CLI is the root command line of smartnews-feed.
type CLI struct {
	model.Globals

	Build cmd.BuildCmd `cmd:"" default:"1" help:"Fetch the origin feed, rewrite it for SmartNews and write it."`
	Serve cmd.ServeCmd `cmd:"" help:"Run MCP Server"`
}

// vars supplies the interpolated defaults of the flags.
func vars() kong.Vars {
	return kong.Vars{
		"version":    version.Get().String(),
		"user_agent": model.UserAgent(version.GetVersion()),
		"feed_url":   model.DefaultFeedURL,
		"logo_url":   model.DefaultLogoURL,
		"output":     model.DefaultOutputPath,
		"analytics":  model.DefaultAnalytics,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("smartnews-feed"),
		kong.Description("Rewrites an RSS feed to satisfy SmartNews ingestion rules."),
		kong.UsageOnError(),
		vars(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
