package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, vars(), kong.BindTo(context.Background(), (*context.Context)(nil)))
	require.NoError(t, err)
	return parser
}

func TestCLI_DefaultCommandIsBuild(t *testing.T) {
	cli := CLI{}
	kctx, err := newParser(t, &cli).Parse([]string{})
	require.NoError(t, err)

	assert.Equal(t, "build", kctx.Command())
	assert.Equal(t, model.DefaultFeedURL, cli.Build.FeedURL)
	assert.Equal(t, model.DefaultLogoURL, cli.Build.LogoURL)
	assert.Equal(t, model.DefaultMaxLinks, cli.Build.MaxLinks)
	assert.Equal(t, model.DefaultTimeout, cli.Build.Timeout)
	assert.Equal(t, model.DefaultBurstCapacity, cli.Build.Burst)
	assert.InDelta(t, model.DefaultRequestsPerSecond, cli.Build.RequestsPerSecond, 0.001)
	assert.True(t, strings.HasSuffix(cli.Build.Output, filepath.FromSlash(model.DefaultOutputPath)))
	assert.Contains(t, cli.Build.UserAgent, "SmartNews-Feed-Builder/")
	assert.Equal(t, model.DefaultAnalytics, cli.Build.Analytics)
}

func TestCLI_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SNF_MAX_LINKS", "4")
	t.Setenv("SNF_NO_ENRICH", "true")

	cli := CLI{}
	_, err := newParser(t, &cli).Parse([]string{"build", "--feed-url", "https://example.com/feed"})
	require.NoError(t, err)

	assert.Equal(t, 4, cli.Build.MaxLinks)
	assert.True(t, cli.Build.NoEnrich)
	assert.Equal(t, "https://example.com/feed", cli.Build.FeedURL)
}

func TestCLI_FeedURLCheckedAtBuildNotParse(t *testing.T) {
	cli := CLI{}
	_, err := newParser(t, &cli).Parse([]string{"build", "--feed-url", "file:///etc/passwd"})
	require.NoError(t, err)
	assert.Equal(t, "file:///etc/passwd", cli.Build.FeedURL)
}

func TestCLI_RejectsNonPositiveTimeout(t *testing.T) {
	cli := CLI{}
	_, err := newParser(t, &cli).Parse([]string{"build", "--timeout", "0s"})
	assert.Error(t, err)
}

func TestCLI_ServeTransportEnum(t *testing.T) {
	cli := CLI{}
	parser := newParser(t, &cli)

	kctx, err := parser.Parse([]string{"serve", "--transport", "http-with-sse"})
	require.NoError(t, err)
	assert.Equal(t, "serve", kctx.Command())
	assert.Equal(t, "http-with-sse", cli.Serve.Transport)

	_, err = parser.Parse([]string{"serve", "--transport", "carrier-pigeon"})
	assert.Error(t, err)
}

func TestCLI_GlobalLoggingFlags(t *testing.T) {
	cli := CLI{}
	_, err := newParser(t, &cli).Parse([]string{"--debug", "--log-level", "debug", "--json-logs", "build"})
	require.NoError(t, err)

	assert.True(t, cli.Debug)
	assert.Equal(t, "debug", cli.LogLevel)
	assert.True(t, cli.JSONLogs)
}

func TestMain_VersionVar(t *testing.T) {
	v := vars()
	assert.NotEmpty(t, v["version"])
	assert.NotContains(t, v["user_agent"], "%")
}
