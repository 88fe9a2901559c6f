// Package cmd holds the kong commands of the smartnews-feed binary.
package cmd

import (
	"net/http"
	"time"

	"github.com/ctv-clearlink/smartnews-feed/enrich"
	"github.com/ctv-clearlink/smartnews-feed/feed"
	"github.com/ctv-clearlink/smartnews-feed/model"
)

// PipelineFlags configure the fetch and rewrite pipeline shared by every command.
type PipelineFlags struct {
	FeedURL           string        `name:"feed-url" env:"SNF_FEED_URL" default:"${feed_url}" help:"Origin RSS feed to rewrite."`
	LogoURL           string        `name:"logo-url" env:"SNF_LOGO_URL" default:"${logo_url}" help:"Channel logo inserted as snf:logo."`
	MaxLinks          int           `name:"max-links" env:"SNF_MAX_LINKS" default:"12" help:"Anchors kept per item body; negative keeps all."`
	UserAgent         string        `name:"user-agent" env:"SNF_USER_AGENT" default:"${user_agent}" help:"User-Agent for every request."`
	Timeout           time.Duration `name:"timeout" env:"SNF_TIMEOUT" default:"30s" help:"Timeout for each HTTP request."`
	RequestsPerSecond float64       `name:"requests-per-second" env:"SNF_REQUESTS_PER_SECOND" default:"2" help:"Article page fetch rate."`
	Burst             int           `name:"burst" env:"SNF_BURST" default:"5" help:"Article page fetch burst."`
	AllowPrivateIPs   bool          `name:"allow-private-ips" env:"SNF_ALLOW_PRIVATE_IPS" help:"Allow feed and article URLs that resolve to private networks."`
	NoEnrich          bool          `name:"no-enrich" env:"SNF_NO_ENRICH" help:"Do not fetch article pages for thumbnails and authors."`
	Analytics         string        `name:"analytics" env:"SNF_ANALYTICS" default:"${analytics}" help:"Markup placed in snf:analytics of every item; empty disables."`
}

// Validate implements kong.Validatable. The feed URL is checked by the
// builder instead, so a bad --feed-url still leaves a diagnostic document.
func (p *PipelineFlags) Validate() error {
	if p.Timeout <= 0 {
		return model.NewFeedError(model.ErrorTypeConfiguration, "timeout must be positive").
			WithOperation("parse_flags").
			WithComponent("cli")
	}
	return nil
}

// newBuilder wires the fetcher and, unless disabled, the article enricher into a feed builder.
func (p *PipelineFlags) newBuilder(output string) (*feed.Builder, error) {
	config := feed.Config{
		FeedURL:         p.FeedURL,
		LogoURL:         p.LogoURL,
		OutputPath:      output,
		Analytics:       p.Analytics,
		MaxLinks:        p.MaxLinks,
		AllowPrivateIPs: p.AllowPrivateIPs,
		Fetcher:         feed.NewFetcher(&http.Client{Timeout: p.Timeout}, p.UserAgent),
	}

	if !p.NoEnrich {
		pages, err := enrich.NewStore(enrich.Config{
			UserAgent:         p.UserAgent,
			Timeout:           p.Timeout,
			RequestsPerSecond: p.RequestsPerSecond,
			BurstCapacity:     p.Burst,
			AllowPrivateIPs:   p.AllowPrivateIPs,
		})
		if err != nil {
			return nil, model.NewFeedErrorWithCause(model.ErrorTypeConfiguration, "Failed to create article enricher", err).
				WithOperation("create_enricher").
				WithComponent("cli")
		}
		config.Lookup = pages
	}

	return feed.NewBuilder(config), nil
}
