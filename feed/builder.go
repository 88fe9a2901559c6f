// Package feed turns an origin RSS feed into a SmartNews-ready document.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// Config holds the settings for a Builder.
type Config struct {
	FeedURL         string
	LogoURL         string
	OutputPath      string
	Analytics       string
	MaxLinks        int
	AllowPrivateIPs bool

	// Fetcher downloads the origin; a default one is created when nil.
	Fetcher *Fetcher
	// Lookup enriches items from their article pages; nil disables enrichment.
	Lookup PageLookup
}

// Result describes a completed run.
type Result struct {
	Output   string            `json:"output"`
	Bytes    int               `json:"bytes"`
	Stats    *model.BuildStats `json:"stats"`
	Duration time.Duration     `json:"duration"`
}

// Builder runs the fetch, normalize, rewrite, verify pipeline.
type Builder struct {
	config   Config
	fetcher  *Fetcher
	rewriter *Rewriter
}

// NewBuilder creates a Builder from config.
func NewBuilder(config Config) *Builder {
	fetcher := config.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(nil, model.UserAgent("dev"))
	}
	return &Builder{
		config:  config,
		fetcher: fetcher,
		rewriter: &Rewriter{
			MaxLinks:  config.MaxLinks,
			Analytics: config.Analytics,
			Lookup:    config.Lookup,
		},
	}
}

// Build produces the rewritten document in memory without touching the output path.
func (b *Builder) Build(ctx context.Context) (string, *model.BuildStats, error) {
	if err := model.ValidateFeedURL(b.config.FeedURL, b.config.AllowPrivateIPs); err != nil {
		return "", nil, model.CreateValidationError(err, b.config.FeedURL).WithOperation("fetch_feed")
	}

	raw, err := b.fetcher.Fetch(ctx, b.config.FeedURL)
	if err != nil {
		return "", nil, err
	}

	doc := Normalize(raw, b.config.LogoURL)

	doc, stats, err := b.rewriter.Rewrite(ctx, doc)
	if err != nil {
		return "", stats, err
	}

	parsed, err := Verify(doc, b.config.FeedURL)
	if err != nil {
		return "", stats, err
	}
	model.DebugLogWithContext("Verified rewritten feed", "builder", "verify_feed", b.config.FeedURL, map[string]interface{}{
		"title": parsed.Title,
		"items": len(parsed.Items),
	})

	return doc, stats, nil
}

// Run builds the document and writes it to the output path. On failure the
// diagnostic document is written instead and the build error is returned.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	doc, stats, err := b.Build(ctx)
	if err == nil {
		if werr := writeFileAtomic(b.config.OutputPath, []byte(doc)); werr != nil {
			err = model.CreateOutputError(werr, b.config.OutputPath)
		}
	}
	if err != nil {
		b.logError(err)
		if derr := WriteDiagnostic(b.config.OutputPath, err); derr != nil {
			model.ErrorLog("Failed to write diagnostic document", derr)
		}
		return nil, err
	}

	result := &Result{
		Output:   b.config.OutputPath,
		Bytes:    len(doc),
		Stats:    stats,
		Duration: time.Since(start),
	}
	model.InfoLogWithContext("Wrote feed", "builder", "write_output", b.config.OutputPath, map[string]interface{}{
		"bytes":              result.Bytes,
		"items":              stats.Items,
		"thumbnails_added":   stats.ThumbnailsAdded,
		"thumbnails_kept":    stats.ThumbnailsKept,
		"thumbnails_dropped": stats.ThumbnailsDropped,
		"authors_added":      stats.AuthorsAdded,
		"enrichment_errors":  stats.EnrichmentErrors,
	})
	return result, nil
}

func (b *Builder) logError(err error) {
	var fe *model.FeedError
	if errors.As(err, &fe) {
		model.LogFeedError(fe)
		return
	}
	model.ErrorLog("Build failed", err)
}
