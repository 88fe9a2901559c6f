package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// BuildCmd fetches the origin feed, rewrites it and writes the result.
type BuildCmd struct {
	PipelineFlags `embed:""`

	Output string `name:"output" short:"o" env:"SNF_OUTPUT" default:"${output}" type:"path" help:"Where to write the feed (or the diagnostic document on failure)."`

	stdout io.Writer
}

func (c *BuildCmd) Run(globals *model.Globals, ctx context.Context) error {
	globals.ApplyLogging()

	builder, err := c.newBuilder(c.Output)
	if err != nil {
		return err
	}

	result, err := builder.Run(ctx)
	if err != nil {
		return err
	}

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintf(out, "Wrote %s (%d items, %d thumbnails added, %d authors added)\n",
		result.Output, result.Stats.Items, result.Stats.ThumbnailsAdded, result.Stats.AuthorsAdded)
	return err
}
