package mcpserver

import (
	"context"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// FeedBuilder produces the rewritten feed without writing it anywhere.
type FeedBuilder interface {
	Build(ctx context.Context) (string, *model.BuildStats, error)
}
