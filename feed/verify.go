package feed

import (
	"github.com/mmcdole/gofeed"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// Verify checks that doc still parses as a feed after rewriting.
func Verify(doc, feedURL string) (*gofeed.Feed, error) {
	parsed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, model.CreateParsingError(err, feedURL, doc)
	}
	return parsed, nil
}
