package model

// Item is one <item> element of the feed as the rewriter sees it.
// Raw is the exact source text; the other fields are extracted from it.
type Item struct {
	Raw       string
	Body      string
	Link      string
	Thumbnail string
	Author    string
}

// HasThumbnail reports whether the item already carries a media:thumbnail.
func (it *Item) HasThumbnail() bool {
	return it.Thumbnail != ""
}

// PageMeta is what enrichment recovered from an article page.
// ImageURL is raw and must go through SanitizeImageURL before use.
type PageMeta struct {
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl,omitempty"`
	Author   string `json:"author,omitempty"`
}

// BuildStats summarises what a rewrite changed.
type BuildStats struct {
	Items             int `json:"items"`
	ThumbnailsAdded   int `json:"thumbnailsAdded"`
	ThumbnailsKept    int `json:"thumbnailsKept"`
	ThumbnailsDropped int `json:"thumbnailsDropped"`
	AuthorsAdded      int `json:"authorsAdded"`
	EnrichmentErrors  int `json:"enrichmentErrors"`
}
