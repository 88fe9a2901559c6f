package enrich

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorFromJSONLD(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"object author", `{"@type":"NewsArticle","author":{"@type":"Person","name":"Jane Doe"}}`, "Jane Doe"},
		{"string author", `{"@type":"BlogPosting","author":"John Smith"}`, "John Smith"},
		{"array of authors", `{"author":[{"name":""},{"name":"Second Person"}]}`, "Second Person"},
		{"top level array", `[{"@type":"Organization"},{"@type":"Article","author":{"name":"Ana Lee"}}]`, "Ana Lee"},
		{"entities decoded", `{"author":{"name":"Tom &amp; Jerry"}}`, "Tom & Jerry"},
		{"url author ignored", `{"author":"https://example.com/staff/jd"}`, ""},
		{"dangling reference", `{"@graph":[{"author":{"@id":"#missing"}}]}`, ""},
		{"no author", `{"@type":"WebSite","name":"CableTV"}`, ""},
		{"invalid json", `{"author":`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorFromJSONLD(tt.raw))
		})
	}
}

func TestExtractPageMeta_Precedence(t *testing.T) {
	page := `<html><head>
<meta name="twitter:image" content="https://cdn.example.com/tw.png">
<meta content="https://cdn.example.com/og.png" property="og:image">
<meta name="author" content="">
<meta property="article:author" content="Meta Author">
<script type="application/ld+json">{"author":{"name":"LD Author"}}</script>
</head><body></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	meta := ExtractPageMeta(doc.Selection, "https://example.com/a")
	assert.Equal(t, "https://cdn.example.com/og.png", meta.ImageURL)
	assert.Equal(t, "Meta Author", meta.Author)
}

func TestExtractPageMeta_Nothing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>plain</p></body></html>`))
	require.NoError(t, err)

	meta := ExtractPageMeta(doc.Selection, "https://example.com/a")
	assert.Empty(t, meta.ImageURL)
	assert.Empty(t, meta.Author)
}
