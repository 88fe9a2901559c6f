package enrich

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:secure_url"]`,
	`meta[name="twitter:image"]`,
}

var authorSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="parsely-author"]`,
}

// ExtractPageMeta reads the thumbnail candidate and author out of an article page.
// The author comes from meta tags first and from JSON-LD structured data second.
func ExtractPageMeta(doc *goquery.Selection, pageURL string) *model.PageMeta {
	meta := &model.PageMeta{URL: pageURL}

	meta.ImageURL = firstContent(doc, imageSelectors, false)
	meta.Author = firstContent(doc, authorSelectors, true)
	if meta.Author == "" {
		doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
			meta.Author = AuthorFromJSONLD(script.Text())
			return meta.Author == ""
		})
	}

	return meta
}

func firstContent(doc *goquery.Selection, selectors []string, skipURLs bool) string {
	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			content := strings.TrimSpace(s.AttrOr("content", ""))
			if content == "" || (skipURLs && looksLikeURL(content)) {
				return true
			}
			found = content
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// article:author is frequently a profile URL rather than a name.
func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// AuthorFromJSONLD returns the first author name found in a JSON-LD block.
// It understands single objects, top-level arrays and @graph documents, and
// resolves author references of the form {"@id": "..."} against the graph.
func AuthorFromJSONLD(raw string) string {
	var data any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return ""
	}

	nodes := flattenNodes(data)
	byID := make(map[string]map[string]any, len(nodes))
	for _, node := range nodes {
		if id, ok := node["@id"].(string); ok {
			byID[id] = node
		}
	}

	for _, node := range nodes {
		if author, ok := node["author"]; ok {
			if name := authorName(author, byID); name != "" {
				return name
			}
		}
	}
	return ""
}

func flattenNodes(data any) []map[string]any {
	var nodes []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			nodes = append(nodes, flattenNodes(item)...)
		}
	case map[string]any:
		nodes = append(nodes, v)
		if graph, ok := v["@graph"]; ok {
			nodes = append(nodes, flattenNodes(graph)...)
		}
	}
	return nodes
}

func authorName(author any, byID map[string]map[string]any) string {
	switch v := author.(type) {
	case string:
		if looksLikeURL(v) {
			return ""
		}
		return cleanName(v)
	case []any:
		for _, a := range v {
			if name := authorName(a, byID); name != "" {
				return name
			}
		}
	case map[string]any:
		if name, ok := v["name"].(string); ok && cleanName(name) != "" {
			return cleanName(name)
		}
		if id, ok := v["@id"].(string); ok {
			if ref, ok := byID[id]; ok {
				if name, ok := ref["name"].(string); ok {
					return cleanName(name)
				}
			}
		}
	}
	return ""
}

func cleanName(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
