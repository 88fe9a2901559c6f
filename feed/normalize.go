package feed

import (
	"fmt"
	"regexp"
	"strings"
)

// Namespace is an XML namespace declaration the output must carry.
type Namespace struct {
	Prefix string
	URI    string
}

// RequiredNamespaces are declared on <rss> when missing.
var RequiredNamespaces = []Namespace{
	{Prefix: "snf", URI: "http://www.smartnews.be/snf"},
	{Prefix: "media", URI: "http://search.yahoo.com/mrss/"},
	{Prefix: "dc", URI: "http://purl.org/dc/elements/1.1/"},
}

var (
	rssOpenTag     = regexp.MustCompile(`<rss\b([^>]*)>`)
	channelOpenTag = regexp.MustCompile(`<channel\b[^>]*>`)
	logoElement    = regexp.MustCompile(`<snf:logo\b`)
)

// Normalize declares every missing required namespace on the <rss> element and
// inserts the channel logo if the channel has none. Running it twice changes nothing.
func Normalize(doc, logoURL string) string {
	doc = ensureNamespaces(doc)
	return ensureLogo(doc, logoURL)
}

func ensureNamespaces(doc string) string {
	loc := rssOpenTag.FindStringSubmatchIndex(doc)
	if loc == nil {
		return doc
	}
	attrs := doc[loc[2]:loc[3]]

	var missing []string
	for _, ns := range RequiredNamespaces {
		if !declares(attrs, ns.Prefix) {
			missing = append(missing, fmt.Sprintf(`xmlns:%s="%s"`, ns.Prefix, ns.URI))
		}
	}
	if len(missing) == 0 {
		return doc
	}

	trimmed := strings.TrimRight(attrs, " \t\r\n")
	tail := attrs[len(trimmed):]
	newTag := "<rss" + trimmed + " " + strings.Join(missing, " ") + tail + ">"
	return doc[:loc[0]] + newTag + doc[loc[1]:]
}

func declares(attrs, prefix string) bool {
	return regexp.MustCompile(`\bxmlns:` + regexp.QuoteMeta(prefix) + `\s*=`).MatchString(attrs)
}

func ensureLogo(doc, logoURL string) string {
	if logoURL == "" || logoElement.MatchString(doc) {
		return doc
	}
	loc := channelOpenTag.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	logo := "\n    <snf:logo><url>" + escapeText(logoURL) + "</url></snf:logo>"
	return doc[:loc[1]] + logo + doc[loc[1]:]
}
