// Package sanitize cleans item bodies and links so they pass the aggregator's
// content rules. Everything here is pure text in, text out.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NoLinkCap disables the anchor cap in Body.
const NoLinkCap = -1

// Blocks that never carry editorial content.
const junkElements = "nav, footer, aside, header, script, style, iframe, object, embed, form, noscript"

// junkBlocks removes containers by class name. The token lists differ per
// element because a "bio" list item or an "author" section can be editorial.
var junkBlocks = []struct {
	selector string
	class    *regexp.Regexp
}{
	{"div[class]", regexp.MustCompile(`(?i)\b(related|share|social|subscribe|breadcrumbs|tags|tag-?cloud|promo|newsletter|author|bio|widget|sidebar|footer)\b`)},
	{"ul[class]", regexp.MustCompile(`(?i)\b(related|share|social|tags|sources)\b`)},
	{"section[class]", regexp.MustCompile(`(?i)\b(related|share|social|subscribe|tags|newsletter)\b`)},
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:", "file:", "mailto:", "tel:"}

var lowValueText = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"learn more": true,
	"more":       true,
	"continue":   true,
	"share":      true,
	"tweet":      true,
	"pin it":     true,
	"email":      true,
	"print":      true,
	"subscribe":  true,
	"sign up":    true,
	"follow us":  true,
}

// Body sanitizes the HTML of one item.
//
// Junk blocks are dropped, anchors with no href or an unsafe scheme are
// unwrapped to their content, anchors with low-value text are dropped, and
// finally only the first maxLinks anchors survive; later ones are unwrapped.
// A negative maxLinks leaves the anchor count alone.
//
// The body is parsed as a fragment in a <body> context, so elements a full
// document would hoist into <head> (title, link, meta) stay where they are.
func Body(body string, maxLinks int) (string, error) {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(body), root)
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	doc := goquery.NewDocumentFromNode(root)

	StripJunk(doc.Selection)
	CleanAnchors(doc.Selection)
	CapAnchors(doc.Selection, maxLinks)

	return doc.Html()
}

// StripJunk removes navigation, scripts, embeds and non-editorial class blocks.
func StripJunk(root *goquery.Selection) {
	root.Find(junkElements).Remove()

	for _, block := range junkBlocks {
		re := block.class
		root.Find(block.selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return re.MatchString(class)
		}).Remove()
	}
}

// CleanAnchors unwraps unsafe anchors and drops low-value ones.
func CleanAnchors(root *goquery.Selection) {
	root.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		switch {
		case !ok || strings.TrimSpace(href) == "" || HasUnsafeScheme(href):
			unwrap(a)
		case isLowValue(a):
			a.Remove()
		}
	})
}

// CapAnchors keeps the first max anchors in document order and unwraps the rest.
func CapAnchors(root *goquery.Selection, max int) {
	if max < 0 {
		return
	}
	root.Find("a").Each(func(i int, a *goquery.Selection) {
		if i >= max {
			unwrap(a)
		}
	})
}

// HasUnsafeScheme reports whether href points at a script, data or contact scheme.
// Whitespace and control characters are ignored the way browsers ignore them.
func HasUnsafeScheme(href string) bool {
	compact := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, strings.ToLower(href))

	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(compact, scheme) {
			return true
		}
	}
	return false
}

func isLowValue(a *goquery.Selection) bool {
	text := strings.ToLower(strings.Join(strings.Fields(a.Text()), " "))
	text = strings.Trim(text, " .:!»›→>")
	if text == "" {
		return a.Find("img").Length() == 0
	}
	return lowValueText[text]
}

// unwrap replaces an element with its children.
func unwrap(s *goquery.Selection) {
	s.ReplaceWithSelection(s.Contents())
}
