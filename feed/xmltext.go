package feed

import (
	"html"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// unescapeText decodes character data taken from the raw document.
func unescapeText(s string) string { return html.UnescapeString(s) }

// cdata wraps s in a CDATA section, splitting any embedded terminator.
func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// elementText returns the character data of an element's inner XML,
// joining CDATA sections and decoding entities outside them.
func elementText(inner string) string {
	var b strings.Builder
	rest := inner
	for {
		start := strings.Index(rest, "<![CDATA[")
		if start < 0 {
			b.WriteString(unescapeText(rest))
			break
		}
		b.WriteString(unescapeText(rest[:start]))
		rest = rest[start+len("<![CDATA["):]
		end := strings.Index(rest, "]]>")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:end])
		rest = rest[end+len("]]>"):]
	}
	return b.String()
}
