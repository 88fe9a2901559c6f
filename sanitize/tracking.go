package sanitize

import (
	"net/url"
	"strings"
)

// TrackingParams are the query parameters removed from item links.
var TrackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"utm_id":       true,
	"gclid":        true,
	"fbclid":       true,
	"msclkid":      true,
	"mc_cid":       true,
	"mc_eid":       true,
}

// StripTracking removes tracking parameters from link.
// Other parameters keep their order and encoding, and the fragment is kept.
// Links that do not parse are returned unchanged.
func StripTracking(link string) string {
	if _, err := url.Parse(link); err != nil {
		return link
	}

	base, fragment := link, ""
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}

	i := strings.IndexByte(base, '?')
	if i < 0 {
		return link
	}
	path, query := base[:i], base[i+1:]

	var kept []string
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if TrackingParams[strings.ToLower(key)] {
			continue
		}
		kept = append(kept, pair)
	}

	if len(kept) == 0 {
		return path + fragment
	}
	return path + "?" + strings.Join(kept, "&") + fragment
}

// StripQuery drops the whole query string and fragment, giving the URL used to fetch the article page.
func StripQuery(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i]
	}
	return link
}
