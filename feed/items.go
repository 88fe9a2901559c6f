package feed

import (
	"context"
	"regexp"
	"strings"

	"github.com/ctv-clearlink/smartnews-feed/model"
	"github.com/ctv-clearlink/smartnews-feed/sanitize"
)

// PageLookup finds the image and author of an article page.
type PageLookup interface {
	Lookup(ctx context.Context, pageURL string) (*model.PageMeta, error)
}

var (
	itemElement      = regexp.MustCompile(`(?s)<item\b[^>]*>.*?</item>`)
	contentElement   = regexp.MustCompile(`(?s)<content:encoded>(.*?)</content:encoded>`)
	linkElement      = regexp.MustCompile(`<link>([^<]+)</link>`)
	thumbnailElement = regexp.MustCompile(`(?is)<media:thumbnail\b[^>]*>(?:\s*</media:thumbnail>)?`)
	urlAttribute     = regexp.MustCompile(`(?i)\burl\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	creatorElement   = regexp.MustCompile(`(?s)<(dc:creator|author)\b[^>]*?(?:/>|>(.*?)</(?:dc:creator|author)>)`)
	analyticsElement = regexp.MustCompile(`<snf:analytics\b`)
)

// Rewriter applies the per-item rules to every <item> of a document.
type Rewriter struct {
	MaxLinks  int
	Analytics string
	Lookup    PageLookup // nil disables enrichment
}

// ExtractItems returns the item records of doc in document order.
func ExtractItems(doc string) []model.Item {
	raws := itemElement.FindAllString(doc, -1)
	items := make([]model.Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, parseItem(raw))
	}
	return items
}

// itemParts splits an item around its content:encoded element so the
// element matchers never see markup inside the article body.
type itemParts struct {
	head, body, tail string
}

func splitItem(raw string) itemParts {
	loc := contentElement.FindStringIndex(raw)
	if loc == nil {
		return itemParts{head: raw}
	}
	return itemParts{head: raw[:loc[0]], body: raw[loc[0]:loc[1]], tail: raw[loc[1]:]}
}

func (p itemParts) String() string {
	return p.head + p.body + p.tail
}

// findSubmatch searches head, then tail.
func (p itemParts) findSubmatch(re *regexp.Regexp) []string {
	if m := re.FindStringSubmatch(p.head); m != nil {
		return m
	}
	return re.FindStringSubmatch(p.tail)
}

func (p itemParts) contains(re *regexp.Regexp) bool {
	return re.MatchString(p.head) || re.MatchString(p.tail)
}

// replace runs fn over every match outside the body.
func (p *itemParts) replace(re *regexp.Regexp, fn func(string) string) {
	p.head = re.ReplaceAllStringFunc(p.head, fn)
	p.tail = re.ReplaceAllStringFunc(p.tail, fn)
}

// replaceFirst swaps the first match outside the body for repl.
func (p *itemParts) replaceFirst(re *regexp.Regexp, repl string) bool {
	for _, part := range []*string{&p.head, &p.tail} {
		if loc := re.FindStringIndex(*part); loc != nil {
			*part = (*part)[:loc[0]] + repl + (*part)[loc[1]:]
			return true
		}
	}
	return false
}

func parseItem(raw string) model.Item {
	it := model.Item{Raw: raw}
	parts := splitItem(raw)
	if m := contentElement.FindStringSubmatch(parts.body); m != nil {
		it.Body = elementText(m[1])
	}
	if m := parts.findSubmatch(linkElement); m != nil {
		it.Link = strings.TrimSpace(unescapeText(m[1]))
	}
	if m := parts.findSubmatch(thumbnailElement); m != nil {
		it.Thumbnail = thumbnailURL(m[0])
	}
	if m := parts.findSubmatch(creatorElement); m != nil {
		it.Author = strings.TrimSpace(elementText(m[2]))
	}
	return it
}

func thumbnailURL(tag string) string {
	m := urlAttribute.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return unescapeText(m[1] + m[2])
}

// Rewrite rewrites every item of doc and reports what changed. Enrichment
// failures are logged and skipped; only context cancellation aborts.
func (r *Rewriter) Rewrite(ctx context.Context, doc string) (string, *model.BuildStats, error) {
	stats := &model.BuildStats{}
	locs := itemElement.FindAllStringIndex(doc, -1)
	model.InfoLogWithContext("Rewriting items", "rewriter", "rewrite_items", "", map[string]interface{}{
		"items": len(locs),
	})

	var b strings.Builder
	b.Grow(len(doc))
	prev := 0
	for _, loc := range locs {
		out, err := r.rewriteItem(ctx, doc[loc[0]:loc[1]], stats)
		if err != nil {
			return "", stats, err
		}
		b.WriteString(doc[prev:loc[0]])
		b.WriteString(out)
		prev = loc[1]
		stats.Items++
	}
	b.WriteString(doc[prev:])

	return b.String(), stats, nil
}

func (r *Rewriter) rewriteItem(ctx context.Context, raw string, stats *model.BuildStats) (string, error) {
	it := parseItem(raw)
	parts := splitItem(r.rewriteBody(raw, it.Link))

	var additions []string

	// Every thumbnail goes; a valid one comes back in canonical form.
	hadTag := parts.contains(thumbnailElement)
	parts.replace(thumbnailElement, func(string) string { return "" })
	thumbnail := ""
	switch {
	case it.HasThumbnail():
		clean, err := model.SanitizeImageURL(it.Thumbnail)
		if err != nil {
			stats.ThumbnailsDropped++
			model.WarnLogWithContext("Dropped invalid thumbnail", "rewriter", "sanitize_thumbnail", it.Link, err, map[string]interface{}{
				"thumbnail": it.Thumbnail,
			})
			break
		}
		thumbnail = clean
		stats.ThumbnailsKept++
		additions = append(additions, thumbnailTag(thumbnail))
	case hadTag:
		stats.ThumbnailsDropped++
		model.WarnLogWithContext("Dropped thumbnail without url", "rewriter", "sanitize_thumbnail", it.Link, nil, nil)
	}

	needThumbnail := thumbnail == ""
	needAuthor := it.Author == ""
	if r.Lookup != nil && it.Link != "" && (needThumbnail || needAuthor) {
		pageURL := sanitize.StripQuery(it.Link)
		meta, err := r.Lookup.Lookup(ctx, pageURL)
		switch {
		case err != nil && ctx.Err() != nil:
			return "", ctx.Err()
		case err != nil:
			stats.EnrichmentErrors++
			model.WarnLogWithContext("Article lookup failed", "rewriter", "enrich_item", pageURL, err, nil)
		case meta == nil:
		default:
			if needThumbnail {
				if thumb, ok := acceptThumbnail(meta, pageURL); ok {
					additions = append(additions, thumbnailTag(thumb))
					stats.ThumbnailsAdded++
				}
			}
			if needAuthor && meta.Author != "" {
				creator := "<dc:creator>" + cdata(meta.Author) + "</dc:creator>"
				// An empty creator element is filled in place, not duplicated.
				if !parts.replaceFirst(creatorElement, creator) {
					additions = append(additions, creator)
				}
				stats.AuthorsAdded++
			}
		}
	}

	parts.replace(linkElement, func(m string) string {
		link := strings.TrimSpace(unescapeText(linkElement.FindStringSubmatch(m)[1]))
		return "<link>" + escapeText(sanitize.StripTracking(link)) + "</link>"
	})

	if r.Analytics != "" && !parts.contains(analyticsElement) {
		additions = append(additions, "<snf:analytics>"+cdata(r.Analytics)+"</snf:analytics>")
	}

	return insertBeforeClose(parts.String(), additions), nil
}

// rewriteBody sanitizes content:encoded and always emits it as CDATA.
func (r *Rewriter) rewriteBody(item, link string) string {
	loc := contentElement.FindStringSubmatchIndex(item)
	if loc == nil {
		return item
	}
	body := elementText(item[loc[2]:loc[3]])
	clean, err := sanitize.Body(body, r.MaxLinks)
	if err != nil {
		model.WarnLogWithContext("Body left unsanitized", "rewriter", "sanitize_body", link, err, nil)
		return item
	}
	return item[:loc[0]] + "<content:encoded>" + cdata(clean) + "</content:encoded>" + item[loc[1]:]
}

func acceptThumbnail(meta *model.PageMeta, pageURL string) (string, bool) {
	if meta.ImageURL == "" {
		model.DebugLogWithContext("Article has no image", "rewriter", "enrich_item", pageURL, nil)
		return "", false
	}
	thumb, err := model.SanitizeImageURL(meta.ImageURL)
	if err != nil {
		model.WarnLogWithContext("Skip thumbnail (invalid or disallowed)", "rewriter", "enrich_item", pageURL, err, map[string]interface{}{
			"image": meta.ImageURL,
		})
		return "", false
	}
	return thumb, true
}

func thumbnailTag(u string) string {
	return `<media:thumbnail url="` + escapeAttr(u) + `" />`
}

func insertBeforeClose(item string, additions []string) string {
	if len(additions) == 0 {
		return item
	}
	i := strings.LastIndex(item, "</item>")
	return item[:i] + strings.Join(additions, "") + item[i:]
}
