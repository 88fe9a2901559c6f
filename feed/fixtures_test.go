package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

const originFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>CableTV</title>
  <link>https://www.cabletv.com</link>
  <description>Guides</description>
  <item>
    <title>First</title>
    <link>https://www.cabletv.com/first?utm_source=rss&amp;id=7&amp;fbclid=abc</link>
    <content:encoded><![CDATA[<nav>menu</nav><p>Hello <a href="https://a.example/1">one</a> <a href="https://a.example/2">two</a> <a href="https://a.example/3">three</a></p><div class="share-buttons"><a href="https://x.example">Tweet</a></div>]]></content:encoded>
  </item>
  <item>
    <title>Second</title>
    <link>https://www.cabletv.com/second</link>
    <media:thumbnail url="javascript:alert(1)" />
    <content:encoded><![CDATA[<p>Plain <a href="javascript:steal()">bad link</a></p>]]></content:encoded>
    <dc:creator><![CDATA[Known Author]]></dc:creator>
  </item>
</channel>
</rss>`

// fakeLookup serves canned page metadata keyed by article URL.
type fakeLookup struct {
	mu    sync.Mutex
	pages map[string]*model.PageMeta
	calls []string
}

func (f *fakeLookup) Lookup(ctx context.Context, pageURL string) (*model.PageMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageURL)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("page unavailable")
	}
	return meta, nil
}
