package mcpserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ctv-clearlink/smartnews-feed/feed"
	"github.com/ctv-clearlink/smartnews-feed/model"
	"github.com/ctv-clearlink/smartnews-feed/sanitize"
)

// Resource URIs and MIME types
const (
	RulesURI     = "smartnews://rules"
	PreviewURI   = "smartnews://feed/preview"
	JSONMIMEType = "application/json"
	RSSMIMEType  = "application/rss+xml"
)

// Rules describes what the rewriter enforces.
type Rules struct {
	MaxLinks        int               `json:"maxLinks"`
	Namespaces      map[string]string `json:"namespaces"`
	TrackingParams  []string          `json:"trackingParams"`
	ImageExtensions []string          `json:"imageExtensions"`
}

func (s *Server) addResources(srv *mcp.Server) {
	srv.AddResource(&mcp.Resource{
		URI:         RulesURI,
		Name:        "SmartNews Rules",
		Description: "Namespaces, tracking parameters and thumbnail formats the rewriter enforces",
		MIMEType:    JSONMIMEType,
	}, s.readRules)

	srv.AddResource(&mcp.Resource{
		URI:         PreviewURI,
		Name:        "SmartNews Feed Preview",
		Description: "The rewritten feed as it would be written",
		MIMEType:    RSSMIMEType,
	}, s.readPreview)
}

func (s *Server) rules() Rules {
	r := Rules{
		MaxLinks:   s.maxLinks,
		Namespaces: map[string]string{},
	}
	for _, ns := range feed.RequiredNamespaces {
		r.Namespaces[ns.Prefix] = ns.URI
	}
	for p := range sanitize.TrackingParams {
		r.TrackingParams = append(r.TrackingParams, p)
	}
	for ext := range model.AllowedImageExtensions {
		r.ImageExtensions = append(r.ImageExtensions, ext)
	}
	sort.Strings(r.TrackingParams)
	sort.Strings(r.ImageExtensions)
	return r
}

func (s *Server) readRules(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.rules(), "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: RulesURI, MIMEType: JSONMIMEType, Text: string(data)},
		},
	}, nil
}

func (s *Server) readPreview(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	doc, _, err := s.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: PreviewURI, MIMEType: RSSMIMEType, Text: doc},
		},
	}, nil
}
