package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ctv-clearlink/smartnews-feed/sanitize"
)

const reviewItemPrompt = "review_smartnews_item"

func (s *Server) addPrompts(srv *mcp.Server) {
	srv.AddPrompt(&mcp.Prompt{
		Name:        reviewItemPrompt,
		Description: "Review an item body against the SmartNews content rules",
		Arguments: []*mcp.PromptArgument{
			{Name: "html", Description: "Item body HTML", Required: true},
			{Name: "link", Description: "Item link"},
			{Name: "max_links", Description: "Anchors to keep"},
		},
	}, s.handleReviewItem)
}

// handleReviewItem sanitizes the supplied body and asks the model to compare before and after.
func (s *Server) handleReviewItem(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	body := getStringArg(req.Params.Arguments, "html", "")
	if strings.TrimSpace(body) == "" {
		return createErrorPromptResult("html is required"), nil
	}
	link := getStringArg(req.Params.Arguments, "link", "")
	maxLinks := getIntArg(req.Params.Arguments, "max_links", s.maxLinks)

	clean, err := sanitize.Body(body, maxLinks)
	if err != nil {
		return createErrorPromptResult(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Review this feed item for SmartNews ingestion.\n\n")
	if link != "" {
		fmt.Fprintf(&b, "Canonical link: %s\n\n", sanitize.StripTracking(link))
	}
	fmt.Fprintf(&b, "Rules: at most %d links, no navigation/share/newsletter blocks, no script or unsafe-scheme links.\n\n", maxLinks)
	fmt.Fprintf(&b, "Original body:\n%s\n\nSanitized body:\n%s\n\n", body, clean)
	b.WriteString("List anything editorial that was lost and anything non-editorial that remains.")

	return &mcp.GetPromptResult{
		Description: "SmartNews item review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}

func createErrorPromptResult(errorMsg string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: "Error in prompt execution",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: fmt.Sprintf("Error: %s\n\nPlease check your parameters and try again.", errorMsg),
				},
			},
		},
	}
}

func getStringArg(args map[string]string, key, defaultValue string) string {
	if val, ok := args[key]; ok {
		return val
	}
	return defaultValue
}

func getIntArg(args map[string]string, key string, defaultValue int) int {
	if val, ok := args[key]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}
