package tools

import (
	"context"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

// GetURLKeywordTool finds the keyword(s) already pointing at a destination.
type GetURLKeywordTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewGetURLKeywordTool(client *yourls.Client) *GetURLKeywordTool {
	return &GetURLKeywordTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "get_url_keyword",
			ToolDescription: "Find the keyword(s) for a destination URL that has already been " +
				"shortened. Returns all matches unless exactly_one is set",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Destination URL to look up",
					},
					"exactly_one": map[string]any{
						"type":        "boolean",
						"description": "Stop at the first match instead of collecting all keywords",
					},
				},
				"required": []string{"url"},
			},
		},
		client: client,
	}
}

func (t *GetURLKeywordTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	dest, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.GetURLKeyword(ctx, dest, argBool(args, "exactly_one"))
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// ListURLsTool lists short URLs with sorting, paging, and field selection.
type ListURLsTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewListURLsTool(client *yourls.Client) *ListURLsTool {
	return &ListURLsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "list_urls",
			ToolDescription: "List short URLs with sorting, pagination, substring search, and " +
				"field selection. Server-side when the list plugin is installed, emulated locally otherwise",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sortby": map[string]any{
						"type":        "string",
						"description": "Sort field: keyword, url, title, ip, timestamp, or clicks",
						"enum":        []string{"keyword", "url", "title", "ip", "timestamp", "clicks"},
					},
					"sortorder": map[string]any{
						"type":        "string",
						"description": "Sort direction",
						"enum":        []string{"ASC", "DESC"},
					},
					"perpage": map[string]any{
						"type":        "integer",
						"description": "Number of results per page (default 20)",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Number of results to skip",
					},
					"query": map[string]any{
						"type":        "string",
						"description": "Substring filter on the keyword",
					},
					"fields": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Fields to include in each entry; keyword is always included",
					},
				},
			},
		},
		client: client,
	}
}

func (t *ListURLsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	res, err := t.client.ListURLs(ctx, yourls.ListOptions{
		SortBy:    argString(args, "sortby"),
		SortOrder: argString(args, "sortorder"),
		PerPage:   argInt(args, "perpage"),
		Offset:    argInt(args, "offset"),
		Query:     argString(args, "query"),
		Fields:    argStrings(args, "fields"),
	})
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// URLAnalyticsTool fetches click counts for a short URL over a date range.
type URLAnalyticsTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewURLAnalyticsTool(client *yourls.Client) *URLAnalyticsTool {
	return &URLAnalyticsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "url_analytics",
			ToolDescription: "Get click analytics for a short URL over a date range. Per-day " +
				"breakdown needs the analytics plugin; without it only the lifetime total is returned",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Keyword or short URL",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Start date, YYYY-MM-DD",
					},
					"date_end": map[string]any{
						"type":        "string",
						"description": "End date, YYYY-MM-DD; defaults to the start date",
					},
				},
				"required": []string{"shorturl", "date"},
			},
		},
		client: client,
	}
}

func (t *URLAnalyticsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	from, err := requireString(args, "date")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.URLAnalytics(ctx, keyword, from, argString(args, "date_end"))
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// CheckURLExistsTool reports whether a destination is already shortened.
type CheckURLExistsTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewCheckURLExistsTool(client *yourls.Client) *CheckURLExistsTool {
	return &CheckURLExistsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "check_url_exists",
			ToolDescription: "Check whether a destination URL already has a short URL",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Destination URL to check",
					},
				},
				"required": []string{"url"},
			},
		},
		client: client,
	}
}

func (t *CheckURLExistsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	dest, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.CheckURLExists(ctx, dest)
	if err != nil {
		return failure(err)
	}
	return success(res)
}
