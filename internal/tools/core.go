package tools

import (
	"context"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

// ShortenURLTool creates a short URL, optionally with a chosen keyword.
type ShortenURLTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewShortenURLTool(client *yourls.Client) *ShortenURLTool {
	return &ShortenURLTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "shorten_url",
			ToolDescription: "Create a short URL for a destination, optionally with a custom keyword and title",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Destination URL to shorten (http or https)",
					},
					"keyword": map[string]any{
						"type":        "string",
						"description": "Optional custom keyword for the short URL",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "Optional title for the link",
					},
				},
				"required": []string{"url"},
			},
		},
		client: client,
	}
}

func (t *ShortenURLTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	dest, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.Shorten(ctx, dest, argString(args, "keyword"), argString(args, "title"), false)
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// ExpandURLTool resolves a keyword or short URL to its destination.
type ExpandURLTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewExpandURLTool(client *yourls.Client) *ExpandURLTool {
	return &ExpandURLTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "expand_url",
			ToolDescription: "Expand a short URL or keyword to its destination URL",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Short URL or keyword to expand",
					},
				},
				"required": []string{"shorturl"},
			},
		},
		client: client,
	}
}

func (t *ExpandURLTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.Expand(ctx, keyword)
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// URLStatsTool fetches click statistics for one short URL.
type URLStatsTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewURLStatsTool(client *yourls.Client) *URLStatsTool {
	return &URLStatsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "url_stats",
			ToolDescription: "Get click statistics for a short URL",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Short URL or keyword to get stats for",
					},
				},
				"required": []string{"shorturl"},
			},
		},
		client: client,
	}
}

func (t *URLStatsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.URLStats(ctx, keyword)
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// DBStatsTool fetches instance-wide link and click totals.
type DBStatsTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewDBStatsTool(client *yourls.Client) *DBStatsTool {
	return &DBStatsTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "db_stats",
			ToolDescription: "Get global statistics for the YOURLS instance (total links and clicks)",
			ToolSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		client: client,
	}
}

func (t *DBStatsTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	res, err := t.client.GetDBStats(ctx)
	if err != nil {
		return failure(err)
	}
	return success(res)
}
