package tools

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

// CreateCustomURLTool creates a keyword for a destination even when that
// destination is already shortened under another keyword.
type CreateCustomURLTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewCreateCustomURLTool(client *yourls.Client) *CreateCustomURLTool {
	return &CreateCustomURLTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "create_custom_url",
			ToolDescription: "Create a short URL with a specific keyword, even if the destination " +
				"is already shortened under another keyword. Falls back to URL mutation when the " +
				"server rejects duplicates; the stored destination then differs by a tracking " +
				"parameter, reported as internal_url",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Destination URL",
					},
					"keyword": map[string]any{
						"type":        "string",
						"description": "Keyword for the short URL",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "Optional title for the link",
					},
					"bypass_chain_guard": map[string]any{
						"type":        "boolean",
						"description": "Pass the bypass flag on the first attempt when shortening a URL that is itself a short URL",
					},
					"force_mutation": map[string]any{
						"type":        "boolean",
						"description": "Skip the duplicate-plugin attempt and mutate the destination directly",
					},
				},
				"required": []string{"url", "keyword"},
			},
		},
		client: client,
	}
}

func (t *CreateCustomURLTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	dest, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	keyword, err := requireString(args, "keyword")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.CreateCustomURL(ctx, yourls.CreateCustomURLOptions{
		URL:              dest,
		Keyword:          keyword,
		Title:            argString(args, "title"),
		BypassChainGuard: argBool(args, "bypass_chain_guard"),
		ForceMutation:    argBool(args, "force_mutation"),
	})
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// UpdateShortURLTool points an existing keyword at a new destination.
type UpdateShortURLTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewUpdateShortURLTool(client *yourls.Client) *UpdateShortURLTool {
	return &UpdateShortURLTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "update_short_url",
			ToolDescription: "Update an existing short URL to point at a new destination. " +
				"Uses the update plugin when available, otherwise recreates the mapping",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Keyword or short URL to update",
					},
					"url": map[string]any{
						"type":        "string",
						"description": "New destination URL",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "New title; when omitted the current title is kept",
					},
				},
				"required": []string{"shorturl", "url"},
			},
		},
		client: client,
	}
}

func (t *UpdateShortURLTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	dest, err := requireString(args, "url")
	if err != nil {
		return failure(err)
	}
	title := argString(args, "title")
	res, err := t.client.UpdateShortURL(ctx, keyword, dest, title, title == "")
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// ChangeKeywordTool renames a short URL's keyword.
type ChangeKeywordTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewChangeKeywordTool(client *yourls.Client) *ChangeKeywordTool {
	return &ChangeKeywordTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "change_keyword",
			ToolDescription: "Change the keyword of an existing short URL. Without the " +
				"change_keyword plugin the new keyword is created alongside the old one, " +
				"which stays active; the result says so in old_keyword_active",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"old_keyword": map[string]any{
						"type":        "string",
						"description": "Current keyword",
					},
					"new_keyword": map[string]any{
						"type":        "string",
						"description": "Desired keyword",
					},
				},
				"required": []string{"old_keyword", "new_keyword"},
			},
		},
		client: client,
	}
}

func (t *ChangeKeywordTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	oldKeyword, err := requireString(args, "old_keyword")
	if err != nil {
		return failure(err)
	}
	newKeyword, err := requireString(args, "new_keyword")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.ChangeKeyword(ctx, oldKeyword, newKeyword)
	if err != nil {
		return failure(err)
	}
	return success(res)
}

// DeleteShortURLTool removes a short URL, or reports that it cannot.
type DeleteShortURLTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewDeleteShortURLTool(client *yourls.Client) *DeleteShortURLTool {
	return &DeleteShortURLTool{
		BaseTool: mcpserver.BaseTool{
			ToolName: "delete_short_url",
			ToolDescription: "Delete a short URL. Requires the delete plugin; without it the " +
				"mapping is left intact and the response explains why",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Keyword or short URL to delete",
					},
				},
				"required": []string{"shorturl"},
			},
		},
		client: client,
	}
}

func (t *DeleteShortURLTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.DeleteShortURL(ctx, keyword)
	if err != nil {
		return failure(err)
	}
	// No plugin, nothing deleted: this is neither success nor failure.
	if !res.Deleted {
		return info(fmt.Sprintf("short URL %q exists but was not deleted: %s", res.Keyword, res.Limitations), res)
	}
	return success(res)
}
