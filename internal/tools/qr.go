package tools

import (
	"context"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

// GenerateQRCodeTool renders a QR code for a short URL. The image bytes come
// from the remote QR plugin; none are generated locally.
type GenerateQRCodeTool struct {
	mcpserver.BaseTool
	client *yourls.Client
}

func NewGenerateQRCodeTool(client *yourls.Client) *GenerateQRCodeTool {
	return &GenerateQRCodeTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "generate_qr_code",
			ToolDescription: "Generate a QR code image for a short URL. Requires the QR plugin on the YOURLS instance",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shorturl": map[string]any{
						"type":        "string",
						"description": "Keyword or short URL to encode",
					},
					"size": map[string]any{
						"type":        "integer",
						"description": "Optional image size in pixels",
					},
				},
				"required": []string{"shorturl"},
			},
		},
		client: client,
	}
}

func (t *GenerateQRCodeTool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	keyword, err := requireString(args, "shorturl")
	if err != nil {
		return failure(err)
	}
	res, err := t.client.GenerateQR(ctx, keyword, argInt(args, "size"))
	if err != nil {
		return failure(err)
	}
	// Image first so clients that only render the first block show the code;
	// the JSON envelope follows with the metadata.
	result := mcpserver.ImageResult(res.Data, res.ContentType)
	meta, _ := success(res)
	result.Content = append(result.Content, meta.Content...)
	return result, nil
}
