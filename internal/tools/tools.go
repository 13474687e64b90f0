// Package tools implements the MCP tool handlers that expose the YOURLS
// client. Every handler funnels its outcome through one response envelope:
// an explicit status discriminator plus either the result payload or an
// error message with a machine-readable code. Success and error are never
// told apart by payload shape alone.
package tools

import (
	"errors"
	"fmt"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

// All returns every tool handler, in the order they should be listed.
func All(client *yourls.Client) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		NewShortenURLTool(client),
		NewExpandURLTool(client),
		NewURLStatsTool(client),
		NewDBStatsTool(client),
		NewCreateCustomURLTool(client),
		NewUpdateShortURLTool(client),
		NewChangeKeywordTool(client),
		NewDeleteShortURLTool(client),
		NewGetURLKeywordTool(client),
		NewListURLsTool(client),
		NewURLAnalyticsTool(client),
		NewCheckURLExistsTool(client),
		NewGenerateQRCodeTool(client),
	}
}

// success wraps a result in the success envelope.
func success(result any) (*mcpserver.ToolCallResult, error) {
	return mcpserver.SuccessResult(map[string]any{
		"status": "success",
		"result": result,
	}), nil
}

// info wraps a result in the informational envelope: the operation neither
// succeeded nor failed, e.g. delete without the delete plugin.
func info(message string, result any) (*mcpserver.ToolCallResult, error) {
	payload := map[string]any{
		"status":  "info",
		"message": message,
	}
	if result != nil {
		payload["result"] = result
	}
	return mcpserver.SuccessResult(payload), nil
}

// failure turns an error into the error envelope. The dispatch framework's
// isError flag is set alongside the explicit status field.
func failure(err error) (*mcpserver.ToolCallResult, error) {
	payload := map[string]any{
		"status":  "error",
		"message": err.Error(),
	}
	var apiErr *yourls.APIError
	if errors.As(err, &apiErr) {
		payload["code"] = apiErr.Kind.String()
		if apiErr.Code != "" {
			payload["code"] = apiErr.Code
		}
		if apiErr.Message != "" {
			payload["message"] = apiErr.Message
		}
	}
	result := mcpserver.SuccessResult(payload)
	result.IsError = true
	return result, nil
}

// Argument accessors. MCP arguments arrive as loosely typed JSON values;
// numbers are float64 and booleans may be sent as strings by some clients.

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argBool(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	}
	return false
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}

func argStrings(args map[string]any, key string) []string {
	arr, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// requireString fetches a mandatory string argument.
func requireString(args map[string]any, key string) (string, error) {
	v := argString(args, key)
	if v == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return v, nil
}
