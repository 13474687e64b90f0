// Package mcpserver is an embeddable MCP (Model Context Protocol) server.
//
// It speaks JSON-RPC 2.0 over stdio or HTTP/SSE, manages sessions, runs a
// middleware chain, and dispatches tools/call requests to registered
// ToolHandler implementations.
//
// Quick start:
//
//	server := mcpserver.New("my-server", "1.0.0")
//	server.RegisterTool(&MyTool{})
//	server.RunStdio(ctx) // or server.RunHTTP(ctx, ":8080", "")
package mcpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Server manages tools and handles JSON-RPC requests.
type Server struct {
	name            string
	version         string
	protocolVersion string
	tools           map[string]ToolHandler
	order           []string
	sessions        map[string]time.Time
	sessionMu       sync.RWMutex
	middleware      []Middleware
	logger          *slog.Logger
}

// New creates a new MCP server with the given name and version.
func New(name, version string) *Server {
	return &Server{
		name:            name,
		version:         version,
		protocolVersion: "2024-11-05",
		tools:           make(map[string]ToolHandler),
		sessions:        make(map[string]time.Time),
		logger:          slog.Default(),
	}
}

// SetLogger replaces the server's logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// RegisterTool adds a tool to the server. Registration order is preserved
// in tools/list output.
func (s *Server) RegisterTool(tool ToolHandler) {
	if _, dup := s.tools[tool.Name()]; !dup {
		s.order = append(s.order, tool.Name())
	}
	s.tools[tool.Name()] = tool
	s.logger.Info("registered tool", "name", tool.Name())
}

// RegisterTools adds multiple tools to the server.
func (s *Server) RegisterTools(tools ...ToolHandler) {
	for _, tool := range tools {
		s.RegisterTool(tool)
	}
}

// Tools returns the registered tool definitions in registration order.
func (s *Server) Tools() []ToolDef {
	return s.handleToolsList().Tools
}

// Use adds middleware to the server's processing chain.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// RunStdio serves requests from stdin and writes responses to stdout until
// EOF or ctx cancellation.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.serveStream(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStream(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting MCP server (stdio)", "name", s.name, "version", s.version, "tools", len(s.tools))

	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req JSONRPCRequest
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode request: %w", err)
		}

		resp := s.HandleRequest(ctx, &req)
		if resp == nil {
			continue // notification, no response expected
		}

		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
}

// HandleRequest processes a single JSON-RPC request through the middleware
// chain and returns a response, or nil for notifications.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(ctx, req)
}

func (s *Server) coreHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "notifications/initialized":
		s.logger.Info("client initialized")
		return nil
	case "tools/list":
		resp.Result = s.handleToolsList()
	case "tools/call":
		resp.Result = s.handleToolCall(ctx, req.Params)
	case "ping":
		resp.Result = map[string]any{}
	default:
		resp.Error = &RPCError{
			Code:    -32601,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: s.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: s.createSession(),
	}
}

func (s *Server) handleToolsList() *ToolsListResult {
	tools := make([]ToolDef, 0, len(s.order))
	for _, name := range s.order {
		h := s.tools[name]
		tools = append(tools, ToolDef{
			Name:        h.Name(),
			Description: h.Description(),
			InputSchema: h.InputSchema(),
		})
	}
	return &ToolsListResult{Tools: tools}
}

func (s *Server) handleToolCall(ctx context.Context, params any) any {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return ErrorResult(fmt.Errorf("parse params: %w", err))
	}

	var callParams struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(paramsBytes, &callParams); err != nil {
		return ErrorResult(fmt.Errorf("unmarshal params: %w", err))
	}

	tool, ok := s.tools[callParams.Name]
	if !ok {
		return ErrorResult(fmt.Errorf("tool not found: %s", callParams.Name))
	}

	result, err := tool.Execute(ctx, callParams.Arguments)
	if err != nil {
		return ErrorResult(err)
	}
	return result
}

// Session management

func (s *Server) createSession() string {
	id := generateSessionID()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.sessions[id] = time.Now()
	return id
}

// CheckSession verifies if a session ID is valid.
func (s *Server) CheckSession(id string) bool {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
