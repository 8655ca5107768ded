// Package mcp exposes the expansion engine as an MCP server so agents can
// expand template text and files over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/tessera/pkg/domain"
)

// ExpandResponse is the structured result of both expansion tools.
type ExpandResponse struct {
	Text        string              `json:"text" jsonschema_description:"The expanded document text"`
	Diagnostics []domain.Diagnostic `json:"diagnostics" jsonschema_description:"Problems encountered during expansion"`
	Degraded    bool                `json:"degraded" jsonschema_description:"True when any diagnostic was raised"`
}

// Engine is the slice of the expansion engine the MCP server needs.
type Engine interface {
	Expand(doc domain.Document) domain.Expansion
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	baseDir   string
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server whose relative template paths resolve
// against baseDir.
func NewServer(engine Engine, baseDir, version string) *Server {
	s := &Server{
		engine:    engine,
		baseDir:   baseDir,
		mcpServer: server.NewMCPServer("tessera-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	expandTextTool := mcp.NewTool("expand_text",
		mcp.WithDescription("Expand template invocations in the given text. Relative template paths resolve against the server's base directory."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to expand")),
		mcp.WithString("source", mcp.Description("Label used for the text in diagnostics (optional)")),
		mcp.WithOutputSchema[ExpandResponse](),
	)
	s.mcpServer.AddTool(expandTextTool, mcp.NewStructuredToolHandler(s.handleExpandText))

	expandFileTool := mcp.NewTool("expand_file",
		mcp.WithDescription("Read a file and expand the template invocations in it. Relative template paths resolve against the file's directory."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file to expand")),
		mcp.WithOutputSchema[ExpandResponse](),
	)
	s.mcpServer.AddTool(expandFileTool, mcp.NewStructuredToolHandler(s.handleExpandFile))
}

func (s *Server) handleExpandText(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExpandResponse, error) {
	text, _ := args["text"].(string)
	source, _ := args["source"].(string)
	if source == "" {
		source = "mcp"
	}

	exp := s.engine.Expand(domain.Document{
		Text:    text,
		BaseDir: s.baseDir,
		Source:  source,
	})
	return toResponse(exp), nil
}

func (s *Server) handleExpandFile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExpandResponse, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return ExpandResponse{}, fmt.Errorf("path is required")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ExpandResponse{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	exp := s.engine.Expand(domain.Document{
		Text:    string(data),
		BaseDir: filepath.Dir(path),
		Source:  path,
	})
	return toResponse(exp), nil
}

func toResponse(exp domain.Expansion) ExpandResponse {
	diags := exp.Diagnostics
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	return ExpandResponse{
		Text:        exp.Text,
		Diagnostics: diags,
		Degraded:    exp.Degraded(),
	}
}
