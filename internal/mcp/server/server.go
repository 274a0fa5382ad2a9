// Copyright 2026 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements an MCP server exposing the Terraform Cloud API
// as tools for AI assistants.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/tfcmcp/internal/filter"
	internallog "github.com/tombee/tfcmcp/internal/log"
	"github.com/tombee/tfcmcp/internal/tfc"
)

// Server wraps the MCP server and the Terraform Cloud client.
type Server struct {
	mcpServer *server.MCPServer
	client    *tfc.Client
	filters   *filter.Registry
	logger    *slog.Logger
	name      string
	version   string

	// enableDeleteTools registers destructive tools (deletes). Off by
	// default, mirroring the safety posture of the tool catalog.
	enableDeleteTools bool

	// toolNames records registration order for logging and checks.
	toolNames []string
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name (default: "tfcmcp").
	Name string

	// Version is the tfcmcp version.
	Version string

	// Client is the Terraform Cloud API client (required).
	Client *tfc.Client

	// Filters is the response-filter registry (required). It is injected
	// rather than looked up ambiently so tests can supply their own
	// policies.
	Filters *filter.Registry

	// EnableDeleteTools registers destructive tools.
	EnableDeleteTools bool

	// Logger receives server logs. Defaults to the environment-configured
	// logger. Logs go to stderr; stdout belongs to the MCP stdio protocol.
	Logger *slog.Logger
}

// NewServer creates a new MCP server instance and registers the full tool
// catalog.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Name == "" {
		config.Name = "tfcmcp"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if config.Filters == nil {
		return nil, fmt.Errorf("filter registry is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = internallog.New(internallog.FromEnv())
	}

	s := &Server{
		mcpServer:         server.NewMCPServer(config.Name, config.Version),
		client:            config.Client,
		filters:           config.Filters,
		logger:            internallog.WithComponent(logger, "mcp_server"),
		name:              config.Name,
		version:           config.Version,
		enableDeleteTools: config.EnableDeleteTools,
	}

	s.registerTools()
	s.logger.Debug("registered tools", slog.Int("count", len(s.toolNames)))

	return s, nil
}

// registerTools registers the per-resource tool catalogs.
func (s *Server) registerTools() {
	s.registerAccountTools()
	s.registerOrganizationTools()
	s.registerProjectTools()
	s.registerWorkspaceTools()
	s.registerRunTools()
	s.registerPlanTools()
	s.registerApplyTools()
	s.registerCostEstimateTools()
	s.registerAssessmentResultTools()
	s.registerStateVersionTools()
	s.registerStateVersionOutputTools()
	s.registerVariableTools()
}

// Run starts the MCP server using stdio transport.
func (s *Server) Run() error {
	s.logger.Info("starting Terraform Cloud MCP server", slog.String("version", s.version))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

// addTool registers one tool whose handler runs through the shared
// outcome classifier. resourceType selects the response filter policy;
// empty means the payload passes through untouched.
func (s *Server) addTool(tool mcp.Tool, resourceType string, fn toolFunc) {
	s.mcpServer.AddTool(tool, s.handle(tool.Name, resourceType, fn))
	s.toolNames = append(s.toolNames, tool.Name)
}

// prop builds one JSON schema property.
func prop(propType, description string) map[string]any {
	return map[string]any{
		"type":        propType,
		"description": description,
	}
}

// listProp builds a string-array schema property.
func listProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// schema builds a tool input schema from properties and required names.
func schema(properties map[string]any, required ...string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Helper function to create error response
func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// Helper function to create success response
func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
