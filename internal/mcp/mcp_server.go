// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DepsFunc builds the analysis collaborators for one tool call.
type DepsFunc func(cfg *contract.Config) (core.Deps, error)

// NewMCPServer initializes and configures the Steward MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newDeps DepsFunc) *server.MCPServer {
	s := server.NewMCPServer(
		"Steward Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		newDeps: newDeps,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Assess the sustainability risk of one repository from its contributor activity."),
		mcp.WithString("repository", mcp.Description("Repository URL or owner/name identifier."), mcp.Required()),
		mcp.WithNumber("days", mcp.Description("Analysis window in days (1-365). Defaults to the configured window.")),
		mcp.WithBoolean("sentiment", mcp.Description("Score comment and review texts and include the sentiment factor.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: analyze_repositories ---
	s.AddTool(mcp.NewTool("analyze_repositories",
		mcp.WithDescription("Analyze several repositories concurrently and rank them by risk and commit frequency."),
		mcp.WithArray("repositories", mcp.Description("Repository URLs or owner/name identifiers."), mcp.Required(), mcp.WithStringItems()),
		mcp.WithNumber("days", mcp.Description("Analysis window in days (1-365).")),
		mcp.WithBoolean("sentiment", mcp.Description("Score comment and review texts.")),
	), h.handleAnalyzeRepositories)

	// --- 3. Tool: classify_email ---
	s.AddTool(mcp.NewTool("classify_email",
		mcp.WithDescription("Classify email addresses as company, academic, personal or unknown by their domain."),
		mcp.WithArray("emails", mcp.Description("Email addresses to classify."), mcp.Required(), mcp.WithStringItems()),
	), h.handleClassifyEmail)

	return s
}

// StartMCPServer starts the Steward MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, newDeps DepsFunc) error {
	s := NewMCPServer(baseCfg, newDeps)
	return server.ServeStdio(s)
}
