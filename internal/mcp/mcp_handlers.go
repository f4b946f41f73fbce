package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	newDeps DepsFunc
}

// requestConfig applies the per-call overrides shared by the analysis tools.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if _, ok := request.GetArguments()["days"]; ok {
		d, err := request.RequireInt("days")
		if err != nil {
			return nil, err
		}
		if err := contract.ValidateDays(d); err != nil {
			return nil, err
		}
		cfg.Days = d
	}
	cfg.IncludeSentiment = request.GetBool("sentiment", cfg.IncludeSentiment)
	return cfg, nil
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoID, err := request.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	repoID = contract.NormalizeRepositoryID(repoID)
	if err := contract.ValidateRepositoryID(repoID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	deps, err := h.newDeps(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("setup failed: %v", err)), nil
	}

	report, _, err := core.GetReportResult(core.WithSuppressHeader(ctx), cfg, repoID, deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleAnalyzeRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoIDs, err := request.RequireStringSlice("repositories")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	deps, err := h.newDeps(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("setup failed: %v", err)), nil
	}

	batch, _, err := core.GetBatchResult(core.WithSuppressHeader(ctx), cfg, repoIDs, deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(batch)
}

func (h *toolHandler) handleClassifyEmail(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	emails, err := request.RequireStringSlice("emails")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(emails) == 0 {
		return mcp.NewToolResultError("at least one email is required"), nil
	}
	return jsonResult(core.ClassifyEmails(h.baseCfg, emails))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
