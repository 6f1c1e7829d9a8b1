package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkalra/profiled/internal/query"
	"github.com/mkalra/profiled/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store   ProfileStore
	Queries QueryService
}

// NewMCPServer creates an MCP server exposing the profile query engine
// as tools and the current profile as a resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"profiled",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("profiled — personal profile store with keyword search and skill analytics."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("search_profile",
			mcp.WithDescription("Keyword-search the stored profile and return the matched fields per profile."),
			mcp.WithString("query", mcp.Description("Case-insensitive substring to search for"), mcp.Required()),
		),
		mcpSearchProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("projects_by_skill",
			mcp.WithDescription("List projects whose tags contain the given skill (exact, case-insensitive match)."),
			mcp.WithString("skill", mcp.Description("Skill tag to filter projects by"), mcp.Required()),
		),
		mcpProjectsBySkill(deps),
	)

	s.AddTool(
		mcp.NewTool("top_skills",
			mcp.WithDescription("Rank project skill tags by frequency across all stored projects."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of skills to return (default 5)")),
		),
		mcpTopSkills(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"profile://current",
			"Current Profile",
			mcp.WithResourceDescription("The stored profile as JSON (null when none exists)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpSearchProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		views, err := deps.Queries.SearchByKeyword(ctx, q)
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcpJSON(map[string]any{"profiles": views})
	}
}

func mcpProjectsBySkill(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skill, err := req.RequireString("skill")
		if err != nil {
			return mcpError("skill is required"), nil
		}

		projects, err := deps.Queries.SearchBySkill(ctx, skill)
		if err != nil {
			return mcpError(fmt.Sprintf("project search failed: %v", err)), nil
		}

		return mcpJSON(projects)
	}
}

func mcpTopSkills(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", query.DefaultTopSkills)
		if limit <= 0 {
			limit = query.DefaultTopSkills
		}
		if limit > 50 {
			limit = 50
		}

		skills, err := deps.Queries.TopSkills(ctx, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("skill ranking failed: %v", err)), nil
		}

		return mcpJSON(skills)
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text := "null"
		p, err := deps.Store.FindFirst(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// keep null
		case err != nil:
			return nil, fmt.Errorf("failed to get profile: %w", err)
		default:
			b, err := json.Marshal(p)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal profile: %w", err)
			}
			text = string(b)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
