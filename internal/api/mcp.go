package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zyvora/zyvora/internal/student"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store StoreForMCP
	Tutor Replier
}

// StoreForMCP is the subset of the profile store the MCP layer needs.
type StoreForMCP interface {
	Get(ctx context.Context, userID string) (student.Profile, error)
	Put(ctx context.Context, p student.Profile) error
	List(ctx context.Context) ([]student.Profile, error)
}

// NewMCPServer creates an MCP server exposing the tutoring core as tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"zyvora",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("Zyvora — adaptive tutoring: diagnostics, proficiency-aware answers, search-grounded explanations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_tutor",
			mcp.WithDescription("Ask the tutor a question. The reply adapts to the student's stored proficiency profile."),
			mcp.WithString("message", mcp.Description("The student's question"), mcp.Required()),
			mcp.WithString("user_id", mcp.Description("Student identifier (default anon)")),
			mcp.WithString("lang", mcp.Description("Reply language code, e.g. hi or es (default en)")),
		),
		mcpAskTutor(deps),
	)

	s.AddTool(
		mcp.NewTool("submit_diagnostic",
			mcp.WithDescription("Score a three-question diagnostic and store the resulting teaching profile."),
			mcp.WithString("q1", mcp.Description("Answer to: why do plants need sunlight?"), mcp.Required()),
			mcp.WithString("q2", mcp.Description("Answer to: what happens to speed when force increases?"), mcp.Required()),
			mcp.WithString("q3", mcp.Description("Self-rated confidence from 0 to 5"), mcp.Required()),
			mcp.WithString("user_id", mcp.Description("Student identifier (default anon)")),
			mcp.WithString("lang", mcp.Description("Preferred reply language (default en)")),
		),
		mcpSubmitDiagnostic(deps),
	)

	s.AddTool(
		mcp.NewTool("get_student_profile",
			mcp.WithDescription("Fetch a student's stored proficiency profile and teaching policy."),
			mcp.WithString("user_id", mcp.Description("Student identifier"), mcp.Required()),
		),
		mcpGetProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"zyvora://profiles",
			"Student Profiles",
			mcp.WithResourceDescription("All stored student profiles as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfiles(deps),
	)

	return s
}

func mcpAskTutor(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		userID := req.GetString("user_id", defaultUserID)
		lang := req.GetString("lang", "")

		reply, err := deps.Tutor.Reply(ctx, userID, message, lang)
		if err != nil {
			return mcpError(fmt.Sprintf("tutor failed: %v", err)), nil
		}

		return mcpText(reply.Reply), nil
	}
}

func mcpSubmitDiagnostic(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		answers := map[string]string{}
		for _, q := range []string{"q1", "q2", "q3"} {
			v, err := req.RequireString(q)
			if err != nil {
				return mcpError(q + " is required"), nil
			}
			answers[q] = v
		}

		userID := req.GetString("user_id", defaultUserID)
		lang := req.GetString("lang", defaultLanguage)

		profile := student.NewProfile(userID, student.Score(answers), lang)
		if err := deps.Store.Put(ctx, profile); err != nil {
			return mcpError(fmt.Sprintf("failed to save profile: %v", err)), nil
		}

		b, err := json.Marshal(profile)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		profile, err := deps.Store.Get(ctx, userID)
		if err != nil {
			return mcpError(fmt.Sprintf("no profile for %s", userID)), nil
		}

		b, err := json.Marshal(profile)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfiles(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		profiles, err := deps.Store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}

		b, err := json.Marshal(profiles)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profiles: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
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
