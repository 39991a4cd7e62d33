package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

// NewServer registers every gonext tool on a new MCP server.
func NewServer(svc *report.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gonext",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Tools over a vault of typed, tagged Markdown notes. "+
			"Use gonext_report with report=doable to find the tasks that can be started now."),
	)

	reportTool := NewReportTool(svc)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	inspectTool := NewInspectTool(svc)
	s.AddTool(inspectTool.Definition(), inspectTool.Handle)

	listTool := NewListTool(svc)
	s.AddTool(listTool.Definition(), listTool.Handle)

	return s
}
