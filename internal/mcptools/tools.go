// Package mcptools exposes vault reports as MCP tools, so an assistant can
// ask what is doable or which revision is current.
package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/render"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

// ReportTool handles the gonext_report MCP tool.
type ReportTool struct {
	svc *report.Service
}

func NewReportTool(svc *report.Service) *ReportTool {
	return &ReportTool{svc: svc}
}

// Definition returns the MCP tool definition for gonext_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("gonext_report",
		mcp.WithDescription(
			"Run a named report over the note vault and return its instructions as JSON: "+
				"headers, paragraphs, tables of notes and stats.",
		),
		mcp.WithString("report",
			mcp.Required(),
			mcp.Description("Report name"),
			mcp.Enum(t.svc.Names()...),
		),
		mcp.WithString("area", mcp.Description("Comma-separated area expressions, e.g. work,!home")),
		mcp.WithString("context", mcp.Description("Comma-separated context expressions")),
		mcp.WithString("layer", mcp.Description("Comma-separated layer expressions")),
		mcp.WithString("org", mcp.Description("Comma-separated org expressions")),
		mcp.WithString("project", mcp.Description("Comma-separated project expressions")),
		mcp.WithString("note", mcp.Description("Vault path of the note the report starts from (chain report)")),
		mcp.WithString("day", mcp.Description("Day for the logs report, YYYY-MM-DD")),
	)
}

// Handle processes the gonext_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("report", "")
	if name == "" {
		return mcp.NewToolResultError("'report' is required"), nil
	}

	rc := report.ReportContext{
		Filters: namespace.Filters{
			Area:    list(req.GetString("area", "")),
			Context: list(req.GetString("context", "")),
			Layer:   list(req.GetString("layer", "")),
			Org:     list(req.GetString("org", "")),
			Project: list(req.GetString("project", "")),
		},
		Day: req.GetString("day", ""),
	}
	if id := req.GetString("note", ""); id != "" {
		n, err := t.svc.Store().Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("loading note: %v", err)), nil
		}
		rc.Note = n
	}

	ins, err := t.svc.Generate(ctx, name, rc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(ins)
}

// InspectTool handles the gonext_inspect MCP tool.
type InspectTool struct {
	svc *report.Service
}

func NewInspectTool(svc *report.Service) *InspectTool {
	return &InspectTool{svc: svc}
}

func (t *InspectTool) Definition() mcp.Tool {
	return mcp.NewTool("gonext_inspect",
		mcp.WithDescription("Show one note with its effective single-valued tags, whether it is doable now, and whether a newer revision supersedes it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Vault path without extension, e.g. Tasks/8c1f0a2e"),
		),
	)
}

func (t *InspectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	n, err := t.svc.Store().Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading note: %v", err)), nil
	}

	ins := []core.Instruction{core.Table{Renderer: report.RendererNotes, Rows: []*core.Note{n}}}
	for _, ns := range namespace.Filtered() {
		v, _, err := namespace.Resolve(n, ns, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ins = append(ins, core.Paragraph{Text: string(ns) + ": " + v})
	}
	if n.Type.IsActionable() {
		ok, err := t.svc.Readiness().IsDoable(ctx, n)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("readiness: %v", err)), nil
		}
		v := 0.0
		if ok {
			v = 1
		}
		ins = append(ins, core.Stat{Name: "doable", Value: v})
	}
	if n.Type == core.TypePermanent || n.Type == core.TypeResource {
		last, err := t.svc.Revisions().IsLastRevision(ctx, n)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("revisions: %v", err)), nil
		}
		if !last {
			ins = append(ins, core.Paragraph{Text: "superseded"})
		}
	}
	return jsonResult(ins)
}

// ListTool handles the gonext_list MCP tool.
type ListTool struct {
	svc *report.Service
}

func NewListTool(svc *report.Service) *ListTool {
	return &ListTool{svc: svc}
}

func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("gonext_list",
		mcp.WithDescription("List notes under a folder or carrying a tag."),
		mcp.WithString("prefix", mcp.Description("Folder of the vault, e.g. Tasks")),
		mcp.WithString("tag", mcp.Description("Tag, sub-tags included, e.g. area/work")),
	)
}

func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := req.GetString("prefix", "")
	tag := req.GetString("tag", "")

	notes, err := t.svc.Store().ByPredicate(ctx, func(n *core.Note) bool {
		return core.UnderPrefix(n.ID, prefix) && (tag == "" || n.HasTag(tag))
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing notes: %v", err)), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}
	return jsonResult([]core.Instruction{
		core.Stat{Name: "notes", Value: float64(len(notes))},
		core.Table{Renderer: report.RendererNotes, Rows: notes},
	})
}

func jsonResult(ins []core.Instruction) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := render.NewJSON(&buf).Render(ins); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func list(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
