// Package render draws report instructions for a terminal, with pterm, or
// as JSON for other tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
)

// Renderer writes a report.
type Renderer interface {
	Render(ins []core.Instruction) error
}

// Columns describe how a named table renderer lays out notes.
type Columns struct {
	Header []string
	Row    func(n *core.Note) []string
}

// Terminal renders with pterm into w.
type Terminal struct {
	w        io.Writer
	renderer map[string]Columns
}

// NewTerminal creates a Terminal with the built-in table renderers.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, renderer: defaultColumns()}
}

// Register adds or replaces a table renderer.
func (t *Terminal) Register(name string, c Columns) {
	t.renderer[name] = c
}

func (t *Terminal) Render(ins []core.Instruction) error {
	for _, i := range ins {
		var out string
		switch v := i.(type) {
		case core.Header:
			if v.Level == 1 {
				out = pterm.DefaultHeader.Sprint(v.Text) + "\n"
			} else {
				out = pterm.DefaultSection.WithLevel(v.Level).Sprint(v.Text)
			}
		case core.Paragraph:
			out = pterm.DefaultParagraph.Sprint(v.Text) + "\n"
		case core.Stat:
			out = pterm.Bold.Sprint(v.Name+":") + " " + formatStat(v) + "\n"
		case core.Table:
			s, err := t.table(v)
			if err != nil {
				return err
			}
			out = s + "\n"
		default:
			return errors.Newf("cannot render instruction of kind %q", i.Kind())
		}
		if _, err := io.WriteString(t.w, out); err != nil {
			return errors.Wrap(err, "writing report")
		}
	}
	return nil
}

func (t *Terminal) table(tbl core.Table) (string, error) {
	cols, ok := t.renderer[tbl.Renderer]
	if !ok {
		cols = t.renderer["notes"]
	}
	data := pterm.TableData{cols.Header}
	for _, n := range tbl.Rows {
		data = append(data, cols.Row(n))
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s table", tbl.Renderer)
	}
	return s, nil
}

func formatStat(s core.Stat) string {
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if s.Unit == "" {
		return v
	}
	return v + " " + s.Unit
}

func defaultColumns() map[string]Columns {
	notes := Columns{
		Header: []string{"Key", "Title", "Type", "Tags"},
		Row: func(n *core.Note) []string {
			return []string{n.Key(), n.Title, string(n.Type), strings.Join(n.SortedTags(), " ")}
		},
	}
	return map[string]Columns{
		"notes": notes,
		"tasks": {
			Header: []string{"Key", "Title", "Status", "Priority", "Estimate", "Before"},
			Row: func(n *core.Note) []string {
				return []string{n.Key(), n.Title, string(n.Status), number(n.Priority), n.TimeEstimate, date(n.Before)}
			},
		},
		"blocked": {
			Header: []string{"Key", "Title", "After", "Needs"},
			Row: func(n *core.Note) []string {
				return []string{n.Key(), n.Title, date(n.After), strings.Join(n.Needs, ", ")}
			},
		},
		"chain": {
			Header: []string{"Key", "Title", "Type", "Next"},
			Row: func(n *core.Note) []string {
				return []string{n.Key(), n.Title, string(n.Type), n.Next}
			},
		},
		"resources": {
			Header: []string{"Key", "Title", "Domain", "Components"},
			Row: func(n *core.Note) []string {
				return []string{n.Key(), n.Title, namespace.DomainOf(n), strings.Join(namespace.Components(n), " ")}
			},
		},
		"logs": {
			Header: []string{"Key", "Title", "Start", "End", "Minutes"},
			Row: func(n *core.Note) []string {
				minutes := ""
				if n.CreatedAt != nil && n.DoneAt != nil {
					minutes = number(n.DoneAt.Sub(*n.CreatedAt).Minutes())
				}
				return []string{n.Key(), n.Title, clock(n.CreatedAt), clock(n.DoneAt), minutes}
			},
		},
		"media": {
			Header: []string{"Key", "Title", "Status"},
			Row: func(n *core.Note) []string {
				return []string{n.Key(), n.Title, string(n.Status)}
			},
		},
	}
}

func number(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

// JSON writes the instructions as one JSON document.
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

type jsonNote struct {
	ID       string   `json:"id"`
	UUID     string   `json:"uuid"`
	Title    string   `json:"title,omitempty"`
	Type     string   `json:"type"`
	Status   string   `json:"status,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Priority float64  `json:"priority,omitempty"`
	Needs    []string `json:"needs,omitempty"`
	Next     string   `json:"next,omitempty"`
}

type jsonInstruction struct {
	Kind     string     `json:"kind"`
	Level    int        `json:"level,omitempty"`
	Text     string     `json:"text,omitempty"`
	Renderer string     `json:"renderer,omitempty"`
	Rows     []jsonNote `json:"rows,omitempty"`
	Name     string     `json:"name,omitempty"`
	Unit     string     `json:"unit,omitempty"`
	Value    *float64   `json:"value,omitempty"`
}

func (j *JSON) Render(ins []core.Instruction) error {
	out := make([]jsonInstruction, 0, len(ins))
	for _, i := range ins {
		ji := jsonInstruction{Kind: i.Kind()}
		switch v := i.(type) {
		case core.Header:
			ji.Level, ji.Text = v.Level, v.Text
		case core.Paragraph:
			ji.Text = v.Text
		case core.Stat:
			value := v.Value
			ji.Name, ji.Unit, ji.Value = v.Name, v.Unit, &value
		case core.Table:
			ji.Renderer = v.Renderer
			for _, n := range v.Rows {
				ji.Rows = append(ji.Rows, jsonNote{
					ID: n.ID, UUID: n.UUID, Title: n.Title, Type: string(n.Type), Status: string(n.Status),
					Tags: n.RawTags(), Priority: n.Priority, Needs: n.Needs, Next: n.Next,
				})
			}
		default:
			return errors.Newf("cannot render instruction of kind %q", i.Kind())
		}
		out = append(out, ji)
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return nil
}

var (
	_ Renderer = (*Terminal)(nil)
	_ Renderer = (*JSON)(nil)
)

// Plain renders without colors, for pipes and tests.
func Plain() {
	pterm.DisableStyling()
}

// Describe renders a single note as a two-column property table.
func (t *Terminal) Describe(n *core.Note) error {
	rows := pterm.TableData{{"Field", "Value"}}
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	add("id", n.ID)
	add("uuid", n.UUID)
	add("title", n.Title)
	add("type", string(n.Type))
	add("status", string(n.Status))
	add("tags", strings.Join(n.RawTags(), " "))
	add("created_at", stamp(n.CreatedAt))
	add("done_at", stamp(n.DoneAt))
	add("before", stamp(n.Before))
	add("after", stamp(n.After))
	add("priority", number(n.Priority))
	add("time_estimate", n.TimeEstimate)
	add("needs", strings.Join(n.Needs, ", "))
	add("next", n.Next)
	add("parent_id", n.ParentID)
	add("ref_id", n.RefID)
	for _, ns := range namespace.Filtered() {
		if v, _, err := namespace.Resolve(n, ns, false); err == nil {
			add("effective "+string(ns), v)
		}
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return errors.Wrap(err, "rendering note")
	}
	_, err = fmt.Fprintln(t.w, s)
	return err
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
