package core

// Instruction is one step of a report. The presentation layer decides how
// each kind is drawn.
type Instruction interface {
	Kind() string
}

// Header is a section title, Level 1..4.
type Header struct {
	Level int
	Text  string
}

// Paragraph is free text.
type Paragraph struct {
	Text string
}

// Table delegates row formatting to the renderer registered under Renderer.
type Table struct {
	Renderer string
	Rows     []*Note
}

// Stat is a single named measurement.
type Stat struct {
	Name  string
	Unit  string
	Value float64
}

func (Header) Kind() string    { return "header" }
func (Paragraph) Kind() string { return "paragraph" }
func (Table) Kind() string     { return "table" }
func (Stat) Kind() string      { return "stat" }

// NewHeader clamps level into 1..4.
func NewHeader(level int, text string) Header {
	level = max(1, min(level, 4))
	return Header{Level: level, Text: text}
}
