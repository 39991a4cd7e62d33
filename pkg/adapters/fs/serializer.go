package fs

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Document is a vault file split into frontmatter and body.
type Document struct {
	Metadata map[string]any
	Body     string
}

// Serializer defines how to read and write a vault file format.
type Serializer interface {
	// Parse reads from r and returns a Document.
	Parse(r io.Reader) (*Document, error)
	// Serialize converts the Document to bytes.
	Serialize(doc Document) ([]byte, error)
}

// MarkdownSerializer handles Markdown files with a YAML frontmatter block.
type MarkdownSerializer struct{}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer() *MarkdownSerializer {
	return &MarkdownSerializer{}
}

func (s *MarkdownSerializer) Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Metadata: make(map[string]any)}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Body = string(data)
		return doc, nil
	}

	// The closing fence must sit on its own line.
	rest := data[3:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	yamlData := rest[:end]
	bodyData := rest[end+len("\n---"):]

	if err := yaml.Unmarshal(yamlData, &doc.Metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse frontmatter")
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}

	doc.Body = strings.TrimPrefix(string(bodyData), "\r")
	doc.Body = strings.TrimPrefix(doc.Body, "\n")

	return doc, nil
}

func (s *MarkdownSerializer) Serialize(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}
