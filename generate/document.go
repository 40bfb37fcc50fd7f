package generate

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// Filename is the name under which a [Document] is offered for download.
	Filename = "combined_documentation.md"

	// MIMEType is the media type of a [Document].
	MIMEType = "text/markdown"
)

// Document is the combined Markdown documentation of an archive. Sections are
// only ever appended, in the order the files were processed.
type Document struct {
	sections []Section
}

// Section is the generated documentation of a single file.
type Section struct {
	Path string
	Text string
}

// Markdown returns the section as "# Documentation for <path>", followed by
// the generated text.
func (s Section) Markdown() string {
	return fmt.Sprintf("# Documentation for %s\n\n%s\n\n", s.Path, s.Text)
}

// Append adds the documentation of a file to the end of the document.
func (doc *Document) Append(path, text string) {
	doc.sections = append(doc.sections, Section{Path: path, Text: text})
}

// Sections returns the sections of the document in order.
func (doc *Document) Sections() []Section {
	return append([]Section(nil), doc.sections...)
}

// Empty reports whether the document has no sections. An empty document is
// never offered for download.
func (doc *Document) Empty() bool {
	return len(doc.sections) == 0
}

// Markdown returns the concatenated sections.
func (doc *Document) Markdown() string {
	var b strings.Builder
	for _, s := range doc.sections {
		b.WriteString(s.Markdown())
	}
	return b.String()
}

// WriteTo writes the Markdown of the document to w.
func (doc *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, doc.Markdown())
	return int64(n), err
}

// Save writes the document to path in fs, creating parent directories as
// needed.
func (doc *Document) Save(fs afero.Fs, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := afero.WriteFile(fs, path, []byte(doc.Markdown()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
