// Package extract turns uploaded documents into plain text ready for
// chunking. Binary formats are out: the pipeline accepts what it can
// faithfully reduce to text.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
)

// ErrUnsupportedType reports a document format the pipeline cannot reduce
// to plain text.
var ErrUnsupportedType = errors.New("unsupported document type")

var mdExtensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

// Text extracts plain text from content, picking the decoder by the
// declared contentType, falling back to the filename extension when the
// declared type is empty or generic.
func Text(filename, contentType string, content []byte) (string, error) {
	switch kind(filename, contentType) {
	case "text":
		return string(content), nil
	case "markdown":
		return fromMarkdown(content)
	case "html":
		return fromHTML(string(content))
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, filepath.Ext(filename), contentType)
	}
}

func kind(filename, contentType string) string {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch mediaType {
	case "text/plain":
		return "text"
	case "text/markdown":
		return "markdown"
	case "text/html", "application/xhtml+xml":
		return "html"
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".log":
		return "text"
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	}
	return ""
}

// fromMarkdown renders to HTML first so lists, tables and links collapse
// the same way they do for HTML input.
func fromMarkdown(content []byte) (string, error) {
	p := parser.NewWithExtensions(mdExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(p.Parse(content), renderer)

	return fromHTML(string(rendered))
}

func fromHTML(content string) (string, error) {
	text, err := html2text.FromString(content, html2text.Options{
		OmitLinks: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract text from html: %w", err)
	}
	return text, nil
}
