// Package formatter writes a Markdown analysis document into downloadable files.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
)

// ErrFontUnavailable is returned by the PDF formatter when no Hangul font is configured
var ErrFontUnavailable = errors.New("pdf font is not available")

// Formatter converts a Markdown document produced by the mapper
type Formatter interface {
	Format(markdown string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	pdfFontPath string
}

type Option func(*Factory)

// WithPDFFont sets the TTF font used for PDF output
func WithPDFFont(path string) Option {
	return func(f *Factory) {
		f.pdfFontPath = path
	}
}

func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(f.pdfFontPath), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// Supports reports whether format can be produced with the current setup
func (f *Factory) Supports(format entity.ResultFormat) bool {
	switch format {
	case entity.FormatMarkdown, entity.FormatDOCX:
		return true
	case entity.FormatPDF:
		return NewPDFFormatter(f.pdfFontPath).resolveFontPath() != ""
	default:
		return false
	}
}

type blockKind int

const (
	blockTitle blockKind = iota
	blockSection
	blockHeading
	blockBullet
	blockText
)

type block struct {
	kind blockKind
	text string
}

// parseBlocks reads the small Markdown subset the mapper writes
func parseBlocks(markdown string) []block {
	var out []block
	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "### "):
			out = append(out, block{blockHeading, strings.TrimPrefix(line, "### ")})
		case strings.HasPrefix(line, "## "):
			out = append(out, block{blockSection, strings.TrimPrefix(line, "## ")})
		case strings.HasPrefix(line, "# "):
			out = append(out, block{blockTitle, strings.TrimPrefix(line, "# ")})
		case strings.HasPrefix(line, "- "):
			out = append(out, block{blockBullet, stripEmphasis(strings.TrimPrefix(line, "- "))})
		default:
			out = append(out, block{blockText, line})
		}
	}
	return out
}

func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
