// Package mapper turns the generation engine's markdown-like output into a
// ResultRecord and renders records back into display text.
//
// The engine contract is positional: a line starting with "# " opens a
// section, a line starting with "- " is a list item. Anything else is kept
// as plain text. There is no grammar beyond that.
package mapper

import (
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
)

// Mapper parses and renders analysis results for a fixed Schema
type Mapper struct {
	schema Schema
	titles map[string]entity.SectionKey
	labels map[entity.SectionKey]string
}

// New creates a mapper. The schema must be valid.
func New(schema Schema) *Mapper {
	m := &Mapper{
		schema: schema,
		titles: make(map[string]entity.SectionKey),
		labels: make(map[entity.SectionKey]string),
	}
	for _, sec := range schema.Sections {
		m.labels[sec.Key] = sec.Label
		for _, title := range sec.Titles {
			m.titles[title] = sec.Key
		}
	}
	return m
}

// NewDefault creates a mapper over DefaultSchema
func NewDefault() *Mapper {
	return New(DefaultSchema())
}

// Build assembles the result record from the two raw engine outputs
func (m *Mapper) Build(input *entity.AnswerMap, rawSummary, rawCritique string) *entity.ResultRecord {
	rec := entity.NewResultRecord(input.Clone())
	rec.Summary = NormalizeSummary(rawSummary)

	for key, entries := range m.ParseSections(rawCritique) {
		rec.SetSection(key, entries)
	}

	return rec
}

// ParseSections splits a raw blob by "# " headings and normalizes the body
// of every heading the schema knows. Unknown headings are dropped.
// A heading that appears twice keeps the body of its last occurrence.
func (m *Mapper) ParseSections(raw string) map[entity.SectionKey][]entity.Entry {
	out := make(map[entity.SectionKey][]entity.Entry, len(entity.SectionKeys))

	var (
		current string
		open    bool
		body    []string
	)

	flush := func() {
		if !open || len(body) == 0 {
			return
		}
		key, ok := m.titles[current]
		if !ok {
			return
		}
		out[key] = NormalizeBody(body)
	}

	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, entity.HeadingMarker) {
			flush()
			current = headingTitle(line)
			open = true
			body = nil
			continue
		}
		body = append(body, line)
	}
	flush()

	return out
}

// SectionKey resolves an engine heading to its canonical section
func (m *Mapper) SectionKey(title string) (entity.SectionKey, bool) {
	key, ok := m.titles[title]
	return key, ok
}

// NormalizeBody converts section body lines into entries.
//
//	"- label: value"  -> heading "label", bullet "value" (bullet omitted if value is empty)
//	"- text"          -> bullet "text"
//	"# text"          -> heading "text", kept verbatim including a trailing colon
//	anything else     -> text entry
func NormalizeBody(lines []string) []entity.Entry {
	entries := make([]entity.Entry, 0, len(lines))

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, entity.BulletMarker):
			item := line[len(entity.BulletMarker):]
			label, value, found := strings.Cut(item, ":")
			if !found {
				entries = append(entries, entity.Bullet(strings.TrimSpace(item)))
				continue
			}
			if label = strings.TrimSpace(label); label != "" {
				entries = append(entries, entity.Heading(label))
			}
			if value = strings.TrimSpace(value); value != "" {
				entries = append(entries, entity.Bullet(value))
			}
		case strings.HasPrefix(line, entity.HeadingMarker):
			entries = append(entries, entity.Heading(strings.TrimSpace(line[len(entity.HeadingMarker):])))
		default:
			entries = append(entries, entity.Text(line))
		}
	}

	return entries
}

// NormalizeSummary keeps the summary as text: trimmed non-blank lines with
// their heading and list markers left in place for the renderer.
func NormalizeSummary(raw string) string {
	return strings.Join(splitLines(raw), "\n")
}

// headingTitle returns the heading text without marker and trailing colon
func headingTitle(line string) string {
	title := strings.TrimSpace(line[len(entity.HeadingMarker):])
	title = strings.TrimSuffix(title, ":")
	return strings.TrimSpace(title)
}

// splitLines returns trimmed, non-blank lines
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
