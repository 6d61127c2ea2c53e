package mapper

import (
	"fmt"
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
)

const (
	// ProcessingError is shown instead of a result that cannot be rendered
	ProcessingError = "분석 중 오류가 발생했습니다."

	headingPrefix = "📍 "
	bulletPrefix  = "• "
)

// Render produces the user-facing display text of a result record.
// Empty sections are left out entirely.
func (m *Mapper) Render(rec *entity.ResultRecord) string {
	if rec == nil {
		return ProcessingError
	}

	parts := []string{m.schema.Header, "", m.schema.SummaryLabel}

	for _, line := range splitLines(rec.Summary) {
		switch {
		case strings.HasPrefix(line, entity.HeadingMarker):
			parts = append(parts, "\n"+headingPrefix+displayHeading(line[len(entity.HeadingMarker):]))
		case strings.HasPrefix(line, entity.BulletMarker):
			parts = append(parts, bulletPrefix+strings.TrimSpace(line[len(entity.BulletMarker):]))
		default:
			parts = append(parts, line)
		}
	}

	for _, key := range entity.SectionKeys {
		entries := rec.Section(key)
		if len(entries) == 0 {
			continue
		}

		parts = append(parts, "", m.label(key))
		for _, e := range entries {
			if e.Kind == entity.EntryHeading {
				parts = append(parts, "\n"+headingPrefix+displayHeading(e.Text))
				continue
			}
			parts = append(parts, bulletPrefix+strings.TrimSpace(e.Text))
		}
	}

	return strings.Join(parts, "\n")
}

// RenderMarkdown produces a Markdown document with the same content as Render
func (m *Mapper) RenderMarkdown(rec *entity.ResultRecord) string {
	if rec == nil {
		return ProcessingError + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", plainLabel(m.schema.Header))
	fmt.Fprintf(&b, "## %s\n\n", plainLabel(m.schema.SummaryLabel))

	for _, line := range splitLines(rec.Summary) {
		switch {
		case strings.HasPrefix(line, entity.HeadingMarker):
			fmt.Fprintf(&b, "\n### %s\n\n", displayHeading(line[len(entity.HeadingMarker):]))
		case strings.HasPrefix(line, entity.BulletMarker):
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(line[len(entity.BulletMarker):]))
		default:
			fmt.Fprintf(&b, "%s\n", line)
		}
	}

	for _, key := range entity.SectionKeys {
		entries := rec.Section(key)
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\n", plainLabel(m.label(key)))
		for _, e := range entries {
			if e.Kind == entity.EntryHeading {
				fmt.Fprintf(&b, "\n### %s\n\n", displayHeading(e.Text))
				continue
			}
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(e.Text))
		}
	}

	if rec.Input != nil && rec.Input.Len() > 0 {
		b.WriteString("\n## 입력 정보\n\n")
		for _, k := range rec.Input.Keys() {
			v, _ := rec.Input.Get(k)
			fmt.Fprintf(&b, "- **%s**: %s\n", k, v)
		}
	}

	return b.String()
}

func (m *Mapper) label(key entity.SectionKey) string {
	if l, ok := m.labels[key]; ok && l != "" {
		return l
	}
	return string(key) + ":"
}

// displayHeading strips one trailing colon from a heading
func displayHeading(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, ":") {
		text = strings.TrimSpace(strings.TrimSuffix(text, ":"))
	}
	return text
}

// plainLabel drops the trailing colon of a display label
func plainLabel(label string) string {
	return strings.TrimSuffix(strings.TrimSpace(label), ":")
}
