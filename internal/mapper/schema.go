package mapper

import (
	"fmt"
	"os"

	"github.com/starlenz/patent-assistant/internal/entity"
	"gopkg.in/yaml.v3"
)

// Section describes how one result section is recognized and displayed
type Section struct {
	Key entity.SectionKey `yaml:"key"`
	// Label is the display heading, icon included
	Label string `yaml:"label"`
	// Titles are the exact engine headings (colon stripped) mapped to Key
	Titles []string `yaml:"titles"`
}

// Schema is the fixed mapping between engine headings and result sections
type Schema struct {
	Header       string    `yaml:"header"`
	SummaryLabel string    `yaml:"summary_label"`
	Sections     []Section `yaml:"sections"`
}

// DefaultSchema covers both the patent-review and the startup-review prompt headings
func DefaultSchema() Schema {
	return Schema{
		Header:       "📝 특허 명세서 초안이 작성되었습니다!",
		SummaryLabel: "📋 기술 요약:",
		Sections: []Section{
			{
				Key:    entity.SectionCaseStudies,
				Label:  "📚 선행기술 분석:",
				Titles: []string{"선행기술 분석", "유사 사례"},
			},
			{
				Key:    entity.SectionFeasibility,
				Label:  "⚙️ 기술적 실현성:",
				Titles: []string{"기술적 실현성", "실현 가능성"},
			},
			{
				Key:    entity.SectionDevelopmentPlan,
				Label:  "📈 기술 발전성:",
				Titles: []string{"기술 발전성", "발전 방향"},
			},
			{
				Key:    entity.SectionImprovements,
				Label:  "🔧 보완 사항:",
				Titles: []string{"보완 사항", "개선 사항"},
			},
		},
	}
}

// Validate checks that every canonical section is described exactly once
func (s Schema) Validate() error {
	seen := make(map[entity.SectionKey]bool, len(s.Sections))
	titles := make(map[string]entity.SectionKey)

	for _, sec := range s.Sections {
		if !isKnownKey(sec.Key) {
			return fmt.Errorf("unknown section key %q", sec.Key)
		}
		if seen[sec.Key] {
			return fmt.Errorf("section %q declared twice", sec.Key)
		}
		seen[sec.Key] = true

		for _, title := range sec.Titles {
			if other, ok := titles[title]; ok {
				return fmt.Errorf("title %q mapped to both %q and %q", title, other, sec.Key)
			}
			titles[title] = sec.Key
		}
	}

	for _, key := range entity.SectionKeys {
		if !seen[key] {
			return fmt.Errorf("section %q is missing", key)
		}
	}

	return nil
}

// LoadSchema reads a YAML schema file. Empty fields fall back to DefaultSchema.
func LoadSchema(path string) (Schema, error) {
	def := DefaultSchema()

	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}

	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema file: %w", err)
	}

	if s.Header == "" {
		s.Header = def.Header
	}
	if s.SummaryLabel == "" {
		s.SummaryLabel = def.SummaryLabel
	}
	if len(s.Sections) == 0 {
		s.Sections = def.Sections
	}

	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("invalid schema %s: %w", path, err)
	}

	return s, nil
}

func isKnownKey(key entity.SectionKey) bool {
	for _, k := range entity.SectionKeys {
		if k == key {
			return true
		}
	}
	return false
}
