package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaIsValid(t *testing.T) {
	require.NoError(t, DefaultSchema().Validate())
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Schema)
		errMsg string
	}{
		{
			name:   "unknown key",
			mutate: func(s *Schema) { s.Sections[0].Key = "claims" },
			errMsg: "unknown section key",
		},
		{
			name:   "duplicate key",
			mutate: func(s *Schema) { s.Sections[1].Key = s.Sections[0].Key },
			errMsg: "declared twice",
		},
		{
			name:   "title mapped twice",
			mutate: func(s *Schema) { s.Sections[1].Titles = append(s.Sections[1].Titles, "유사 사례") },
			errMsg: "mapped to both",
		},
		{
			name:   "missing section",
			mutate: func(s *Schema) { s.Sections = s.Sections[:3] },
			errMsg: "is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchema()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	data := `
header: "결과"
sections:
  - key: case_studies
    label: "A:"
    titles: ["Prior Art"]
  - key: feasibility
    label: "B:"
    titles: ["Feasibility"]
  - key: development_plan
    label: "C:"
    titles: ["Roadmap"]
  - key: improvements
    label: "D:"
    titles: ["Fixes"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "결과", s.Header)
	assert.Equal(t, DefaultSchema().SummaryLabel, s.SummaryLabel)

	m := New(s)
	key, ok := m.SectionKey("Roadmap")
	require.True(t, ok)
	assert.Equal(t, entity.SectionDevelopmentPlan, key)

	_, ok = m.SectionKey("기술 발전성")
	assert.False(t, ok)
}

func TestLoadSchemaErrors(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - key: nope\n"), 0o600))
	_, err = LoadSchema(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section key")
}
