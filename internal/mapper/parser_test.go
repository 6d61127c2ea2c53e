package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(kv ...string) *entity.AnswerMap {
	m := entity.NewAnswerMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

func TestBuildExampleScenario(t *testing.T) {
	m := NewDefault()
	in := answers("idea", "X", "problem", "Y")

	rec := m.Build(in, "# 제목\n한줄\n", "# 유사 사례\n- 사례1: 특징\n")

	got := make([]string, 0, len(rec.CaseStudies))
	for _, e := range rec.CaseStudies {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"# 사례1", "- 특징"}, got)
	assert.Equal(t, "# 제목\n한줄", rec.Summary)
	assert.Equal(t, []string{"idea", "problem"}, rec.Input.Keys())

	out := m.Render(rec)
	assert.Contains(t, out, "📍 제목\n한줄")
}

func TestParseSectionsAllKnownHeadings(t *testing.T) {
	raw := `# 선행기술 분석
- KR-1: 특징 A
- 차이점 없음

# 기술적 실현성:
- 구현성: 높음
- 완성도:

# 기술 발전성
- 응용: 의료

# 보완 사항
도면 추가 필요
`
	sections := NewDefault().ParseSections(raw)

	want := map[entity.SectionKey][]entity.Entry{
		entity.SectionCaseStudies: {
			entity.Heading("KR-1"), entity.Bullet("특징 A"), entity.Bullet("차이점 없음"),
		},
		entity.SectionFeasibility: {
			entity.Heading("구현성"), entity.Bullet("높음"), entity.Heading("완성도"),
		},
		entity.SectionDevelopmentPlan: {
			entity.Heading("응용"), entity.Bullet("의료"),
		},
		entity.SectionImprovements: {
			entity.Text("도면 추가 필요"),
		},
	}
	if diff := cmp.Diff(want, sections); diff != "" {
		t.Errorf("ParseSections mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildZeroHeadings(t *testing.T) {
	rec := NewDefault().Build(entity.NewAnswerMap(), "요약", "그냥 텍스트\n- 항목\n")

	for _, key := range entity.SectionKeys {
		require.NotNil(t, rec.Section(key), key)
		assert.Empty(t, rec.Section(key), key)
	}
}

func TestUnknownHeadingContributesNothing(t *testing.T) {
	raw := "# 잡담\n- 의미 없는 항목\n# 보완 사항\n- 청구항 정리\n# 추가 의견\n- 무시"
	rec := NewDefault().Build(entity.NewAnswerMap(), "", raw)

	assert.Empty(t, rec.CaseStudies)
	assert.Empty(t, rec.Feasibility)
	assert.Empty(t, rec.DevelopmentPlan)
	assert.Equal(t, []entity.Entry{entity.Bullet("청구항 정리")}, rec.Improvements)
}

func TestHeadingMatchingCasingAndSpacing(t *testing.T) {
	m := New(Schema{
		Header:       "H",
		SummaryLabel: "S",
		Sections: []Section{
			{Key: entity.SectionCaseStudies, Label: "A", Titles: []string{"Prior Art"}},
			{Key: entity.SectionFeasibility, Label: "B", Titles: []string{"Feasibility"}},
			{Key: entity.SectionDevelopmentPlan, Label: "C", Titles: []string{"Roadmap"}},
			{Key: entity.SectionImprovements, Label: "D", Titles: []string{"Fixes"}},
		},
	})

	tests := []struct {
		name string
		raw  string
		key  entity.SectionKey
		want bool
	}{
		{"exact", "# Prior Art\n- a", entity.SectionCaseStudies, true},
		{"trailing colon", "# Prior Art:\n- a", entity.SectionCaseStudies, true},
		{"extra inner spaces around marker", "#   Prior Art  \n- a", entity.SectionCaseStudies, true},
		{"indented heading", "   # Prior Art\n- a", entity.SectionCaseStudies, true},
		{"different casing", "# prior art\n- a", entity.SectionCaseStudies, false},
		{"no space after hash", "#Prior Art\n- a", entity.SectionCaseStudies, false},
		{"double hash", "## Prior Art\n- a", entity.SectionCaseStudies, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ParseSections(tt.raw)
			_, ok := got[tt.key]
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestHeadingWithoutBodyStaysEmpty(t *testing.T) {
	rec := NewDefault().Build(nil, "", "# 선행기술 분석\n\n# 보완 사항\n- x")
	assert.Empty(t, rec.CaseStudies)
	assert.Len(t, rec.Improvements, 1)
}

func TestDuplicateHeadingKeepsLast(t *testing.T) {
	rec := NewDefault().Build(nil, "", "# 보완 사항\n- first\n# 보완 사항\n- second")
	assert.Equal(t, []entity.Entry{entity.Bullet("second")}, rec.Improvements)
}

func TestNormalizeBody(t *testing.T) {
	got := NormalizeBody([]string{
		"- 종래 기술: 기존 방식, 비용: 높음",
		"- : 값만",
		"# 소제목:",
		"",
		"  그냥 문장  ",
		"-붙은 대시",
	})

	want := []entity.Entry{
		entity.Heading("종래 기술"),
		entity.Bullet("기존 방식, 비용: 높음"),
		entity.Bullet("값만"),
		entity.Heading("소제목:"),
		entity.Text("그냥 문장"),
		entity.Text("-붙은 대시"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeBody mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSummary(t *testing.T) {
	assert.Equal(t, "# 발명의 명칭\n스마트 센서\n- 구성: A",
		NormalizeSummary("\r\n# 발명의 명칭\r\n   스마트 센서  \n\n- 구성: A\n\n"))
	assert.Equal(t, "", NormalizeSummary("   \n\n"))
}
