package llm

import (
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
)

// SummarySystemPrompt asks for a patent specification draft
const SummarySystemPrompt = `당신은 특허 명세서 작성 전문가입니다.
제공된 기술 정보를 바탕으로 체계적인 특허 명세서 초안을 작성해주세요.

다음 형식을 정확히 따라주세요:

# 발명의 명칭
[기술의 특징을 나타내는 간단명료한 제목]

# 기술 분야
[본 발명이 속하는 기술 분야 설명]

# 배경 기술
- 종래 기술: [기존 기술의 현황]
- 문제점: [해결하고자 하는 과제]
- 필요성: [본 발명의 필요성]

# 해결 과제
[본 발명이 해결하고자 하는 기술적 과제를 구체적으로 설명]

# 과제 해결 수단
- 구성: [주요 구성요소와 작동 원리]
- 특징: [기술적 특징과 차별점]
- 효과: [기대되는 기술적 효과]

# 발명의 효과
- 기술적 효과: [성능/효율 개선 등]
- 경제적 효과: [비용/생산성 측면]
- 산업적 효과: [적용 분야/시장성]

주의사항:
1. 각 섹션의 제목은 반드시 '# ' 으로 시작
2. 리스트 항목은 반드시 '- ' 으로 시작
3. 모든 내용은 들여쓰기 없이 작성
4. 빈 줄은 섹션 구분에만 사용
5. 기술 용어를 정확하게 사용
6. 구체적인 수치와 실시예 포함`

// CritiqueSystemPrompt asks for a patent examiner's review of the draft
const CritiqueSystemPrompt = `당신은 특허 심사 전문가입니다.

1단계에서 작성된 명세서 초안을 바탕으로 상세 분석을 수행하고 보완점을 제시해주세요.

다음 형식으로 응답해주세요:

# 선행기술 분석
- [기술 1]: 특허번호, 기술적 특징, 차이점
- [기술 2]: 특허번호, 기술적 특징, 차이점
- [기술 3]: 특허번호, 기술적 특징, 차이점

# 기술적 실현성
- 구현성: [기술적 구현 가능성]
- 완성도: [현재 기술 완성도]
- 검증: [필요한 시험/검증]
- 제약: [기술적 제약사항]

# 기술 발전성
- 개선점: [성능/효율 개선]
- 응용: [타 분야 적용]
- 확장: [기술 확장성]
- 최적화: [최적화 방안]

# 보완 사항
- 명세서: [명세서 보완점]
- 청구항: [권리범위 조정]
- 도면: [도면 보완사항]
- 실시예: [실시예 추가]

주의사항:
1. 각 섹션은 반드시 '# '으로 시작
2. 모든 항목은 반드시 '- '으로 시작
3. 빈 줄은 섹션 구분에만 사용
4. 실제 특허 사례와 기술 동향을 반영하여 구체적인 분석 제시`

// answerLabels maps answer keys to the labels the summary prompt uses, in prompt order
var answerLabels = []struct {
	key   string
	label string
}{
	{"idea", "기술 개요"},
	{"problem", "문제점"},
	{"mechanism", "작동원리"},
	{"difference", "차별점"},
	{"components", "구성요소"},
	{"effects", "기술효과"},
	{"limitations", "기술한계"},
	{"industry", "산업분야"},
	{"specifications", "물리특성"},
	{"status", "개발상태"},
}

// SummaryUserPrompt lists the answers one per line. Known keys get their
// Korean label, missing ones are left blank, extra keys follow verbatim.
func SummaryUserPrompt(answers *entity.AnswerMap) string {
	known := make(map[string]bool, len(answerLabels))
	lines := make([]string, 0, len(answerLabels)+answers.Len())

	for _, al := range answerLabels {
		known[al.key] = true
		v, _ := answers.Get(al.key)
		lines = append(lines, al.label+": "+v)
	}
	for _, k := range answers.Keys() {
		if known[k] {
			continue
		}
		v, _ := answers.Get(k)
		lines = append(lines, k+": "+v)
	}

	return strings.Join(lines, "\n")
}

// CritiqueUserPrompt wraps the summary for the review stage
func CritiqueUserPrompt(summary string) string {
	return "사업계획서 요약: " + summary
}
