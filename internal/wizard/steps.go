package wizard

// Terminal marks the last collection step. Submitting it starts the analysis.
const Terminal = -1

// CustomInputOption is offered next to the fixed options of every keyboard step
const CustomInputOption = "✨ 직접 입력"

// Step is one question of the wizard
type Step struct {
	// Name is the answer key
	Name   string
	Prompt string
	// Options are selectable answers. Empty means free text only.
	// They are shortcuts, answers are never checked against them.
	Options [][]string
	// Next is the index of the following step or Terminal
	Next int
}

// Step names in collection order
const (
	StepIdea           = "idea"
	StepProblem        = "problem"
	StepMechanism      = "mechanism"
	StepDifference     = "difference"
	StepComponents     = "components"
	StepEffects        = "effects"
	StepLimitations    = "limitations"
	StepIndustry       = "industry"
	StepSpecifications = "specifications"
	StepStatus         = "status"
)

func options(rows ...[]string) [][]string {
	return append(rows, []string{CustomInputOption})
}

// DefaultSteps returns the invention questionnaire
func DefaultSteps() []Step {
	steps := []Step{
		{
			Name: StepIdea,
			Prompt: `💡 발명하신 기술을 간단히 설명해주세요.

TIP: 핵심 기능과 특징을 중심으로 설명해주세요.
예시: "스마트폰 화면 지문인식 기술", "AI 기반 실시간 번역 시스템"`,
		},
		{
			Name: StepProblem,
			Prompt: `❗ 해결하고자 하는 기술적 문제점은 무엇인가요?

TIP: 기존 기술의 한계나 개선이 필요한 부분을 설명해주세요.`,
			Options: options(
				[]string{"🔧 성능/효율성", "💡 기술적 한계"},
				[]string{"⚡ 에너지/자원", "🔒 보안/안전성"},
				[]string{"💰 비용/생산성", "🌍 환경 영향"},
			),
		},
		{
			Name: StepMechanism,
			Prompt: `⚙️ 핵심 작동 원리와 메커니즘을 설명해주세요.

TIP: 기술의 동작 과정과 주요 구성요소를 설명해주세요.`,
			Options: options(
				[]string{"⚙️ 기계/물리", "🔌 전기/전자"},
				[]string{"💻 소프트웨어", "🤖 AI/데이터"},
				[]string{"🧪 화학/생물", "📡 통신/네트워크"},
			),
		},
		{
			Name: StepDifference,
			Prompt: `✨ 기존 기술과 비교했을 때의 차별점은 무엇인가요?

TIP: 기술적 우위성과 혁신성을 중심으로 설명해주세요.`,
			Options: options(
				[]string{"📈 성능 향상", "💰 비용 절감"},
				[]string{"⚡ 효율 개선", "🔒 안전성 강화"},
				[]string{"🌟 혁신 기술", "♻️ 지속가능성"},
			),
		},
		{
			Name: StepComponents,
			Prompt: `🔧 주요 구성요소와 세부 작동 방식을 설명해주세요.

TIP: 각 부품/모듈의 기능과 상호작용을 설명해주세요.`,
			Options: options(
				[]string{"🔧 기계 부품", "🔌 전자 부품"},
				[]string{"💾 제어 장치", "📱 인터페이스"},
				[]string{"🧮 프로세서", "💽 저장 장치"},
			),
		},
		{
			Name: StepEffects,
			Prompt: `📈 본 기술 적용시 얻을 수 있는 효과는 무엇인가요?

TIP: 정량적/정성적 개선 효과를 설명해주세요.`,
			Options: options(
				[]string{"⚡ 효율 증가", "💰 비용 감소"},
				[]string{"🔒 안전성 향상", "♻️ 환경 개선"},
				[]string{"📈 성능 향상", "🌟 품질 개선"},
			),
		},
		{
			Name: StepLimitations,
			Prompt: `⚠️ 예상되는 기술적 한계나 제약사항은 무엇인가요?

TIP: 현재 해결이 필요한 문제점을 설명해주세요.`,
			Options: options(
				[]string{"💰 높은 비용", "⚡ 전력 소비"},
				[]string{"🌡️ 온도 제약", "⏱️ 처리 속도"},
				[]string{"🔒 보안 위험", "🔧 유지보수"},
			),
		},
		{
			Name: StepIndustry,
			Prompt: `🏭 적용 가능한 산업분야는 어디인가요?

TIP: 구체적인 활용 분야와 시장을 설명해주세요.`,
			Options: options(
				[]string{"🏭 제조/생산", "🔌 전기/전자"},
				[]string{"🚗 자동차/운송", "🏥 의료/바이오"},
				[]string{"🌍 환경/에너지", "🤖 IT/소프트웨어"},
			),
		},
		{
			Name: StepSpecifications,
			Prompt: `📐 기술의 물리적 특성 및 상세 스펙을 설명해주세요.

TIP: 크기, 성능, 정확도 등 수치화 가능한 특성을 설명해주세요.`,
			Options: options(
				[]string{"📏 크기/무게", "⚡ 전력/성능"},
				[]string{"🌡️ 온도/환경", "⏱️ 속도/정확도"},
				[]string{"🔧 내구성/수명", "🔌 호환성/규격"},
			),
		},
		{
			Name: StepStatus,
			Prompt: `🔍 현재 기술의 개발 진행 상태는 어떠한가요?

TIP: 개발 단계와 검증 현황을 설명해주세요.`,
			Options: options(
				[]string{"💡 개념 설계", "📝 상세 설계"},
				[]string{"🛠️ 시제품 제작", "🔬 성능 검증"},
				[]string{"📊 시험 평가", "📋 특허 출원"},
			),
		},
	}

	return Chain(steps)
}

// Chain links steps in slice order, the last one becoming terminal
func Chain(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	for i := range out {
		out[i].Next = i + 1
	}
	if len(out) > 0 {
		out[len(out)-1].Next = Terminal
	}
	return out
}

// validateSteps checks that the chain is linear from index 0 to a single terminal step
func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return errNoSteps
	}

	seen := make(map[string]bool, len(steps))
	visited := make(map[int]bool, len(steps))
	idx := 0
	for idx != Terminal {
		if idx < 0 || idx >= len(steps) {
			return errBrokenChain
		}
		if visited[idx] {
			return errBrokenChain
		}
		visited[idx] = true

		step := steps[idx]
		if step.Name == "" || seen[step.Name] {
			return errDuplicateStep
		}
		seen[step.Name] = true
		idx = step.Next
	}

	if len(visited) != len(steps) {
		return errBrokenChain
	}
	return nil
}
