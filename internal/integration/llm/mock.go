package llm

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	"go.uber.org/zap"
)

// MockConnector returns canned engine output in the expected markdown layout
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Name() string  { return config.ProviderMock }
func (m *MockConnector) Model() string { return "mock" }

func (m *MockConnector) Summarize(ctx context.Context, answers *entity.AnswerMap) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating specification draft")

	idea, _ := answers.Get("idea")
	if idea == "" {
		idea = "제목 없는 발명"
	}

	return fmt.Sprintf(`# 발명의 명칭
%s

# 기술 분야
본 발명은 %s 분야에 관한 것이다.

# 배경 기술
- 종래 기술: 기존 방식은 수작업 의존도가 높다
- 문제점: %s
- 필요성: 자동화된 해결 수단이 요구된다

# 과제 해결 수단
- 구성: %s
- 특징: %s

# 발명의 효과
- 기술적 효과: %s
`,
		idea,
		valueOr(answers, "industry", "일반 산업"),
		valueOr(answers, "problem", "성능 한계"),
		valueOr(answers, "components", "센서와 제어부"),
		valueOr(answers, "difference", "성능 향상"),
		valueOr(answers, "effects", "효율 증가"),
	), nil
}

func (m *MockConnector) Critique(ctx context.Context, summary string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating draft review", zap.Int("summary_length", len(summary)))

	return `# 선행기술 분석
- KR10-2020-0000001: 유사한 센서 구성, 제어 방식에서 차이
- US 11,000,000: 데이터 처리 방식 상이

# 기술적 실현성
- 구현성: 현재 부품으로 구현 가능
- 완성도: 시제품 수준
- 검증: 장기 신뢰성 시험 필요

# 기술 발전성
- 응용: 의료 및 물류 분야로 확장 가능
- 최적화: 전력 소모 절감

# 보완 사항
- 청구항: 독립항의 구성요소를 구체화
- 도면: 블록도와 흐름도 추가
`, nil
}

func valueOr(answers *entity.AnswerMap, key, fallback string) string {
	if v, ok := answers.Get(key); ok && v != "" {
		return v
	}
	return fallback
}
