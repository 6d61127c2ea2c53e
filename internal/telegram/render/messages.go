package render

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
)

const (
	ErrGeneric            = "❌ 오류가 발생했습니다. 다시 시도하거나 /start 를 눌러주세요."
	ErrTimeout            = "⏱ 응답 시간이 초과되었습니다. 잠시 후 다시 시도해주세요."
	ErrNetworkIssue       = "🌐 네트워크 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
	ErrStorageUnavailable = "🗄 저장소를 사용할 수 없어 파일을 만들 수 없습니다."
	ErrAnalysisNotFound   = "🔍 분석 결과를 찾을 수 없습니다."
	ErrExportFormat       = "📎 지원하지 않는 파일 형식입니다."
	ErrExportUnavailable  = "📎 지금은 이 형식으로 파일을 만들 수 없습니다."
	ErrInvalidCallback    = "❌ 잘못된 요청입니다."

	MsgPreparingFile = "⏳ 파일을 준비하고 있습니다..."
	MsgTextOnly      = "✍️ 텍스트로 답변해주세요."

	MsgRateLimitFirst  = "⚠️ 요청이 너무 많습니다. 잠시만 기다려주세요."
	MsgRateLimitSecond = "⚠️ 요청 한도를 초과했습니다. 30초 정도 기다린 후 다시 시도해주세요."
	MsgRateLimitFinal  = "🛑 요청이 너무 잦습니다. 1분 후에 다시 시도해주세요."
)

// ClassifyError maps an error to a user-facing message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrStorageUnavailable):
		return ErrStorageUnavailable
	case errors.Is(err, entity.ErrAnalysisNotFound), errors.Is(err, entity.ErrInvalidParameter):
		return ErrAnalysisNotFound
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return ErrExportFormat
	case errors.Is(err, formatter.ErrFontUnavailable):
		return ErrExportUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	if strings.Contains(err.Error(), "connection refused") {
		return ErrNetworkIssue
	}

	return ErrGeneric
}
