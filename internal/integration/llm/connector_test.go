package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	pkghttp "github.com/starlenz/patent-assistant/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.AnthropicConfig {
	return config.AnthropicConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Url:                   url,
		},
		APIKey:    "sk-test",
		Model:     "claude-3-haiku-20240307",
		Version:   "2023-06-01",
		MaxTokens: 4000,
		Endpoint:  "/v1/messages",
	}
}

func answersFixture() *entity.AnswerMap {
	m := entity.NewAnswerMap()
	m.Set("idea", "스마트 화분")
	m.Set("problem", "🔧 성능/효율성")
	m.Set("note", "추가 메모")
	return m
}

func TestSummarizeRequestShape(t *testing.T) {
	var got entity.AnthropicMessagesRequest
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","model":"claude-3-haiku-20240307","stop_reason":"end_turn",
			"content":[{"type":"text","text":"# 발명의 명칭\n스마트 화분"}]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL+"/"), zap.NewNop())
	text, err := c.Summarize(context.Background(), answersFixture())
	require.NoError(t, err)

	assert.Equal(t, "# 발명의 명칭\n스마트 화분", text)
	assert.Equal(t, "sk-test", headers.Get("X-Api-Key"))
	assert.Equal(t, "2023-06-01", headers.Get("Anthropic-Version"))

	assert.Equal(t, "claude-3-haiku-20240307", got.Model)
	assert.Equal(t, 4000, got.MaxTokens)
	assert.Equal(t, SummarySystemPrompt, got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)

	lines := strings.Split(got.Messages[0].Content, "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "기술 개요: 스마트 화분", lines[0])
	assert.Equal(t, "문제점: 🔧 성능/효율성", lines[1])
	assert.Equal(t, "개발상태: ", lines[9])
	assert.Equal(t, "note: 추가 메모", lines[10])
}

func TestCritiqueWrapsSummary(t *testing.T) {
	var got entity.AnthropicMessagesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"# 보완 사항\n- 도면 추가"}]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())
	text, err := c.Critique(context.Background(), "# 발명의 명칭\nX")
	require.NoError(t, err)

	assert.Equal(t, "# 보완 사항\n- 도면 추가", text)
	assert.Equal(t, CritiqueSystemPrompt, got.System)
	assert.Equal(t, "사업계획서 요약: # 발명의 명칭\nX", got.Messages[0].Content)
}

func TestEmptyResponseIsEngineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())
	_, err := c.Summarize(context.Background(), answersFixture())
	assert.ErrorIs(t, err, entity.ErrEmptyEngineResult)
}

func TestAPIErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"type":"error","error":{"type":"overloaded_error"}}`, 529)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())
	_, err := c.Critique(context.Background(), "summary")

	var httpErr *pkghttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 529, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMockConnectorFollowsLayout(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	summary, err := m.Summarize(context.Background(), answersFixture())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "# 발명의 명칭\n스마트 화분"))

	critique, err := m.Critique(context.Background(), summary)
	require.NoError(t, err)
	for _, title := range []string{"# 선행기술 분석", "# 기술적 실현성", "# 기술 발전성", "# 보완 사항"} {
		assert.Contains(t, critique, title)
	}
}

func TestSummaryUserPromptWithNilAnswers(t *testing.T) {
	lines := strings.Split(SummaryUserPrompt(nil), "\n")
	assert.Len(t, lines, len(answerLabels))
	assert.Equal(t, "기술 개요: ", lines[0])
}
