package analysis

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/mapper"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
	"github.com/starlenz/patent-assistant/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	summary     string
	critique    string
	summaryErr  error
	critiqueErr error

	gotSummary string
	critiqued  bool
}

func (e *fakeEngine) Name() string  { return "fake" }
func (e *fakeEngine) Model() string { return "fake-1" }

func (e *fakeEngine) Summarize(context.Context, *entity.AnswerMap) (string, error) {
	return e.summary, e.summaryErr
}

func (e *fakeEngine) Critique(_ context.Context, summary string) (string, error) {
	e.critiqued = true
	e.gotSummary = summary
	return e.critique, e.critiqueErr
}

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Analysis
	clock time.Time
}

var _ repository.AnalysisRepository = &memoryRepo{}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		items: make(map[string]*entity.Analysis),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) Create(_ context.Context, a entity.Analysis) (*entity.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Minute)
	a.CreatedAt = r.clock
	r.items[a.ID] = &a
	return &a, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*entity.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, entity.ErrAnalysisNotFound
	}
	return a, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string, limit int) ([]*entity.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Analysis
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestUsecase(engine Engine, repo repository.AnalysisRepository) *AnalysisUsecase {
	return NewUsecase(engine, mapper.NewDefault(), repo, formatter.NewFactory())
}

func sampleAnswers() *entity.AnswerMap {
	m := entity.NewAnswerMap()
	m.Set("idea", "스마트 화분")
	m.Set("problem", "물 주기")
	return m
}

func TestAnalyzeBuildsRecord(t *testing.T) {
	engine := &fakeEngine{
		summary:  "# 발명의 명칭\n스마트 화분\n",
		critique: "# 선행기술 분석\n- KR-1: 토양 센서\n# 보완 사항\n- 도면 추가\n",
	}
	uc := newTestUsecase(engine, newMemoryRepo())

	rec, err := uc.Analyze(context.Background(), sampleAnswers())
	require.NoError(t, err)

	assert.Equal(t, engine.summary, engine.gotSummary)
	assert.Equal(t, "# 발명의 명칭\n스마트 화분", rec.Summary)
	assert.Equal(t, []entity.Entry{entity.Heading("KR-1"), entity.Bullet("토양 센서")}, rec.CaseStudies)
	assert.Equal(t, []entity.Entry{entity.Bullet("도면 추가")}, rec.Improvements)
	assert.Empty(t, rec.Feasibility)
	assert.Equal(t, []string{"idea", "problem"}, rec.Input.Keys())
}

func TestAnalyzeEngineFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		engine       *fakeEngine
		wantErr      error
		wantCritique bool
	}{
		{"summary error", &fakeEngine{summaryErr: boom}, boom, false},
		{"empty summary", &fakeEngine{summary: "  \n"}, entity.ErrEmptyEngineResult, false},
		{"critique error", &fakeEngine{summary: "s", critiqueErr: boom}, boom, true},
		{"empty critique", &fakeEngine{summary: "s", critique: ""}, entity.ErrEmptyEngineResult, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUsecase(tt.engine, newMemoryRepo())
			rec, err := uc.Analyze(context.Background(), sampleAnswers())
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCritique, tt.engine.critiqued)
		})
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := newMemoryRepo()
	uc := newTestUsecase(&fakeEngine{}, repo)
	ctx := context.Background()

	rec := entity.NewResultRecord(sampleAnswers())
	id, err := uc.Save(ctx, "42", sampleAnswers(), rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := uc.GetAnalysis(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", got.UserID)
	assert.Same(t, rec, got.Result)
}

func TestSaveWithoutStorage(t *testing.T) {
	uc := newTestUsecase(&fakeEngine{}, repository.UnavailableRepository{})
	_, err := uc.Save(context.Background(), "42", sampleAnswers(), entity.NewResultRecord(nil))
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
}

func TestGetAnalysisRejectsBadID(t *testing.T) {
	uc := newTestUsecase(&fakeEngine{}, newMemoryRepo())
	_, err := uc.GetAnalysis(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestListUserAnalysesLimits(t *testing.T) {
	repo := newMemoryRepo()
	uc := newTestUsecase(&fakeEngine{}, repo)
	ctx := context.Background()

	var last string
	for i := 0; i < 7; i++ {
		id, err := uc.Save(ctx, "42", sampleAnswers(), entity.NewResultRecord(nil))
		require.NoError(t, err)
		last = id
	}
	_, err := uc.Save(ctx, "7", sampleAnswers(), entity.NewResultRecord(nil))
	require.NoError(t, err)

	list, err := uc.ListUserAnalyses(ctx, "42", 0)
	require.NoError(t, err)
	require.Len(t, list, DefaultListLimit)
	assert.Equal(t, last, list[0].ID)

	list, err = uc.ListUserAnalyses(ctx, "42", 100)
	require.NoError(t, err)
	assert.Len(t, list, 7)

	_, err = uc.ListUserAnalyses(ctx, " ", 5)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestExportMarkdown(t *testing.T) {
	repo := newMemoryRepo()
	uc := newTestUsecase(&fakeEngine{}, repo)
	ctx := context.Background()

	rec := entity.NewResultRecord(sampleAnswers())
	rec.Summary = "# 발명의 명칭\n스마트 화분"
	rec.Improvements = []entity.Entry{entity.Bullet("도면 추가")}
	id, err := uc.Save(ctx, "42", sampleAnswers(), rec)
	require.NoError(t, err)

	exp, err := uc.Export(ctx, id, entity.FormatMarkdown)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(exp.Filename, "patent-draft-20260101-"))
	assert.True(t, strings.HasSuffix(exp.Filename, ".md"))
	assert.Equal(t, "text/markdown; charset=utf-8", exp.ContentType)
	assert.Contains(t, string(exp.Data), "### 발명의 명칭")
	assert.Contains(t, string(exp.Data), "- 도면 추가")
}

func TestExportErrors(t *testing.T) {
	repo := newMemoryRepo()
	uc := newTestUsecase(&fakeEngine{}, repo)
	ctx := context.Background()

	_, err := uc.Export(ctx, "00000000-0000-0000-0000-000000000000", "txt")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)

	_, err = uc.Export(ctx, "00000000-0000-0000-0000-000000000000", entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrAnalysisNotFound)

	id, err := uc.Save(ctx, "42", sampleAnswers(), entity.NewResultRecord(nil))
	require.NoError(t, err)
	_, err = uc.Export(ctx, id, entity.FormatPDF)
	assert.ErrorIs(t, err, formatter.ErrFontUnavailable)
}
