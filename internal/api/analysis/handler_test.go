package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisID = "6f1c1a2e-5d7b-4c1e-9a55-3f2b8d0c9e11"

type fakeUsecase struct {
	analyses  map[string]*entity.Analysis
	listErr   error
	exportErr error

	gotUser  string
	gotLimit int
}

func (f *fakeUsecase) GetAnalysis(_ context.Context, id string) (*entity.Analysis, error) {
	a, ok := f.analyses[id]
	if !ok {
		return nil, entity.ErrAnalysisNotFound
	}
	return a, nil
}

func (f *fakeUsecase) ListUserAnalyses(_ context.Context, userID string, limit int) ([]*entity.Analysis, error) {
	f.gotUser = userID
	f.gotLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Analysis
	for _, a := range f.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeUsecase) Export(_ context.Context, id string, format entity.ResultFormat) (*analysis.Export, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	if _, ok := f.analyses[id]; !ok {
		return nil, entity.ErrAnalysisNotFound
	}
	return &analysis.Export{
		Filename:    "draft." + string(format),
		ContentType: "text/markdown; charset=utf-8",
		Data:        []byte("# draft\n"),
	}, nil
}

func (f *fakeUsecase) Render(rec *entity.ResultRecord) string {
	return "rendered:" + rec.Summary
}

func newFixture() *fakeUsecase {
	input := entity.NewAnswerMap()
	input.Set("idea", "스마트 화분")
	rec := entity.NewResultRecord(input)
	rec.Summary = "요약"

	return &fakeUsecase{analyses: map[string]*entity.Analysis{
		analysisID: {
			ID:        analysisID,
			UserID:    "42",
			Input:     input,
			Result:    rec,
			CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		},
	}}
}

func serve(uc AnalysisUsecase, method, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestListUserAnalyses(t *testing.T) {
	uc := newFixture()

	rec := serve(uc, http.MethodGet, "/users/42/analyses?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", uc.gotUser)
	assert.Equal(t, 3, uc.gotLimit)

	var body entity.ListAnalysesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Analyses, 1)
	assert.Equal(t, "스마트 화분", body.Analyses[0].Title)
	assert.Equal(t, "2026-02-03T04:05:06Z", body.Analyses[0].CreatedAt)
}

func TestListUserAnalysesEmptyIsArray(t *testing.T) {
	rec := serve(newFixture(), http.MethodGet, "/users/7/analyses")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analyses":[]}`, rec.Body.String())
}

func TestListUserAnalysesErrors(t *testing.T) {
	tests := []struct {
		name string
		uc   *fakeUsecase
		path string
		want int
	}{
		{"bad limit", newFixture(), "/users/42/analyses?limit=abc", http.StatusBadRequest},
		{"zero limit", newFixture(), "/users/42/analyses?limit=0", http.StatusBadRequest},
		{"no storage", &fakeUsecase{listErr: entity.ErrStorageUnavailable}, "/users/42/analyses", http.StatusServiceUnavailable},
		{"invalid user", &fakeUsecase{listErr: entity.ErrInvalidParameter}, "/users/42/analyses", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.uc, http.MethodGet, tt.path)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusText(tt.want), body["error"])
		})
	}
}

func TestGetAnalysis(t *testing.T) {
	rec := serve(newFixture(), http.MethodGet, "/analyses/"+analysisID)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID     string            `json:"id"`
		Input  map[string]string `json:"input_data"`
		Result struct {
			Summary     string   `json:"summary"`
			CaseStudies []string `json:"case_studies"`
		} `json:"result"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, analysisID, body.ID)
	assert.Equal(t, "스마트 화분", body.Input["idea"])
	assert.Equal(t, "요약", body.Result.Summary)
	assert.NotNil(t, body.Result.CaseStudies)
	assert.Equal(t, "rendered:요약", body.Text)
}

func TestGetAnalysisNotFound(t *testing.T) {
	rec := serve(newFixture(), http.MethodGet, "/analyses/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportAnalysis(t *testing.T) {
	rec := serve(newFixture(), http.MethodGet, "/analyses/"+analysisID+"/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="draft.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# draft\n", rec.Body.String())
}

func TestExportAnalysisErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"format", entity.ErrUnsupportedFormat, http.StatusBadRequest},
		{"font", formatter.ErrFontUnavailable, http.StatusServiceUnavailable},
		{"not found", entity.ErrAnalysisNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newFixture()
			uc.exportErr = tt.err
			rec := serve(uc, http.MethodGet, "/analyses/"+analysisID+"/export?format=pdf")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
