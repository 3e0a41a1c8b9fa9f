package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianvalmo/buscacursos-api/internal/dto"
	"github.com/cristianvalmo/buscacursos-api/internal/models"
	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
	m.Run()
}

// envelope mirrors the wire contract for assertions.
type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Error   *appErrors.Error       `json:"error"`
	Meta    map[string]interface{} `json:"meta"`
}

type fakeCourseService struct {
	sections  []models.Section
	results   []models.BatchItemResult
	semesters []string
	vacancies []models.VacancyDistribution
	err       error

	lastQuery models.Query
	lastCodes []string
	lastTerm  string
}

func (f *fakeCourseService) Lookup(_ context.Context, q models.Query) ([]models.Section, error) {
	f.lastQuery = q
	return f.sections, f.err
}

func (f *fakeCourseService) LookupMany(_ context.Context, codes []string, term string) ([]models.BatchItemResult, error) {
	f.lastCodes = codes
	f.lastTerm = term
	return f.results, f.err
}

func (f *fakeCourseService) Semesters(context.Context) ([]string, error) {
	return f.semesters, f.err
}

func (f *fakeCourseService) Vacancies(_ context.Context, nrc, term string) ([]models.VacancyDistribution, error) {
	return f.vacancies, f.err
}

func newTestRouter(svc *fakeCourseService) *gin.Engine {
	h := NewCourseHandler(svc, "2026-1")
	r := gin.New()
	r.GET("/courses/search", h.Search)
	r.GET("/courses/info/:code", h.Info)
	r.POST("/courses/batch", h.Batch)
	r.GET("/courses/vacancies", h.Vacancies)
	r.GET("/semesters", h.Semesters)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func sampleSections() []models.Section {
	return []models.Section{{
		NRC:            "12345",
		Code:           "ICS2123",
		SectionNumber:  1,
		Title:          "Estructuras de Datos",
		Professor:      "Juan Perez",
		Campus:         "San Joaquin",
		Credits:        10,
		TotalSeats:     80,
		AvailableSeats: 15,
		Schedule: []models.ScheduleEntry{
			{Kind: models.KindLecture, Day: models.DayMonday, Modules: []int{1, 2}, Room: "A-101"},
		},
	}}
}

func TestSearchSuccessEnvelope(t *testing.T) {
	svc := &fakeCourseService{sections: sampleSections()}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet,
		"/courses/search?code=ics2123&term=2026-1&professor=perez", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, "found 1 section", env.Message)
	assert.Equal(t, "ICS2123", env.Meta["code"])
	assert.Equal(t, "2026-1", env.Meta["term"])
	assert.Equal(t, float64(1), env.Meta["totalSections"])

	var sections []models.Section
	require.NoError(t, json.Unmarshal(env.Data, &sections))
	assert.Equal(t, sampleSections(), sections)

	assert.Equal(t, "ICS2123", svc.lastQuery.Code, "code normalized before reaching the service")
	assert.Equal(t, "perez", svc.lastQuery.Professor)
}

func TestSearchMissingTermFailsValidation(t *testing.T) {
	svc := &fakeCourseService{}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/search?code=ICS2123", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSearchMalformedCodeFailsValidation(t *testing.T) {
	svc := &fakeCourseService{}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/search?code=12345&term=2026-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	svc := &fakeCourseService{sections: []models.Section{}}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/search?code=ICS2123&term=2026-1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "no sections found", env.Message)
	assert.Equal(t, float64(0), env.Meta["totalSections"])
}

func TestSearchServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name       string
		err        *appErrors.Error
		wantStatus int
		wantCode   string
	}{
		{"unreachable", appErrors.ErrUpstreamUnreachable, http.StatusServiceUnavailable, "UPSTREAM_UNREACHABLE"},
		{"blocked", appErrors.ErrUpstreamBlocked, http.StatusBadGateway, "UPSTREAM_BLOCKED"},
		{"parse", appErrors.ErrParse, http.StatusBadGateway, "PARSE_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeCourseService{err: tc.err}
			r := newTestRouter(svc)

			w, env := doRequest(t, r, http.MethodGet, "/courses/search?code=ICS2123&term=2026-1", "")

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantCode, env.Error.Code)
		})
	}
}

func TestInfoUsesDefaultTerm(t *testing.T) {
	svc := &fakeCourseService{sections: sampleSections()}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/info/ics2123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "2026-1", svc.lastQuery.Term)
	assert.Equal(t, "ICS2123", svc.lastQuery.Code)
	assert.Equal(t, "2026-1", env.Meta["term"])
}

func TestInfoHonorsExplicitTerm(t *testing.T) {
	svc := &fakeCourseService{sections: sampleSections()}
	r := newTestRouter(svc)

	_, _ = doRequest(t, r, http.MethodGet, "/courses/info/ICS2123?term=2025-2", "")

	assert.Equal(t, "2025-2", svc.lastQuery.Term)
}

func TestBatchEnvelopeCountsOutcomes(t *testing.T) {
	svc := &fakeCourseService{results: []models.BatchItemResult{
		{Code: "ICS2123", Ok: true, Sections: sampleSections()},
		{Code: "XXX0000", Ok: false, Sections: []models.Section{}, Error: "unrecognized course catalog page layout"},
		{Code: "MAT1610", Ok: true, Sections: sampleSections()},
	}}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodPost, "/courses/batch",
		`{"codes":["ICS2123","XXX0000","MAT1610"],"term":"2026-1"}`)

	assert.Equal(t, http.StatusOK, w.Code, "partial failure is still HTTP 200")
	assert.True(t, env.Success)
	assert.Equal(t, "2 of 3 codes succeeded, 2 sections total", env.Message)
	assert.Equal(t, float64(3), env.Meta["requested"])
	assert.Equal(t, float64(2), env.Meta["succeeded"])
	assert.Equal(t, float64(2), env.Meta["totalSections"])
	assert.Equal(t, []string{"ICS2123", "XXX0000", "MAT1610"}, svc.lastCodes)
	assert.Equal(t, "2026-1", svc.lastTerm)

	var results []models.BatchItemResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 3)
	assert.False(t, results[1].Ok)
	assert.NotEmpty(t, results[1].Error)
}

func TestBatchSizeErrorPassesThrough(t *testing.T) {
	svc := &fakeCourseService{err: appErrors.ErrInvalidBatchSize}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodPost, "/courses/batch", `{"codes":[],"term":"2026-1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_BATCH_SIZE", env.Error.Code)
}

func TestBatchMissingTermFailsValidation(t *testing.T) {
	svc := &fakeCourseService{}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodPost, "/courses/batch", `{"codes":["ICS2123"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestVacanciesEndpoint(t *testing.T) {
	svc := &fakeCourseService{vacancies: []models.VacancyDistribution{
		{School: "Ingenieria", Offered: 30, Occupied: 25, Available: 5},
	}}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/vacancies?nrc=12345&term=2026-1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "12345", env.Meta["nrc"])

	var vacancies []models.VacancyDistribution
	require.NoError(t, json.Unmarshal(env.Data, &vacancies))
	require.Len(t, vacancies, 1)
	assert.Equal(t, "Ingenieria", vacancies[0].School)
}

func TestVacanciesRejectsNonNumericNRC(t *testing.T) {
	svc := &fakeCourseService{}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/courses/vacancies?nrc=abc&term=2026-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSemestersEndpoint(t *testing.T) {
	svc := &fakeCourseService{semesters: []string{"2026-1", "2025-2"}}
	r := newTestRouter(svc)

	w, env := doRequest(t, r, http.MethodGet, "/semesters", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, float64(2), env.Meta["total"])

	var semesters []string
	require.NoError(t, json.Unmarshal(env.Data, &semesters))
	assert.Equal(t, []string{"2026-1", "2025-2"}, semesters)
}
