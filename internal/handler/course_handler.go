package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cristianvalmo/buscacursos-api/internal/dto"
	"github.com/cristianvalmo/buscacursos-api/internal/models"
	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
	"github.com/cristianvalmo/buscacursos-api/pkg/response"
)

type courseService interface {
	Lookup(ctx context.Context, q models.Query) ([]models.Section, error)
	LookupMany(ctx context.Context, codes []string, term string) ([]models.BatchItemResult, error)
	Semesters(ctx context.Context) ([]string, error)
	Vacancies(ctx context.Context, nrc, term string) ([]models.VacancyDistribution, error)
}

// CourseHandler wires the lookup service to HTTP endpoints.
type CourseHandler struct {
	service     courseService
	defaultTerm string
}

// NewCourseHandler constructs the handler. defaultTerm backs the
// convenience endpoints that allow omitting the term.
func NewCourseHandler(service courseService, defaultTerm string) *CourseHandler {
	return &CourseHandler{service: service, defaultTerm: defaultTerm}
}

// Search godoc
// @Summary Search course sections
// @Tags Courses
// @Produce json
// @Param code query string true "Course code (e.g. ICS2123)"
// @Param term query string true "Term (YYYY-S)"
// @Param professor query string false "Filter by professor (substring)"
// @Param campus query string false "Filter by campus (substring)"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	query := models.Query{
		Code:      req.Code,
		Term:      req.Term,
		Professor: req.Professor,
		Campus:    req.Campus,
	}.Normalize()

	sections, err := h.service.Lookup(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, sections, sectionsMessage(len(sections)), map[string]interface{}{
		"code":          query.Code,
		"term":          query.Term,
		"totalSections": len(sections),
	})
}

// Info godoc
// @Summary Course sections by code for the default term
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Param term query string false "Term (YYYY-S), defaults to the current one"
// @Success 200 {object} response.Envelope
// @Router /courses/info/{code} [get]
func (h *CourseHandler) Info(c *gin.Context) {
	code := c.Param("code")
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		term = h.defaultTerm
	}

	query := models.Query{Code: code, Term: term}.Normalize()
	sections, err := h.service.Lookup(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, sections, sectionsMessage(len(sections)), map[string]interface{}{
		"code":          query.Code,
		"term":          query.Term,
		"totalSections": len(sections),
	})
}

// Batch godoc
// @Summary Look up many courses in one request
// @Tags Courses
// @Accept json
// @Produce json
// @Param request body dto.BatchRequest true "Codes (1..20) and term"
// @Success 200 {object} response.Envelope
// @Router /courses/batch [post]
func (h *CourseHandler) Batch(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	results, err := h.service.LookupMany(c.Request.Context(), req.Codes, strings.TrimSpace(req.Term))
	if err != nil {
		response.Error(c, err)
		return
	}

	succeeded := 0
	totalSections := 0
	for _, item := range results {
		if item.Ok {
			succeeded++
			totalSections += len(item.Sections)
		}
	}

	message := fmt.Sprintf("%d of %d codes succeeded, %d sections total", succeeded, len(results), totalSections)
	response.OK(c, results, message, map[string]interface{}{
		"term":          strings.TrimSpace(req.Term),
		"requested":     len(results),
		"succeeded":     succeeded,
		"totalSections": totalSections,
	})
}

// Vacancies godoc
// @Summary Reserved-vacancy distribution for one NRC
// @Tags Courses
// @Produce json
// @Param nrc query string true "Section NRC"
// @Param term query string true "Term (YYYY-S)"
// @Success 200 {object} response.Envelope
// @Router /courses/vacancies [get]
func (h *CourseHandler) Vacancies(c *gin.Context) {
	var req dto.VacanciesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	vacancies, err := h.service.Vacancies(c.Request.Context(), req.NRC, req.Term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, vacancies, fmt.Sprintf("found %d vacancy buckets", len(vacancies)), map[string]interface{}{
		"nrc":  strings.TrimSpace(req.NRC),
		"term": strings.TrimSpace(req.Term),
	})
}

// Semesters godoc
// @Summary Terms currently offered by the catalog
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *CourseHandler) Semesters(c *gin.Context) {
	semesters, err := h.service.Semesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, semesters, fmt.Sprintf("found %d semesters", len(semesters)), map[string]interface{}{
		"total": len(semesters),
	})
}

func sectionsMessage(n int) string {
	if n == 0 {
		return "no sections found"
	}
	if n == 1 {
		return "found 1 section"
	}
	return fmt.Sprintf("found %d sections", n)
}
