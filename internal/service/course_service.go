package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cristianvalmo/buscacursos-api/internal/cache"
	"github.com/cristianvalmo/buscacursos-api/internal/models"
	"github.com/cristianvalmo/buscacursos-api/internal/scraper"
	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

// maxConcurrentLookups bounds batch fan-out. The upstream tolerates only so
// much parallelism before its anti-bot layer reacts, so this stays a fixed
// constant rather than a tunable.
const maxConcurrentLookups = 5

const defaultMaxBatchSize = 20

// catalogFetcher is the fingerprinted client as the service sees it.
type catalogFetcher interface {
	SearchCourses(ctx context.Context, code, term string) (string, error)
	SemestersPage(ctx context.Context) (string, error)
	VacanciesPage(ctx context.Context, nrc, term string) (string, error)
}

var nrcPattern = regexp.MustCompile(`^\d+$`)

// CourseServiceConfig tunes lookup behaviour.
type CourseServiceConfig struct {
	CacheTTL     time.Duration
	MaxBatchSize int
	CacheBackend string
}

// CourseService orchestrates fetch, parse, cache and filtering for course
// lookups, and fans batches out over a bounded worker set.
type CourseService struct {
	fetcher catalogFetcher
	store   cache.Store
	metrics *MetricsService
	logger  *zap.Logger
	cfg     CourseServiceConfig
}

// CourseServiceParams groups constructor dependencies.
type CourseServiceParams struct {
	Fetcher catalogFetcher
	Store   cache.Store
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  CourseServiceConfig
}

// NewCourseService constructs a CourseService with sane defaults.
func NewCourseService(params CourseServiceParams) *CourseService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		fetcher: params.Fetcher,
		store:   params.Store,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Lookup resolves one (code, term) query: cache first, then fetch and
// parse. The cache always holds the full unfiltered section set keyed by
// code+term; professor/campus filters apply to the in-memory copy only, so
// filtered and unfiltered queries share one cached fetch. An empty result
// is success, not an error; callers tell "no such course" from failure by
// the error kind.
func (s *CourseService) Lookup(ctx context.Context, q models.Query) ([]models.Section, error) {
	q = q.Normalize()
	if !models.ValidCode(q.Code) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("invalid course code %q: expected 3 letters, 3-4 digits and an optional letter", q.Code))
	}
	if !models.ValidTerm(q.Term) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("invalid term %q: expected YYYY-S", q.Term))
	}

	key := courseKey(q.Code, q.Term)

	var cached []models.Section
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	s.metrics.RecordCacheOperation(hit)
	if hit {
		return applyFilters(cached, q), nil
	}

	sections, err := s.fetchSections(ctx, q.Code, q.Term)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, sections, s.cfg.CacheTTL); err != nil {
		// a cold cache is degraded service, not a failed lookup
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return applyFilters(sections, q), nil
}

func (s *CourseService) fetchSections(ctx context.Context, code, term string) ([]models.Section, error) {
	start := time.Now()
	body, err := s.fetcher.SearchCourses(ctx, code, term)
	s.metrics.ObserveUpstreamFetch("search", outcomeOf(err), time.Since(start))
	if err != nil {
		s.logger.Warn("catalog fetch failed",
			zap.String("code", code), zap.String("term", term), zap.Error(err))
		return nil, err
	}

	sections, err := scraper.ParseSections(body)
	if err != nil {
		s.logger.Error("catalog page layout not recognized",
			zap.String("code", code), zap.String("term", term), zap.Error(err))
		return nil, err
	}

	s.logger.Info("catalog fetch",
		zap.String("code", code), zap.String("term", term), zap.Int("sections", len(sections)))
	return sections, nil
}

// LookupMany runs one Lookup per code under a single term, bounded-parallel.
// Batch size is validated before any fetch; past that point every failure is
// captured per item and never aborts siblings. The result slice mirrors the
// input order position by position, so duplicate codes each get their own
// slot and their own lookup.
func (s *CourseService) LookupMany(ctx context.Context, codes []string, term string) ([]models.BatchItemResult, error) {
	if len(codes) == 0 || len(codes) > s.cfg.MaxBatchSize {
		return nil, appErrors.Clone(appErrors.ErrInvalidBatchSize,
			fmt.Sprintf("batch must contain between 1 and %d course codes, got %d", s.cfg.MaxBatchSize, len(codes)))
	}

	results := make([]models.BatchItemResult, len(codes))
	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sections, err := s.Lookup(ctx, models.Query{Code: code, Term: term})
			if err != nil {
				results[i] = models.BatchItemResult{
					Code:     strings.ToUpper(strings.TrimSpace(code)),
					Ok:       false,
					Sections: []models.Section{},
					Error:    err.Error(),
				}
				return
			}
			results[i] = models.BatchItemResult{
				Code:     strings.ToUpper(strings.TrimSpace(code)),
				Ok:       true,
				Sections: sections,
			}
		}(i, code)
	}

	wg.Wait()
	return results, nil
}

// Semesters lists the terms the catalog currently offers, newest first as
// published in its dropdown.
func (s *CourseService) Semesters(ctx context.Context) ([]string, error) {
	const key = "semesters"

	var cached []string
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	s.metrics.RecordCacheOperation(hit)
	if hit {
		return cached, nil
	}

	start := time.Now()
	body, err := s.fetcher.SemestersPage(ctx)
	s.metrics.ObserveUpstreamFetch("semesters", outcomeOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	semesters, err := scraper.ParseSemesters(body)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, semesters, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return semesters, nil
}

// Vacancies returns the reserved-seat distribution for one NRC.
func (s *CourseService) Vacancies(ctx context.Context, nrc, term string) ([]models.VacancyDistribution, error) {
	nrc = strings.TrimSpace(nrc)
	term = strings.TrimSpace(term)
	if !nrcPattern.MatchString(nrc) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid NRC %q: expected digits", nrc))
	}
	if !models.ValidTerm(term) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid term %q: expected YYYY-S", term))
	}

	key := "vacancies:" + nrc + ":" + term

	var cached []models.VacancyDistribution
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	s.metrics.RecordCacheOperation(hit)
	if hit {
		return cached, nil
	}

	start := time.Now()
	body, err := s.fetcher.VacanciesPage(ctx, nrc, term)
	s.metrics.ObserveUpstreamFetch("vacancies", outcomeOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	vacancies, err := scraper.ParseVacancies(body)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, vacancies, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return vacancies, nil
}

// ClearCache flushes the result cache, returning the number of evicted
// entries.
func (s *CourseService) ClearCache(ctx context.Context) (int, error) {
	count, err := s.store.Clear(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear cache")
	}
	s.logger.Info("cache cleared", zap.Int("entries", count))
	return count, nil
}

// CacheStats reports an informational snapshot for the health payload.
func (s *CourseService) CacheStats(ctx context.Context) cache.Stats {
	return cache.Stats{
		Backend:    s.cfg.CacheBackend,
		Entries:    s.store.Len(ctx),
		DefaultTTL: s.cfg.CacheTTL,
		TTLSeconds: int(s.cfg.CacheTTL / time.Second),
	}
}

func courseKey(code, term string) string {
	return "courses:" + code + ":" + term
}

// applyFilters narrows sections by professor and campus. Matching is
// case-insensitive substring; an empty result is a valid outcome.
func applyFilters(sections []models.Section, q models.Query) []models.Section {
	if q.Professor == "" && q.Campus == "" {
		return sections
	}

	professor := strings.ToLower(q.Professor)
	campus := strings.ToLower(q.Campus)

	filtered := make([]models.Section, 0, len(sections))
	for _, section := range sections {
		if professor != "" && !strings.Contains(strings.ToLower(section.Professor), professor) {
			continue
		}
		if campus != "" && !strings.Contains(strings.ToLower(section.Campus), campus) {
			continue
		}
		filtered = append(filtered, section)
	}
	return filtered
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, appErrors.ErrUpstreamBlocked):
		return "blocked"
	case errors.Is(err, appErrors.ErrUpstreamUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}
