package dto

import (
	"github.com/cristianvalmo/buscacursos-api/internal/cache"
)

// SearchRequest binds the single-lookup query string.
type SearchRequest struct {
	Code      string `form:"code" binding:"required,sigla"`
	Term      string `form:"term" binding:"required,term"`
	Professor string `form:"professor"`
	Campus    string `form:"campus"`
}

// BatchRequest binds the multi-course lookup body. Codes is deliberately
// not validated here: batch size limits belong to the lookup service so the
// rejection carries the INVALID_BATCH_SIZE code.
type BatchRequest struct {
	Codes []string `json:"codes"`
	Term  string   `json:"term" binding:"required,term"`
}

// VacanciesRequest binds the vacancy-detail query string.
type VacanciesRequest struct {
	NRC  string `form:"nrc" binding:"required,numeric"`
	Term string `form:"term" binding:"required,term"`
}

// HealthResponse is the liveness payload. Cache stats are informational
// only; they never influence the reported status.
type HealthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Cache   cache.Stats `json:"cache"`
}

// CacheClearResponse reports a cache flush.
type CacheClearResponse struct {
	Evicted int `json:"evicted"`
}
