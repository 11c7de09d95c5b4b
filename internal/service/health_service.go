package service

import (
	"context"
)

// Health status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusUp       = "up"
	StatusDown     = "down"
)

// Pinger reports connectivity of a backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health is the result of a health check. The cache is optional, so only a
// store outage degrades the service.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthService probes the store and the cache.
type HealthService struct {
	store Pinger
	cache Pinger
}

// NewHealthService creates a HealthService.
func NewHealthService(store, cache Pinger) *HealthService {
	return &HealthService{store: store, cache: cache}
}

// Check pings both backends.
func (s *HealthService) Check(ctx context.Context) Health {
	h := Health{Status: StatusOK, Database: StatusUp, Cache: StatusUp}
	if err := s.store.Ping(ctx); err != nil {
		h.Status = StatusDegraded
		h.Database = StatusDown
	}
	if s.cache == nil || s.cache.Ping(ctx) != nil {
		h.Cache = StatusDown
	}
	return h
}
