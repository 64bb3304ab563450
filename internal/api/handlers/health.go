package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"elderguard/pkg/logger"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version   string
	checks    map[string]Pinger
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. Nil checks are skipped.
func NewHealthHandler(version string, checks map[string]Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		version:   version,
		checks:    checks,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready and pings every configured store
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]string, len(h.checks))
		g      errgroup.Group
	)
	for name, p := range h.checks {
		if p == nil {
			checks[name] = "not configured"
			continue
		}
		g.Go(func() error {
			err := p.Ping(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[name] = "unhealthy: " + err.Error()
				return err
			}
			checks[name] = "healthy"
			return nil
		})
	}

	status, overall := http.StatusOK, "ready"
	if err := g.Wait(); err != nil {
		h.logger.Warn().Err(err).Msg("readiness check failed")
		status, overall = http.StatusServiceUnavailable, "not ready"
	}

	respondJSON(w, status, HealthResponse{
		Status:    overall,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
