package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angeloszaimis/ollama-health/internal/healthcheck"
)

const (
	StatusHealthy = "healthy"

	UpstreamReachable    = "reachable"
	UpstreamDegraded     = "degraded"
	UpstreamInitializing = "initializing"

	RequestIDHeader = "X-Request-ID"
)

// UpstreamChecker runs one bounded upstream check.
type UpstreamChecker interface {
	Check(ctx context.Context) healthcheck.Result
}

// PingResponse is the body returned for every probe.
type PingResponse struct {
	Status string `json:"status"`
	Ollama string `json:"ollama"`
}

// ProbeHandler answers load balancer probes. It always reports this process
// as healthy and carries the upstream state as an informational field.
type ProbeHandler struct {
	logger   *slog.Logger
	upstream UpstreamChecker
}

func (h *ProbeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	log := h.logger.With(slog.String("request_id", requestID))
	log.Debug("Health check request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("from", extractClientIP(r)))

	result := h.upstream.Check(r.Context())

	resp := PingResponse{
		Status: StatusHealthy,
		Ollama: upstreamLabel(result.Status),
	}

	switch result.Status {
	case healthcheck.Reachable:
		log.Debug("Health check: upstream reachable")
	case healthcheck.Degraded:
		log.Warn("Health check: upstream degraded", slog.Int("status", result.StatusCode))
	case healthcheck.Unreachable:
		log.Warn("Health check: upstream not ready", slog.Any("err", result.Err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(RequestIDHeader, requestID)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Debug("Failed to write probe response", slog.Any("err", err))
	}
}

func upstreamLabel(s healthcheck.Status) string {
	switch s {
	case healthcheck.Reachable:
		return UpstreamReachable
	case healthcheck.Degraded:
		return UpstreamDegraded
	case healthcheck.Unreachable:
		return UpstreamInitializing
	}

	return UpstreamInitializing
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func NewProbeHandler(logger *slog.Logger, upstream UpstreamChecker) *ProbeHandler {
	return &ProbeHandler{
		logger:   logger,
		upstream: upstream,
	}
}
