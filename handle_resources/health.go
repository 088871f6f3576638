package handle_resources

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/KincaidYang/whoisresolver/config"
	"github.com/KincaidYang/whoisresolver/utils"
)

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// isRedisHealthy checks if the primary cache (Redis) is healthy
func (h *Handler) isRedisHealthy() bool {
	switch c := h.cache.(type) {
	case nil:
		return false
	case *utils.FallbackCache:
		return c.IsPrimaryHealthy()
	case *utils.RedisCache:
		return c.IsHealthy()
	}
	return false
}

// cacheCheck returns the cache health check result
func (h *Handler) cacheCheck() (Check, bool) {
	if h.cache == nil {
		return Check{Status: "ok", Message: "disabled"}, true
	}
	if !h.cache.IsHealthy() {
		return Check{Status: "fail", Message: "unavailable"}, false
	}
	if h.isRedisHealthy() {
		return Check{Status: "ok", Message: "redis"}, true
	}
	return Check{Status: "ok", Message: "memory"}, true
}

// capacityCheck returns the capacity health check result
func (h *Handler) capacityCheck() Check {
	current, limit := h.InFlight(), cap(h.limiter)
	if current >= limit {
		return Check{Status: "warning", Message: fmt.Sprintf("at limit (%d/%d)", current, limit)}
	}
	return Check{Status: "ok", Message: fmt.Sprintf("%d/%d", current, limit)}
}

func (h *Handler) uptime() string {
	return time.Since(h.started).Round(time.Second).String()
}

// HandleHealth handles the /health endpoint
// Returns basic health status - always returns 200 if the server is running
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	cacheCheck, _ := h.cacheCheck()

	utils.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    h.uptime(),
		Checks: map[string]Check{
			"cache": cacheCheck,
		},
	})
}

// HandleReady handles the /ready endpoint
// Returns 503 if the cache is unusable or Redis is required but down.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	httpStatus := http.StatusOK
	overallStatus := "ok"

	cacheCheck, cacheOk := h.cacheCheck()

	if h.requireRedis && !h.isRedisHealthy() {
		overallStatus = "unavailable"
		cacheCheck = Check{Status: "fail", Message: "redis required but unavailable"}
		httpStatus = http.StatusServiceUnavailable
	} else if !cacheOk {
		overallStatus = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, httpStatus, HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    h.uptime(),
		Checks: map[string]Check{
			"cache":    cacheCheck,
			"capacity": h.capacityCheck(),
		},
	})
}

// RuntimeInfo represents runtime information
type RuntimeInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"buildTime,omitempty"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GoVersion    string `json:"goVersion"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCPU"`
}

// HandleInfo handles the /info endpoint (optional, for debugging)
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info := RuntimeInfo{
		Version:      config.Version,
		GoVersion:    runtime.Version(),
		Uptime:       h.uptime(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}

	// Only include build info if available
	if config.BuildTime != "unknown" {
		info.BuildTime = config.BuildTime
	}
	if config.GitCommit != "unknown" {
		info.GitCommit = config.GitCommit
	}

	utils.WriteJSON(w, http.StatusOK, info)
}
