package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/config"
	"project-planner-ai/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg   *config.Config
	redis *redis.Client
}

// NewHealthHandler 创建健康检查处理器；redisClient 可为 nil（未启用限流）
func NewHealthHandler(cfg *config.Config, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, redis: redisClient}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

func (h *HealthHandler) version() string {
	if h == nil || h.cfg == nil {
		return ""
	}
	return h.cfg.App.Version
}

// Health 健康检查接口
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version()})
}

// Ready 就绪检查接口：默认 LLM provider 必须已配置 API Key；Redis 仅在启用时检查且不影响就绪态
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm":   {Status: "unknown"},
		"redis": {Status: "disabled"},
	}
	ready := true

	// LLM provider（必需）
	if err := h.checkLLM(); err != "" {
		checks["llm"].Status = "missing"
		checks["llm"].Error = err
		ready = false
	} else {
		checks["llm"].Status = "ok"
	}

	// Redis（可选，仅用于限流）
	if h != nil && h.redis != nil {
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) checkLLM() string {
	if h == nil || h.cfg == nil {
		return "server config not configured"
	}
	name := strings.TrimSpace(h.cfg.LLM.DefaultProvider)
	p, ok := h.cfg.LLM.Providers[name]
	if !ok {
		return "llm provider not found: " + name
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "llm api key not configured for provider: " + name
	}
	return ""
}

// Live 存活检查接口
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
