package wire

import (
	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/config"
	"project-planner-ai/internal/infrastructure/persistence/redis"
	"project-planner-ai/internal/interfaces/http/middleware"
	"project-planner-ai/internal/interfaces/http/router"
	"project-planner-ai/pkg/logger"
)

// App HTTP 应用容器
type App struct {
	Router   *router.Router
	Registry *workspace.Registry
}

// NewApp 组装应用
func NewApp(r *router.Router, registry *workspace.Registry) *App {
	return &App{Router: r, Registry: registry}
}

// CLI 命令行依赖容器
type CLI struct {
	Planner  *planner.Client
	Renderer *export.Renderer
}

// NewCLI 组装命令行依赖
func NewCLI(p *planner.Client, renderer *export.Renderer) *CLI {
	return &CLI{Planner: p, Renderer: renderer}
}

// ProvideRedisClient 提供 Redis 客户端（未启用时为 nil）
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if client != nil {
			if err := client.Close(); err != nil {
				logger.Default().Error("failed to close redis client", "error", err)
			}
		}
	}
	return client, cleanup, nil
}

// ProvideRateLimitMiddleware 提供生成类接口的限流中间件
func ProvideRateLimitMiddleware(cfg *config.Config, client *redis.Client) gin.HandlerFunc {
	return middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
		Enabled:           cfg.Security.RateLimit.Enabled,
		RequestsPerMinute: cfg.Security.RateLimit.RequestsPerMinute,
	}, client)
}

// ProvideExportRenderer 提供导出器
func ProvideExportRenderer(cfg *config.Config) (*export.Renderer, error) {
	return export.NewRenderer(cfg.Export.PDF)
}
