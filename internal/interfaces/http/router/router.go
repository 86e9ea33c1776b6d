// Package router 提供 HTTP 路由配置
package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"project-planner-ai/internal/config"
	"project-planner-ai/internal/interfaces/http/handler"
	"project-planner-ai/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health       *handler.HealthHandler
	Page         *handler.PageHandler
	Workspace    *handler.WorkspaceHandler
	Alternatives *handler.AlternativesHandler
	Export       *handler.ExportHandler
}

// Router HTTP 路由器
type Router struct {
	engine    *gin.Engine
	cfg       *config.Config
	handlers  Handlers
	rateLimit gin.HandlerFunc
}

// New 创建新的路由器。pages 为页面模板；rateLimit 挂在会触发模型调用的路由上。
func New(cfg *config.Config, handlers Handlers, pages *template.Template, rateLimit gin.HandlerFunc) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(pages)
	engine.MaxMultipartMemory = cfg.Workspace.MaxUploadBytes

	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	r := &Router{
		engine:    engine,
		cfg:       cfg,
		handlers:  handlers,
		rateLimit: rateLimit,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, r.cfg.Observability.Metrics.Path))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.cfg.Observability.Metrics.Path))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	session := middleware.Session(middleware.SessionConfig{
		CookieName: r.cfg.Workspace.CookieName,
		TTL:        r.cfg.Workspace.SessionTTL,
		Secure:     r.cfg.App.Env == "production",
	})
	app := r.engine.Group("", session)

	RegisterPageRoutes(app, h.Page, r.rateLimit)
	RegisterExportRoutes(app, h.Export)
	RegisterV1Routes(app.Group("/v1"), h.Workspace, h.Alternatives, r.rateLimit)
}
