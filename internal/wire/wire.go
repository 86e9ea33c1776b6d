//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/config"
	"project-planner-ai/internal/infrastructure/llm"
	"project-planner-ai/internal/interfaces/http/handler"
	"project-planner-ai/internal/interfaces/http/router"
	"project-planner-ai/internal/interfaces/http/view"
	workflowport "project-planner-ai/internal/workflow/port"
)

// PlannerSet 生成客户端（HTTP 服务与 CLI 共用）
var PlannerSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	planner.NewClient,
)

// WorkspaceSet 会话工作区
var WorkspaceSet = wire.NewSet(
	workspace.NewRegistry,
	wire.Bind(new(workspace.Generator), new(*planner.Client)),
)

// RedisSet 可选 Redis 与限流中间件
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimitMiddleware,
)

// RouterSet 路由与处理器
var RouterSet = wire.NewSet(
	ProvideExportRenderer,
	view.Load,
	handler.NewHealthHandler,
	handler.NewPageHandler,
	handler.NewWorkspaceHandler,
	handler.NewAlternativesHandler,
	handler.NewExportHandler,
	wire.Bind(new(handler.Workspaces), new(*workspace.Registry)),
	wire.Bind(new(handler.AlternativesSource), new(*planner.Client)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化 HTTP 应用
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		PlannerSet,
		WorkspaceSet,
		RedisSet,
		RouterSet,
		NewApp,
	)
	return nil, nil, nil
}

// InitializeCLI 初始化命令行所需依赖
func InitializeCLI(cfg *config.Config) (*CLI, error) {
	wire.Build(
		PlannerSet,
		ProvideExportRenderer,
		NewCLI,
	)
	return nil, nil
}
