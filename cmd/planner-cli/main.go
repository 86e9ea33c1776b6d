// Package main 项目规划模板命令行入口
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/cli"
	"project-planner-ai/internal/config"
	einoobs "project-planner-ai/internal/observability/eino"
	"project-planner-ai/internal/wire"
	"project-planner-ai/pkg/logger"
)

// Version 版本信息，构建时注入
var Version = "dev"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(loadDeps, Version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadDeps 加载配置并装配依赖；日志写到 stderr，stdout 只保留命令输出
func loadDeps(_ context.Context) (*cli.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.InitWithWriter(os.Stderr, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	einoobs.Init(planner.NewLogUsageRecorder())

	c, err := wire.InitializeCLI(cfg)
	if err != nil {
		return nil, err
	}
	return &cli.Deps{
		Generator: c.Planner,
		Renderer:  c.Renderer,
		Options: workspace.Options{
			MaxFiles:       cfg.Workspace.MaxFiles,
			MaxUploadBytes: cfg.Workspace.MaxUploadBytes,
		},
	}, nil
}
