package planner

import (
	"context"

	"project-planner-ai/internal/domain/service"
	"project-planner-ai/pkg/logger"
)

// LogUsageRecorder 将每次 LLM 调用的 token 用量写入结构化日志
type LogUsageRecorder struct{}

func NewLogUsageRecorder() *LogUsageRecorder { return &LogUsageRecorder{} }

func (LogUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	logger.Info(ctx, "llm usage",
		"workflow", in.Workflow,
		"provider", in.Provider,
		"model", in.Model,
		"prompt_tokens", in.PromptTokens,
		"completion_tokens", in.CompletionTokens,
		"duration_ms", in.DurationMs,
	)
	return nil
}
