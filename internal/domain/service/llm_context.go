package service

import (
	"context"
	"strings"
)

const unknownLabel = "unknown"

type llmCallKey struct{}

// llmCall 随 context 传递的 LLM 调用标签，供 callbacks 打点与用量记录使用
type llmCall struct {
	workflow string
	provider string
}

// WithWorkflowProvider 标记本次调用所属的生成流程（template_generate / detail_plan / alternatives）与 provider。
// 空白值不覆盖外层已有的标签。
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	call, _ := ctx.Value(llmCallKey{}).(llmCall)
	if w := strings.TrimSpace(workflow); w != "" {
		call.workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		call.provider = p
	}
	return context.WithValue(ctx, llmCallKey{}, call)
}

// WorkflowFromContext 读取生成流程标签，缺省为 "unknown"
func WorkflowFromContext(ctx context.Context) string {
	return labelOrUnknown(callFromContext(ctx).workflow)
}

// ProviderFromContext 读取 provider 标签，缺省为 "unknown"
func ProviderFromContext(ctx context.Context) string {
	return labelOrUnknown(callFromContext(ctx).provider)
}

func callFromContext(ctx context.Context) llmCall {
	if ctx == nil {
		return llmCall{}
	}
	call, _ := ctx.Value(llmCallKey{}).(llmCall)
	return call
}

func labelOrUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
