package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "project-planner-ai/internal/workflow/model"
	workflowport "project-planner-ai/internal/workflow/port"
	workflowprompt "project-planner-ai/internal/workflow/prompt"
)

// WorkflowDetailPlan 技术方案详细展开工作流名
const WorkflowDetailPlan = "detail_plan"

// DetailPlanChain 按 hardware/software 展开详细技术方案（纯文本 Markdown 输出，无 schema）
type DetailPlanChain struct {
	inner *llmChain[*wfmodel.DetailPlanInput]
}

func NewDetailPlanChain(factory workflowport.ChatModelFactory) *DetailPlanChain {
	return &DetailPlanChain{inner: &llmChain[*wfmodel.DetailPlanInput]{
		name:     "detail_plan",
		workflow: WorkflowDetailPlan,
		factory:  factory,
		format:   formatDetailPlanMessages,
		options: func(in *wfmodel.DetailPlanInput) wfmodel.CallOptions {
			return in.CallOptions
		},
	}}
}

func (c *DetailPlanChain) Invoke(ctx context.Context, in *wfmodel.DetailPlanInput) (*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return c.inner.invoke(ctx, in)
}

func detailPlanTitle(kind string) string {
	if kind == "hardware" {
		return "硬件 BOM 与说明"
	}
	return "软件架构与接口规约"
}

func formatDetailPlanMessages(ctx context.Context, in *wfmodel.DetailPlanInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptDetailPlanV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{
		"project_name": strings.TrimSpace(in.ProjectName),
		"plan_title":   detailPlanTitle(in.Kind),
		"summary":      strings.TrimSpace(in.Summary),
	})
}
