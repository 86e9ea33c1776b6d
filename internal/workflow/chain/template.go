package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "project-planner-ai/internal/workflow/model"
	wfnode "project-planner-ai/internal/workflow/node"
	workflowport "project-planner-ai/internal/workflow/port"
	workflowprompt "project-planner-ai/internal/workflow/prompt"
	plannerschema "project-planner-ai/internal/workflow/schema"
)

// WorkflowTemplateGenerate 项目模板生成工作流名（用于 LLM 指标/Trace 标签）
const WorkflowTemplateGenerate = "template_generate"

// TemplateChain 项目模板生成链：提示词 + 内联图片 + json_schema 约束
type TemplateChain struct {
	inner *llmChain[*wfmodel.TemplateGenerateInput]
}

func NewTemplateChain(factory workflowport.ChatModelFactory) *TemplateChain {
	return &TemplateChain{inner: &llmChain[*wfmodel.TemplateGenerateInput]{
		name:     "template",
		workflow: WorkflowTemplateGenerate,
		factory:  factory,
		format:   formatTemplateMessages,
		options: func(in *wfmodel.TemplateGenerateInput) wfmodel.CallOptions {
			return in.CallOptions
		},
		schema: &responseSchema{Name: "project_template", Schema: plannerschema.TemplateJSONSchema},
	}}
}

// Invoke 返回模型原始输出；解析与校验由调用方负责
func (c *TemplateChain) Invoke(ctx context.Context, in *wfmodel.TemplateGenerateInput) (*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return c.inner.invoke(ctx, in)
}

func formatTemplateMessages(ctx context.Context, in *wfmodel.TemplateGenerateInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptTemplatePlanV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"functional_req": strings.TrimSpace(in.FunctionalReq),
		"tech_req":       strings.TrimSpace(in.TechReq),
		"file_names":     wfnode.JoinFileNames(in.FileNames),
		"duration":       strings.TrimSpace(in.Duration),
		"team_size":      strings.TrimSpace(in.TeamSize),
	})
	if err != nil {
		return nil, err
	}
	return wfnode.AttachImages(msgs, in.Images), nil
}
