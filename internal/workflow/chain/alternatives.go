package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "project-planner-ai/internal/workflow/model"
	workflowport "project-planner-ai/internal/workflow/port"
	workflowprompt "project-planner-ai/internal/workflow/prompt"
	plannerschema "project-planner-ai/internal/workflow/schema"
)

// WorkflowAlternatives 候选建议工作流名
const WorkflowAlternatives = "alternatives"

// AlternativesChain 查询某个器件/框架的候选替代项
type AlternativesChain struct {
	inner *llmChain[*wfmodel.AlternativesInput]
}

func NewAlternativesChain(factory workflowport.ChatModelFactory) *AlternativesChain {
	return &AlternativesChain{inner: &llmChain[*wfmodel.AlternativesInput]{
		name:     "alternatives",
		workflow: WorkflowAlternatives,
		factory:  factory,
		format:   formatAlternativesMessages,
		options: func(in *wfmodel.AlternativesInput) wfmodel.CallOptions {
			return in.CallOptions
		},
		schema: &responseSchema{Name: "alternatives", Schema: plannerschema.AlternativesJSONSchema},
	}}
}

func (c *AlternativesChain) Invoke(ctx context.Context, in *wfmodel.AlternativesInput) (*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return c.inner.invoke(ctx, in)
}

func alternativesItemKind(kind string) string {
	if kind == "hardware" {
		return "hardware component"
	}
	return "software technology/language/framework"
}

func formatAlternativesMessages(ctx context.Context, in *wfmodel.AlternativesInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptAlternativesV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{
		"project_context": strings.TrimSpace(in.ProjectContext),
		"item_kind":       alternativesItemKind(in.Kind),
		"item":            strings.TrimSpace(in.Item),
	})
}
