// Package planner 负责把用户需求转换为带 schema 约束的模型请求，并把模型输出还原为项目模板。
package planner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"project-planner-ai/internal/config"
	"project-planner-ai/internal/domain/entity"
	"project-planner-ai/internal/workflow/chain"
	wfmodel "project-planner-ai/internal/workflow/model"
	wfnode "project-planner-ai/internal/workflow/node"
	workflowport "project-planner-ai/internal/workflow/port"
	plannerschema "project-planner-ai/internal/workflow/schema"
	"project-planner-ai/pkg/logger"
	"project-planner-ai/pkg/metrics"
)

// 工作流配置键（config.llm.workflows）
const (
	WorkflowKeyTemplate     = "template"
	WorkflowKeyDetailPlan   = "detail_plan"
	WorkflowKeyAlternatives = "alternatives"
)

// FileInput 上传文件；Data 仅对图片填充（base64），其余文件只传名称
type FileInput struct {
	Name     string
	MIMEType string
	Data     string
}

// IsInlineImage 是否作为内联图片随请求发送
func (f FileInput) IsInlineImage() bool {
	return f.Data != "" && strings.HasPrefix(f.MIMEType, "image/")
}

// GenerateInput 项目模板生成输入
type GenerateInput struct {
	FunctionalReq string
	TechReq       string
	TeamSize      string
	Duration      string
	Files         []FileInput
}

// ValidateInput 本地校验：功能需求为空（或仅空白）且没有上传文件时拒绝
func ValidateInput(in GenerateInput) error {
	if strings.TrimSpace(in.FunctionalReq) == "" && len(in.Files) == 0 {
		return &ValidationError{Message: MsgInputRequired}
	}
	return nil
}

// Client 生成客户端，API Key 等凭据随 config 在构造时注入
type Client struct {
	llm          config.LLMConfig
	template     *chain.TemplateChain
	detailPlan   *chain.DetailPlanChain
	alternatives *chain.AlternativesChain
}

// NewClient 创建生成客户端
func NewClient(factory workflowport.ChatModelFactory, cfg *config.Config) *Client {
	return &Client{
		llm:          cfg.LLM,
		template:     chain.NewTemplateChain(factory),
		detailPlan:   chain.NewDetailPlanChain(factory),
		alternatives: chain.NewAlternativesChain(factory),
	}
}

func (c *Client) callOptions(workflow string) wfmodel.CallOptions {
	w := c.llm.Workflow(workflow)
	return wfmodel.CallOptions{
		Provider:        w.Provider,
		Model:           w.Model,
		ReasoningEffort: w.ReasoningEffort,
	}
}

// GenerateTemplate 生成完整项目模板；失败时不返回任何部分结果
func (c *Client) GenerateTemplate(ctx context.Context, in GenerateInput) (tpl *entity.ProjectTemplate, err error) {
	start := time.Now()
	defer func() {
		metrics.TemplateGenerationTotal.WithLabelValues(generationStatus(err)).Inc()
		metrics.TemplateGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	req := &wfmodel.TemplateGenerateInput{
		FunctionalReq: in.FunctionalReq,
		TechReq:       in.TechReq,
		TeamSize:      in.TeamSize,
		Duration:      in.Duration,
		CallOptions:   c.callOptions(WorkflowKeyTemplate),
	}
	for _, f := range in.Files {
		req.FileNames = append(req.FileNames, f.Name)
		if f.IsInlineImage() {
			req.Images = append(req.Images, wfmodel.InlineImage{Name: f.Name, MIMEType: f.MIMEType, Data: f.Data})
		}
	}

	logger.Info(ctx, "generating project template",
		"files", len(req.FileNames),
		"images", len(req.Images),
	)

	out, err := c.template.Invoke(ctx, req)
	if err != nil {
		logger.Error(ctx, "template generation call failed", err)
		return nil, &GenerationError{Err: err}
	}
	text := strings.TrimSpace(out.Content)
	if text == "" {
		return nil, &GenerationError{Message: MsgGenerateFailed}
	}

	tpl, err = ParseTemplate(text)
	if err != nil {
		logger.Warn(ctx, "template output rejected", "error", err.Error())
		return nil, err
	}

	logger.Info(ctx, "project template generated",
		"name", tpl.BasicInfo.Name,
		"phases", len(tpl.Phases),
		"risks", len(tpl.Risks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tpl, nil
}

// GenerateDetailedPlan 展开某个技术分区的详细方案，返回 GFM Markdown
func (c *Client) GenerateDetailedPlan(ctx context.Context, kind entity.SolutionKind, summaryJSON, projectName string) (plan string, err error) {
	defer func() {
		metrics.DetailPlanTotal.WithLabelValues(string(kind), generationStatus(err)).Inc()
	}()

	if _, ok := entity.ParseSolutionKind(string(kind)); !ok {
		return "", &ValidationError{Message: "unsupported solution kind: " + string(kind)}
	}

	out, err := c.detailPlan.Invoke(ctx, &wfmodel.DetailPlanInput{
		Kind:        string(kind),
		Summary:     summaryJSON,
		ProjectName: projectName,
		CallOptions: c.callOptions(WorkflowKeyDetailPlan),
	})
	if err != nil {
		logger.Error(ctx, "detail plan call failed", err, "kind", kind)
		return "", &GenerationError{Message: MsgDetailPlanFailed, Err: err}
	}

	plan = wfnode.NormalizeMarkdown(out.Content)
	if plan == "" {
		return "", &GenerationError{Message: MsgDetailPlanFailed}
	}
	return plan, nil
}

// GetAlternatives 查询候选替代项；任何失败都返回空列表
func (c *Client) GetAlternatives(ctx context.Context, kind entity.SolutionKind, currentItem, projectContext string) []string {
	status := "ok"
	defer func() {
		metrics.AlternativesTotal.WithLabelValues(string(kind), status).Inc()
	}()

	out, err := c.alternatives.Invoke(ctx, &wfmodel.AlternativesInput{
		Kind:           string(kind),
		Item:           currentItem,
		ProjectContext: projectContext,
		CallOptions:    c.callOptions(WorkflowKeyAlternatives),
	})
	if err != nil {
		status = "error"
		logger.Warn(ctx, "alternatives lookup failed", "kind", kind, "item", currentItem, "error", err.Error())
		return []string{}
	}

	items, err := ParseAlternatives(out.Content)
	if err != nil {
		status = "error"
		logger.Warn(ctx, "alternatives output rejected", "kind", kind, "error", err.Error())
		return []string{}
	}
	if len(items) == 0 {
		status = "empty"
	}
	return items
}

// ParseAlternatives 解析候选列表：去空白、去重、保持模型顺序，最多保留 4 个
func ParseAlternatives(text string) ([]string, error) {
	raw := wfnode.ExtractJSON(text, wfnode.JSONArray)
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil, err
	}

	out := make([]string, 0, plannerschema.MaxAlternatives)
	seen := make(map[string]struct{}, len(arr))
	for _, v := range arr {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == plannerschema.MaxAlternatives {
			break
		}
	}
	return out, nil
}

func generationStatus(err error) string {
	if err == nil {
		return "success"
	}
	switch err.(type) {
	case *ValidationError:
		return "validation_error"
	case *ParseError:
		return "parse_error"
	default:
		return "generation_error"
	}
}
