package dto

import (
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

// GenerateRequest JSON 生成请求；文件需先通过 /files 上传
type GenerateRequest struct {
	FunctionalReq string `json:"functionalReq"`
	TechReq       string `json:"techReq"`
	TeamSize      string `json:"teamSize" binding:"omitempty,max=32"`
	Duration      string `json:"duration" binding:"omitempty,max=64"`
}

// Form 转换为工作区表单
func (r GenerateRequest) Form() workspace.Form {
	return workspace.Form{
		FunctionalReq: r.FunctionalReq,
		TechReq:       r.TechReq,
		TeamSize:      r.TeamSize,
		Duration:      r.Duration,
	}
}

// SaveTagRequest 保存标签；空白内容由工作区校验并拒绝
type SaveTagRequest struct {
	Value string `json:"value" form:"value"`
	// Suggestion 页面上点选的候选项，优先于输入框内容
	Suggestion string `json:"-" form:"suggestion"`
}

// Chosen 返回最终要保存的值
func (r SaveTagRequest) Chosen() string {
	if r.Suggestion != "" {
		return r.Suggestion
	}
	return r.Value
}

// AlternativesRequest 无状态候选建议查询
type AlternativesRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=hardware software"`
	Item    string `json:"item" binding:"required"`
	Context string `json:"context"`
}

// AlternativesResponse 候选建议结果，失败时为空列表
type AlternativesResponse struct {
	Kind        entity.SolutionKind `json:"kind"`
	Item        string              `json:"item"`
	Suggestions []string            `json:"suggestions"`
}

// DetailPlanResponse 详细方案展开结果
type DetailPlanResponse struct {
	Kind         entity.SolutionKind     `json:"kind"`
	DetailedPlan string                  `json:"detailedPlan"`
	Template     *entity.ProjectTemplate `json:"template"`
}
