// Package entity 定义项目规划模板的领域模型
package entity

import "slices"

// RiskLevel 风险等级，存储值固定为英文枚举，展示层负责本地化
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "High"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelLow    RiskLevel = "Low"
)

// RiskLevels 全部合法的风险等级（区分大小写）
var RiskLevels = []RiskLevel{RiskLevelHigh, RiskLevelMedium, RiskLevelLow}

// IsValid 检查风险等级是否为合法枚举值
func (l RiskLevel) IsValid() bool {
	return slices.Contains(RiskLevels, l)
}

// Label 返回本地化展示标签
func (l RiskLevel) Label() string {
	switch l {
	case RiskLevelHigh:
		return "高"
	case RiskLevelMedium:
		return "中"
	case RiskLevelLow:
		return "低"
	default:
		return string(l)
	}
}

// ProjectTemplate 一次生成得到的完整项目规划（聚合根）
// 约定：聚合只能整体替换，编辑通过 With* 方法生成新值。
type ProjectTemplate struct {
	BasicInfo         TemplateInfo       `json:"basicInfo"`
	TechnicalSolution *TechnicalSolution `json:"technicalSolution,omitempty" validate:"omitempty"`
	Phases            []Phase            `json:"phases" validate:"required,min=1,dive"`
	Estimates         Estimates          `json:"estimates"`
	Risks             []Risk             `json:"risks" validate:"required,dive"`
	Usage             UsageGuide         `json:"usage"`
}

// TemplateInfo 模板基础信息
type TemplateInfo struct {
	Name           string   `json:"name" validate:"required"`
	Type           string   `json:"type"`
	IconSuggestion string   `json:"iconSuggestion"`
	Scenario       string   `json:"scenario"`
	Features       []string `json:"features" validate:"required"`
}

// TechnicalSolution 技术实施方案，硬件/软件两侧均可缺省
type TechnicalSolution struct {
	Hardware *HardwareSpec `json:"hardware,omitempty" validate:"omitempty"`
	Software *SoftwareSpec `json:"software,omitempty" validate:"omitempty"`
}

// HardwareSpec 硬件方案
type HardwareSpec struct {
	Scheme       string   `json:"scheme"`
	Components   []string `json:"components" validate:"required"`
	DesignPoints []string `json:"designPoints" validate:"required"`
	DetailedPlan string   `json:"detailedPlan,omitempty"`
}

// SoftwareSpec 软件方案
type SoftwareSpec struct {
	Languages    []string `json:"languages" validate:"required"`
	Frameworks   []string `json:"frameworks" validate:"required"`
	Architecture string   `json:"architecture"`
	DetailedPlan string   `json:"detailedPlan,omitempty"`
}

// Phase 项目阶段
type Phase struct {
	Name        string `json:"name" validate:"required"`
	Goal        string `json:"goal"`
	KeyOutput   string `json:"keyOutput"`
	IsMilestone bool   `json:"isMilestone"`
	Tasks       []Task `json:"tasks" validate:"required,dive"`
}

// Task 阶段内任务；Dependencies 仅作展示，按名称引用，不保证存在
type Task struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Output       string   `json:"output"`
	Role         string   `json:"role"`
	Dependencies []string `json:"dependencies"`
}

// Estimates 周期与团队估算
type Estimates struct {
	TotalDuration  string          `json:"totalDuration"`
	PhaseDurations []PhaseDuration `json:"phaseDurations" validate:"required,dive"`
	TeamStructure  []TeamMember    `json:"teamStructure" validate:"required,dive"`
}

// PhaseDuration 阶段工期（天）
type PhaseDuration struct {
	PhaseName string `json:"phaseName" validate:"required"`
	Days      int    `json:"days" validate:"gte=0"`
}

// TeamMember 团队角色及人数
type TeamMember struct {
	Role  string `json:"role" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

// Risk 风险项；ImpactPhase 为自由文本
type Risk struct {
	Description string    `json:"description" validate:"required"`
	ImpactPhase string    `json:"impactPhase"`
	Level       RiskLevel `json:"level" validate:"required,oneof=High Medium Low"`
	Strategy    string    `json:"strategy"`
}

// UsageGuide 使用指南
type UsageGuide struct {
	Suitability string `json:"suitability"`
	Notes       string `json:"notes"`
	Complexity  string `json:"complexity"`
}

// HasHardware 是否包含硬件方案
func (t *ProjectTemplate) HasHardware() bool {
	return t != nil && t.TechnicalSolution != nil && t.TechnicalSolution.Hardware != nil
}

// HasSoftware 是否包含软件方案
func (t *ProjectTemplate) HasSoftware() bool {
	return t != nil && t.TechnicalSolution != nil && t.TechnicalSolution.Software != nil
}
