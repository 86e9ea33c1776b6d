package entity

import (
	"fmt"
	"slices"
	"strings"

	apperrors "project-planner-ai/pkg/errors"
)

// SolutionKind 技术方案分区（硬件/软件）
type SolutionKind string

const (
	SolutionHardware SolutionKind = "hardware"
	SolutionSoftware SolutionKind = "software"
)

// ParseSolutionKind 解析分区名，仅接受 hardware / software
func ParseSolutionKind(s string) (SolutionKind, bool) {
	switch SolutionKind(strings.ToLower(strings.TrimSpace(s))) {
	case SolutionHardware:
		return SolutionHardware, true
	case SolutionSoftware:
		return SolutionSoftware, true
	default:
		return "", false
	}
}

// Placeholder 新增标签时的占位值
func (k SolutionKind) Placeholder() string {
	if k == SolutionHardware {
		return "新器件"
	}
	return "新框架"
}

// Label 分区中文名
func (k SolutionKind) Label() string {
	if k == SolutionHardware {
		return "硬件"
	}
	return "软件"
}

// Tags 返回可编辑标签列表（硬件 components / 软件 frameworks）的副本；分区不存在返回 nil
func (t *ProjectTemplate) Tags(kind SolutionKind) []string {
	switch {
	case kind == SolutionHardware && t.HasHardware():
		return slices.Clone(t.TechnicalSolution.Hardware.Components)
	case kind == SolutionSoftware && t.HasSoftware():
		return slices.Clone(t.TechnicalSolution.Software.Frameworks)
	default:
		return nil
	}
}

// HasSection 判断分区是否存在
func (t *ProjectTemplate) HasSection(kind SolutionKind) bool {
	switch kind {
	case SolutionHardware:
		return t.HasHardware()
	case SolutionSoftware:
		return t.HasSoftware()
	default:
		return false
	}
}

// DetailedPlan 返回分区的详细方案（未生成时为空）
func (t *ProjectTemplate) DetailedPlan(kind SolutionKind) string {
	switch {
	case kind == SolutionHardware && t.HasHardware():
		return t.TechnicalSolution.Hardware.DetailedPlan
	case kind == SolutionSoftware && t.HasSoftware():
		return t.TechnicalSolution.Software.DetailedPlan
	default:
		return ""
	}
}

// WithHardwareComponents 返回替换硬件器件列表后的新模板
func (t *ProjectTemplate) WithHardwareComponents(components []string) (*ProjectTemplate, error) {
	if !t.HasHardware() {
		return nil, apperrors.ErrSectionNotFound.WithDetail(string(SolutionHardware))
	}
	hw := *t.TechnicalSolution.Hardware
	hw.Components = slices.Clone(components)
	return t.withHardware(&hw), nil
}

// WithSoftwareFrameworks 返回替换软件框架列表后的新模板
func (t *ProjectTemplate) WithSoftwareFrameworks(frameworks []string) (*ProjectTemplate, error) {
	if !t.HasSoftware() {
		return nil, apperrors.ErrSectionNotFound.WithDetail(string(SolutionSoftware))
	}
	sw := *t.TechnicalSolution.Software
	sw.Frameworks = slices.Clone(frameworks)
	return t.withSoftware(&sw), nil
}

// WithDetailedPlan 返回仅替换指定分区 detailedPlan 的新模板
func (t *ProjectTemplate) WithDetailedPlan(kind SolutionKind, plan string) (*ProjectTemplate, error) {
	switch {
	case kind == SolutionHardware && t.HasHardware():
		hw := *t.TechnicalSolution.Hardware
		hw.DetailedPlan = plan
		return t.withHardware(&hw), nil
	case kind == SolutionSoftware && t.HasSoftware():
		sw := *t.TechnicalSolution.Software
		sw.DetailedPlan = plan
		return t.withSoftware(&sw), nil
	default:
		return nil, apperrors.ErrSectionNotFound.WithDetail(string(kind))
	}
}

// WithTag 将第 i 个标签替换为 v，列表长度不变
func (t *ProjectTemplate) WithTag(kind SolutionKind, i int, v string) (*ProjectTemplate, error) {
	tags, err := t.sectionTags(kind)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(tags) {
		return nil, apperrors.ErrTagNotFound.WithDetail(fmt.Sprintf("%s[%d]", kind, i))
	}
	tags[i] = v
	return t.withTags(kind, tags)
}

// WithoutTag 删除第 i 个标签，其余保持原有相对顺序
func (t *ProjectTemplate) WithoutTag(kind SolutionKind, i int) (*ProjectTemplate, error) {
	tags, err := t.sectionTags(kind)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(tags) {
		return nil, apperrors.ErrTagNotFound.WithDetail(fmt.Sprintf("%s[%d]", kind, i))
	}
	return t.withTags(kind, slices.Delete(tags, i, i+1))
}

// WithAppendedTag 在末尾追加标签
func (t *ProjectTemplate) WithAppendedTag(kind SolutionKind, v string) (*ProjectTemplate, error) {
	tags, err := t.sectionTags(kind)
	if err != nil {
		return nil, err
	}
	return t.withTags(kind, append(tags, v))
}

// Clone 深拷贝整个聚合，供快照/导出使用
func (t *ProjectTemplate) Clone() *ProjectTemplate {
	if t == nil {
		return nil
	}
	out := *t
	out.BasicInfo.Features = slices.Clone(t.BasicInfo.Features)
	if t.TechnicalSolution != nil {
		ts := TechnicalSolution{}
		if hw := t.TechnicalSolution.Hardware; hw != nil {
			c := *hw
			c.Components = slices.Clone(hw.Components)
			c.DesignPoints = slices.Clone(hw.DesignPoints)
			ts.Hardware = &c
		}
		if sw := t.TechnicalSolution.Software; sw != nil {
			c := *sw
			c.Languages = slices.Clone(sw.Languages)
			c.Frameworks = slices.Clone(sw.Frameworks)
			ts.Software = &c
		}
		out.TechnicalSolution = &ts
	}
	if t.Phases != nil {
		out.Phases = make([]Phase, len(t.Phases))
		for i, p := range t.Phases {
			cp := p
			if p.Tasks != nil {
				cp.Tasks = make([]Task, len(p.Tasks))
				for j, task := range p.Tasks {
					ct := task
					ct.Dependencies = slices.Clone(task.Dependencies)
					cp.Tasks[j] = ct
				}
			}
			out.Phases[i] = cp
		}
	}
	out.Estimates.PhaseDurations = slices.Clone(t.Estimates.PhaseDurations)
	out.Estimates.TeamStructure = slices.Clone(t.Estimates.TeamStructure)
	out.Risks = slices.Clone(t.Risks)
	return &out
}

func (t *ProjectTemplate) sectionTags(kind SolutionKind) ([]string, error) {
	if !t.HasSection(kind) {
		return nil, apperrors.ErrSectionNotFound.WithDetail(string(kind))
	}
	tags := t.Tags(kind)
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (t *ProjectTemplate) withTags(kind SolutionKind, tags []string) (*ProjectTemplate, error) {
	if kind == SolutionHardware {
		return t.WithHardwareComponents(tags)
	}
	return t.WithSoftwareFrameworks(tags)
}

// withHardware/withSoftware 字段级拷贝：仅替换被修改的分区指针，其余结构共享
func (t *ProjectTemplate) withHardware(hw *HardwareSpec) *ProjectTemplate {
	out := *t
	ts := *t.TechnicalSolution
	ts.Hardware = hw
	out.TechnicalSolution = &ts
	return &out
}

func (t *ProjectTemplate) withSoftware(sw *SoftwareSpec) *ProjectTemplate {
	out := *t
	ts := *t.TechnicalSolution
	ts.Software = sw
	out.TechnicalSolution = &ts
	return &out
}
