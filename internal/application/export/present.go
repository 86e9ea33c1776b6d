// Package export 负责项目模板的展示辅助与导出（JSON / Word / 打印版 PDF）。
// 所有导出只读取快照，不修改工作区状态。
package export

import (
	"strings"

	"project-planner-ai/internal/domain/entity"
)

// chartLabelRunes 阶段工期图标签的最大字符数
const chartLabelRunes = 8

// TypeIcon 按模板类型给出图标提示
func TypeIcon(typ string) string {
	lower := strings.ToLower(typ)
	switch {
	case strings.Contains(lower, "software") || strings.Contains(lower, "软件"):
		return "📦"
	case strings.Contains(lower, "hardware") || strings.Contains(lower, "硬件"):
		return "🔌"
	case strings.Contains(lower, "ai") || strings.Contains(lower, "智能"):
		return "🧠"
	default:
		return "🗂️"
	}
}

// RiskClass 风险徽标样式，未知等级按低风险配色
func RiskClass(level entity.RiskLevel) string {
	switch level {
	case entity.RiskLevelHigh:
		return "risk-high"
	case entity.RiskLevelMedium:
		return "risk-medium"
	default:
		return "risk-low"
	}
}

// ChartLabel 截断阶段名：超过 8 个字符时保留前 8 个并追加 "..."
func ChartLabel(name string) string {
	r := []rune(name)
	if len(r) <= chartLabelRunes {
		return name
	}
	return string(r[:chartLabelRunes]) + "..."
}

// ChartBar 阶段工期条形图的一项
type ChartBar struct {
	Label    string
	FullName string
	Days     int
	// Percent 相对最长阶段的宽度百分比
	Percent int
}

// PhaseChart 生成阶段工期条形图数据，保持原有顺序
func PhaseChart(durations []entity.PhaseDuration) []ChartBar {
	maxDays := 0
	for _, d := range durations {
		maxDays = max(maxDays, d.Days)
	}
	out := make([]ChartBar, 0, len(durations))
	for _, d := range durations {
		pct := 0
		if maxDays > 0 && d.Days > 0 {
			pct = max(d.Days*100/maxDays, 1)
		}
		out = append(out, ChartBar{
			Label:    ChartLabel(d.PhaseName),
			FullName: d.PhaseName,
			Days:     d.Days,
			Percent:  pct,
		})
	}
	return out
}

// TopFeatures 头部展示的前 n 个特性
func TopFeatures(features []string, n int) []string {
	if len(features) <= n {
		return features
	}
	return features[:n]
}
