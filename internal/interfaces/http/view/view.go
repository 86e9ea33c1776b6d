// Package view 提供服务端渲染的单页界面模板
package view

import (
	"embed"
	"html/template"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PageTemplate 主页面模板名
const PageTemplate = "page.html.tmpl"

// featureChips 头部最多展示的特性数量
const featureChips = 3

// Page 主页面渲染数据
type Page struct {
	workspace.Snapshot

	TeamSizes []string
	Accept    string
	// Notice 本次请求的一次性提示（如标签为空），不进入工作区状态
	Notice string

	Chart    []export.ChartBar
	Features []string
}

// NewPage 由工作区快照构造页面数据
func NewPage(s workspace.Snapshot, notice string) Page {
	p := Page{
		Snapshot:  s,
		TeamSizes: workspace.TeamSizes,
		Accept:    workspace.AcceptedUploads,
		Notice:    notice,
	}
	if s.Template != nil {
		p.Chart = export.PhaseChart(s.Template.Estimates.PhaseDurations)
		p.Features = export.TopFeatures(s.Template.BasicInfo.Features, featureChips)
	}
	return p
}

// Load 解析全部页面模板
func Load() (*template.Template, error) {
	funcs := export.Funcs()
	funcs["editing"] = func(s workspace.Snapshot, kind string, index int) *workspace.TagEditSession {
		return s.EditingAt(entity.SolutionKind(kind), index)
	}
	funcs["isLoading"] = func(state workspace.SuggestionState) bool {
		return state == workspace.SuggestionsLoading
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
}
