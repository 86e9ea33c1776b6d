package view

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	tpl, err := Load()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, PageTemplate, p))
	return buf.String()
}

func fixture(t *testing.T) *entity.ProjectTemplate {
	t.Helper()
	raw, err := os.ReadFile("../../../application/planner/testdata/template.json")
	require.NoError(t, err)
	tpl, err := planner.ParseTemplate(string(raw))
	require.NoError(t, err)
	return tpl
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage(workspace.Snapshot{}, "")
	assert.Nil(t, p.Chart)
	assert.Equal(t, workspace.TeamSizes, p.TeamSizes)

	html := render(t, p)
	assert.Contains(t, html, `name="functional_req"`)
	assert.NotContains(t, html, "/export/json")
}

func TestNewPage_WithTemplate(t *testing.T) {
	tpl := fixture(t)
	p := NewPage(workspace.Snapshot{Template: tpl}, "标签内容不能为空")
	require.Len(t, p.Chart, len(tpl.Estimates.PhaseDurations))
	assert.Equal(t, tpl.BasicInfo.Features[:featureChips], p.Features)

	html := render(t, p)
	assert.Contains(t, html, "标签内容不能为空")
	assert.Contains(t, html, tpl.TechnicalSolution.Hardware.Components[0])
	assert.Contains(t, html, "/export/json")
}

func TestEditingSession_Rendered(t *testing.T) {
	tpl := fixture(t)
	snap := workspace.Snapshot{
		Template: tpl,
		Editing: []workspace.TagEditSession{{
			Kind:  entity.SolutionHardware,
			Index: 0,
			Draft: "ESP32-C3",
			State: workspace.SuggestionsLoading,
		}},
	}
	html := render(t, NewPage(snap, ""))
	assert.Contains(t, html, `value="ESP32-C3"`)
	assert.Contains(t, html, "加载建议…")
}
