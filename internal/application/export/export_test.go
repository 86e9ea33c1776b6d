package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-ai/internal/config"
	"project-planner-ai/internal/domain/entity"
	apperrors "project-planner-ai/pkg/errors"
)

func sampleTemplate() *entity.ProjectTemplate {
	return &entity.ProjectTemplate{
		BasicInfo: entity.TemplateInfo{
			Name:     "智能 门锁",
			Type:     "Hardware",
			Scenario: "家庭 <门禁>",
			Features: []string{"指纹", "远程开锁", "低功耗", "告警"},
		},
		TechnicalSolution: &entity.TechnicalSolution{
			Hardware: &entity.HardwareSpec{
				Scheme:       "MCU + 指纹模组",
				Components:   []string{"STM32", "FPC1020"},
				DesignPoints: []string{"低功耗"},
				DetailedPlan: "## BOM\n\n| 器件 | 数量 |\n|---|---|\n| STM32 | 1 |\n\n<script>alert(1)</script>",
			},
		},
		Phases: []entity.Phase{
			{
				Name:        "需求分析与原型设计阶段",
				Goal:        "明确需求",
				KeyOutput:   "PRD",
				IsMilestone: true,
				Tasks: []entity.Task{
					{Name: "需求调研", Description: "访谈 & 调研", Output: "纪要", Role: "产品经理", Dependencies: []string{"外部评审"}},
				},
			},
		},
		Estimates: entity.Estimates{
			TotalDuration:  "3个月",
			PhaseDurations: []entity.PhaseDuration{{PhaseName: "需求分析与原型设计阶段", Days: 10}, {PhaseName: "开发", Days: 40}},
			TeamStructure:  []entity.TeamMember{{Role: "硬件工程师", Count: 2}},
		},
		Risks: []entity.Risk{
			{Description: "供应链延迟", ImpactPhase: "开发", Level: entity.RiskLevelHigh, Strategy: "备选供应商"},
			{Description: "固件缺陷", ImpactPhase: "测试", Level: entity.RiskLevel("Unknown"), Strategy: "回归"},
		},
		Usage: entity.UsageGuide{Suitability: "中小团队", Notes: "无", Complexity: "中"},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(config.PDFExportConfig{})
	require.NoError(t, err)
	return r
}

func TestJSON_RoundTrip(t *testing.T) {
	tpl := sampleTemplate()

	out, err := JSON(tpl)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"basicInfo\"")
	assert.Contains(t, string(out), "<门禁>", "html characters are not escaped")

	var back entity.ProjectTemplate
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, tpl, &back)
}

func TestJSON_NilTemplate(t *testing.T) {
	_, err := JSON(nil)
	assert.ErrorIs(t, err, apperrors.ErrTemplateNotFound)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "智能_门锁_template.json", JSONFileName("智能 门锁"))
	assert.Equal(t, "智能_门锁.doc", WordFileName("智能  门锁"))
	assert.Equal(t, "a_b_print.html", PrintFileName("a/b"))
	assert.Equal(t, "project.doc", WordFileName(""))
	assert.Equal(t, "docs_智能_门锁_template.json", JSONFileName(`docs\智能 门锁`))
}

func TestChartLabel(t *testing.T) {
	assert.Equal(t, "开发", ChartLabel("开发"))
	assert.Equal(t, "需求分析与原型设...", ChartLabel("需求分析与原型设计阶段"))
	assert.Equal(t, "12345678", ChartLabel("12345678"))
}

func TestPhaseChart(t *testing.T) {
	bars := PhaseChart(sampleTemplate().Estimates.PhaseDurations)
	require.Len(t, bars, 2)
	assert.Equal(t, 25, bars[0].Percent)
	assert.Equal(t, 100, bars[1].Percent)
	assert.Equal(t, "需求分析与原型设计阶段", bars[0].FullName)

	assert.Empty(t, PhaseChart(nil))
	zero := PhaseChart([]entity.PhaseDuration{{PhaseName: "x", Days: 0}})
	assert.Equal(t, 0, zero[0].Percent)
}

func TestRiskClass(t *testing.T) {
	assert.Equal(t, "risk-high", RiskClass(entity.RiskLevelHigh))
	assert.Equal(t, "risk-medium", RiskClass(entity.RiskLevelMedium))
	assert.Equal(t, "risk-low", RiskClass(entity.RiskLevelLow))
	assert.Equal(t, "risk-low", RiskClass("Critical"))
}

func TestTypeIcon(t *testing.T) {
	assert.Equal(t, "📦", TypeIcon("Software"))
	assert.Equal(t, "🔌", TypeIcon("硬件产品"))
	assert.Equal(t, "🧠", TypeIcon("AI"))
	assert.Equal(t, "🗂️", TypeIcon("咨询"))
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	out := string(RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
	assert.Empty(t, RenderMarkdown(""))
}

func TestWord(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Word(sampleTemplate())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "\ufeff"))
	assert.Contains(t, doc, "urn:schemas-microsoft-com:office:word")
	assert.Contains(t, doc, "<h1>智能 门锁</h1>")
	assert.Contains(t, doc, "家庭 &lt;门禁&gt;")
	assert.Contains(t, doc, "需求分析与原型设计阶段 (里程碑)")
	assert.Contains(t, doc, "<strong>需求调研</strong> (产品经理): 访谈 &amp; 调研 [输出: 纪要]")
	assert.Contains(t, doc, "<td>高</td>")
	assert.Contains(t, doc, "<td>Unknown</td>")
	assert.Contains(t, doc, "<table>\n<thead>", "detailed plan is rendered as markdown")
	assert.NotContains(t, doc, "<script>")
}

func TestWord_NilTemplate(t *testing.T) {
	_, err := newTestRenderer(t).Word(nil)
	assert.ErrorIs(t, err, apperrors.ErrTemplateNotFound)
}

func TestPrint(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Print(sampleTemplate(), true)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "@page { size: A4 portrait; margin: 10mm; }")
	assert.Contains(t, doc, "break-inside: avoid")
	assert.Contains(t, doc, "window.print()")
	assert.Contains(t, doc, "risk-high")
	assert.Contains(t, doc, "需求分析与原型设...")
	assert.Contains(t, doc, "◆ 里程碑")

	out, err = r.Print(sampleTemplate(), false)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "window.print()")
}

func TestPageSetup_Overrides(t *testing.T) {
	r, err := NewRenderer(config.PDFExportConfig{PageSize: "Letter", Orientation: "landscape", MarginMM: 15, Scale: 1.5})
	require.NoError(t, err)
	assert.Equal(t, PageSetup{Size: "Letter", Orientation: "landscape", MarginMM: 15, Scale: 1.5}, r.Page())
}
