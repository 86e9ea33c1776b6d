package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "project-planner-ai/pkg/errors"
)

func sampleTemplate() *ProjectTemplate {
	return &ProjectTemplate{
		BasicInfo: TemplateInfo{
			Name:     "智能门锁",
			Type:     "hardware",
			Scenario: "家庭",
			Features: []string{"指纹", "NFC"},
		},
		TechnicalSolution: &TechnicalSolution{
			Hardware: &HardwareSpec{
				Scheme:       "ESP32 主控",
				Components:   []string{"ESP32", "指纹模组", "电机"},
				DesignPoints: []string{"低功耗"},
			},
			Software: &SoftwareSpec{
				Languages:    []string{"C"},
				Frameworks:   []string{"FreeRTOS", "LVGL"},
				Architecture: "分层",
			},
		},
		Phases: []Phase{{
			Name:  "需求分析",
			Tasks: []Task{{Name: "调研", Dependencies: []string{"不存在的任务"}}},
		}},
		Estimates: Estimates{
			TotalDuration:  "3个月",
			PhaseDurations: []PhaseDuration{{PhaseName: "需求分析", Days: 10}},
			TeamStructure:  []TeamMember{{Role: "嵌入式", Count: 2}},
		},
		Risks: []Risk{{Description: "供应链", ImpactPhase: "生产", Level: RiskLevelHigh}},
	}
}

func TestRiskLevel(t *testing.T) {
	assert.True(t, RiskLevelMedium.IsValid())
	assert.False(t, RiskLevel("high").IsValid())
	assert.Equal(t, "高", RiskLevelHigh.Label())
	assert.Equal(t, "中", RiskLevelMedium.Label())
	assert.Equal(t, "低", RiskLevelLow.Label())
	assert.Equal(t, "Unknown", RiskLevel("Unknown").Label())
}

func TestParseSolutionKind(t *testing.T) {
	k, ok := ParseSolutionKind(" Hardware ")
	assert.True(t, ok)
	assert.Equal(t, SolutionHardware, k)

	_, ok = ParseSolutionKind("firmware")
	assert.False(t, ok)

	assert.Equal(t, "新器件", SolutionHardware.Placeholder())
	assert.Equal(t, "新框架", SolutionSoftware.Placeholder())
}

func TestWithTag_ReplacesOnlyIndex(t *testing.T) {
	orig := sampleTemplate()

	for _, kind := range []SolutionKind{SolutionHardware, SolutionSoftware} {
		before := orig.Tags(kind)
		for i := range before {
			next, err := orig.WithTag(kind, i, "X")
			require.NoError(t, err)

			after := next.Tags(kind)
			require.Len(t, after, len(before))
			for j := range before {
				if j == i {
					assert.Equal(t, "X", after[j])
				} else {
					assert.Equal(t, before[j], after[j])
				}
			}
		}
		assert.Equal(t, before, orig.Tags(kind), "original must be untouched")
	}
}

func TestWithTag_OtherSectionShared(t *testing.T) {
	orig := sampleTemplate()
	next, err := orig.WithTag(SolutionHardware, 0, "STM32")
	require.NoError(t, err)

	assert.Same(t, orig.TechnicalSolution.Software, next.TechnicalSolution.Software)
	assert.NotSame(t, orig.TechnicalSolution.Hardware, next.TechnicalSolution.Hardware)
	assert.Equal(t, orig.Phases, next.Phases)
}

func TestWithoutTag_PreservesOrder(t *testing.T) {
	orig := sampleTemplate()

	next, err := orig.WithoutTag(SolutionHardware, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ESP32", "电机"}, next.Tags(SolutionHardware))
	assert.Len(t, orig.Tags(SolutionHardware), 3)

	_, err = orig.WithoutTag(SolutionHardware, 3)
	assert.ErrorIs(t, err, apperrors.ErrTagNotFound)
}

func TestWithAppendedTag(t *testing.T) {
	orig := sampleTemplate()
	next, err := orig.WithAppendedTag(SolutionSoftware, SolutionSoftware.Placeholder())
	require.NoError(t, err)

	tags := next.Tags(SolutionSoftware)
	require.Len(t, tags, 3)
	assert.Equal(t, "新框架", tags[2])
	assert.Len(t, orig.Tags(SolutionSoftware), 2)
}

func TestTagEdits_MissingSection(t *testing.T) {
	tpl := sampleTemplate()
	tpl.TechnicalSolution.Hardware = nil

	_, err := tpl.WithAppendedTag(SolutionHardware, "x")
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
	assert.Nil(t, tpl.Tags(SolutionHardware))

	tpl.TechnicalSolution = nil
	_, err = tpl.WithDetailedPlan(SolutionSoftware, "x")
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestWithDetailedPlan_OnlyTouchesSection(t *testing.T) {
	orig := sampleTemplate()
	next, err := orig.WithDetailedPlan(SolutionSoftware, "# 架构")
	require.NoError(t, err)

	assert.Equal(t, "# 架构", next.DetailedPlan(SolutionSoftware))
	assert.Empty(t, orig.DetailedPlan(SolutionSoftware))
	assert.Same(t, orig.TechnicalSolution.Hardware, next.TechnicalSolution.Hardware)
	assert.Equal(t, orig.TechnicalSolution.Software.Frameworks, next.TechnicalSolution.Software.Frameworks)
}

func TestClone_IsDeep(t *testing.T) {
	orig := sampleTemplate()
	cp := orig.Clone()
	assert.Equal(t, orig, cp)

	cp.Phases[0].Tasks[0].Dependencies[0] = "changed"
	cp.TechnicalSolution.Hardware.Components[0] = "changed"
	cp.Risks[0].Level = RiskLevelLow

	assert.Equal(t, "不存在的任务", orig.Phases[0].Tasks[0].Dependencies[0])
	assert.Equal(t, "ESP32", orig.TechnicalSolution.Hardware.Components[0])
	assert.Equal(t, RiskLevelHigh, orig.Risks[0].Level)

	var nilTpl *ProjectTemplate
	assert.Nil(t, nilTpl.Clone())
}
