package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FormatsAllPrompts(t *testing.T) {
	r := NewRegistry()
	cases := map[PromptID]map[string]any{
		PromptTemplatePlanV1: {
			"functional_req": "智能门锁",
			"tech_req":       "低功耗",
			"file_names":     "a.pdf, b.png",
			"duration":       "3",
			"team_size":      "6-10人",
		},
		PromptDetailPlanV1: {
			"project_name": "门锁",
			"plan_title":   "硬件 BOM 与说明",
			"summary":      `{"scheme":"x"}`,
		},
		PromptAlternativesV1: {
			"project_context": "门锁",
			"item_kind":       "hardware component",
			"item":            "ESP32",
		},
	}

	for id, vars := range cases {
		tpl, err := r.ChatTemplate(id)
		require.NoError(t, err, id)

		msgs, err := tpl.Format(context.Background(), vars)
		require.NoError(t, err, id)
		require.Len(t, msgs, 2, id)
		assert.Equal(t, schema.System, msgs[0].Role)
		assert.Equal(t, schema.User, msgs[1].Role)
	}
}

func TestRegistry_TemplatePromptEmbedsInputs(t *testing.T) {
	tpl, err := NewRegistry().ChatTemplate(PromptTemplatePlanV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"functional_req": "智能门锁",
		"tech_req":       "低功耗",
		"file_names":     "requirements.pdf",
		"duration":       "3",
		"team_size":      "1-5人",
	})
	require.NoError(t, err)
	user := msgs[1].Content
	assert.Contains(t, user, "需求背景：[智能门锁]")
	assert.Contains(t, user, "参考文档：[requirements.pdf]")
	assert.Contains(t, user, "预估周期：[3个月]")
	assert.Contains(t, user, "预估资源：[1-5人]")
}

func TestRegistry_CachesTemplates(t *testing.T) {
	r := NewRegistry()
	a, err := r.ChatTemplate(PromptAlternativesV1)
	require.NoError(t, err)
	b, err := r.ChatTemplate(PromptAlternativesV1)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestRegistry_UnknownPrompt(t *testing.T) {
	_, err := NewRegistry().ChatTemplate("nope")
	assert.Error(t, err)
}
