package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateJSONSchema_TopLevelRequired(t *testing.T) {
	s := TemplateJSONSchema()

	assert.Equal(t, "object", s["type"])
	assert.ElementsMatch(t, []any{"basicInfo", "phases", "estimates", "risks", "usage"}, s["required"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "technicalSolution")
	assert.NotContains(t, s["required"], "technicalSolution")
}

func TestTemplateJSONSchema_RiskLevelEnum(t *testing.T) {
	s := TemplateJSONSchema()
	props := s["properties"].(map[string]any)
	risk := props["risks"].(map[string]any)["items"].(map[string]any)
	level := risk["properties"].(map[string]any)["level"].(map[string]any)

	assert.Equal(t, []any{"High", "Medium", "Low"}, level["enum"])
	assert.ElementsMatch(t, []any{"description", "impactPhase", "level", "strategy"}, risk["required"])
}

func TestTemplateJSONSchema_ArraysOfObjectsListRequired(t *testing.T) {
	var walk func(path string, node map[string]any)
	walk = func(path string, node map[string]any) {
		switch node["type"] {
		case "array":
			items, ok := node["items"].(map[string]any)
			require.True(t, ok, path)
			if items["type"] == "object" {
				assert.NotEmpty(t, items["required"], path+"[]")
			}
			walk(path+"[]", items)
		case "object":
			props, _ := node["properties"].(map[string]any)
			for k, v := range props {
				walk(path+"."+k, v.(map[string]any))
			}
		}
	}
	walk("$", TemplateJSONSchema())
}

func TestTemplateJSONSchema_IconSuggestionRequired(t *testing.T) {
	props := TemplateJSONSchema()["properties"].(map[string]any)
	basic := props["basicInfo"].(map[string]any)
	assert.Contains(t, basic["required"], "iconSuggestion")
}

func TestTemplateJSONSchema_ReturnsFreshValue(t *testing.T) {
	a := TemplateJSONSchema()
	a["type"] = "mutated"
	assert.Equal(t, "object", TemplateJSONSchema()["type"])
}

func TestAlternativesJSONSchema(t *testing.T) {
	s := AlternativesJSONSchema()
	assert.Equal(t, "array", s["type"])
	assert.Equal(t, MaxAlternatives, s["maxItems"])
}
