// Package schema 定义发送给模型的结构化输出约束（JSON Schema）。
//
// schema 仅作为对模型的建议约束；接收侧仍需按同一份 required 列表做运行时校验。
package schema

// RiskLevels 风险等级枚举（区分大小写），与运行时校验共用
var RiskLevels = []string{"High", "Medium", "Low"}

// TemplateRequired 项目模板顶层必填字段；technicalSolution 为可选
var TemplateRequired = []string{"basicInfo", "phases", "estimates", "risks", "usage"}

// MaxAlternatives 候选建议数量上限
const MaxAlternatives = 4

func str() map[string]any { return map[string]any{"type": "string"} }

func integer() map[string]any { return map[string]any{"type": "integer"} }

func boolean() map[string]any { return map[string]any{"type": "boolean"} }

func strArray() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

func object(required []string, props map[string]any) map[string]any {
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = toAny(required)
	}
	return out
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func toAny(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

// TemplateJSONSchema 返回项目模板的 JSON Schema，与领域模型一一对应。
// 每次调用返回新值，调用方可自由修改。
func TemplateJSONSchema() map[string]any {
	task := object(
		[]string{"name", "description", "output", "role", "dependencies"},
		map[string]any{
			"name":         str(),
			"description":  str(),
			"output":       str(),
			"role":         str(),
			"dependencies": strArray(),
		},
	)
	phase := object(
		[]string{"name", "goal", "keyOutput", "isMilestone", "tasks"},
		map[string]any{
			"name":        str(),
			"goal":        str(),
			"keyOutput":   str(),
			"isMilestone": boolean(),
			"tasks":       arrayOf(task),
		},
	)
	phases := arrayOf(phase)
	phases["minItems"] = 1

	risk := object(
		[]string{"description", "impactPhase", "level", "strategy"},
		map[string]any{
			"description": str(),
			"impactPhase": str(),
			"level":       map[string]any{"type": "string", "enum": toAny(RiskLevels)},
			"strategy":    str(),
		},
	)

	return object(TemplateRequired, map[string]any{
		"basicInfo": object(
			[]string{"name", "type", "iconSuggestion", "scenario", "features"},
			map[string]any{
				"name":           str(),
				"type":           str(),
				"iconSuggestion": str(),
				"scenario":       str(),
				"features":       strArray(),
			},
		),
		"technicalSolution": object(nil, map[string]any{
			"hardware": object(
				[]string{"scheme", "components", "designPoints"},
				map[string]any{
					"scheme":       str(),
					"components":   strArray(),
					"designPoints": strArray(),
				},
			),
			"software": object(
				[]string{"languages", "frameworks", "architecture"},
				map[string]any{
					"languages":    strArray(),
					"frameworks":   strArray(),
					"architecture": str(),
				},
			),
		}),
		"phases": phases,
		"estimates": object(
			[]string{"totalDuration", "phaseDurations", "teamStructure"},
			map[string]any{
				"totalDuration": str(),
				"phaseDurations": arrayOf(object(
					[]string{"phaseName", "days"},
					map[string]any{"phaseName": str(), "days": integer()},
				)),
				"teamStructure": arrayOf(object(
					[]string{"role", "count"},
					map[string]any{"role": str(), "count": integer()},
				)),
			},
		),
		"risks": arrayOf(risk),
		"usage": object(
			[]string{"suitability", "notes", "complexity"},
			map[string]any{
				"suitability": str(),
				"notes":       str(),
				"complexity":  str(),
			},
		),
	})
}

// AlternativesJSONSchema 返回候选建议列表的 JSON Schema
func AlternativesJSONSchema() map[string]any {
	out := strArray()
	out["maxItems"] = MaxAlternatives
	return out
}
