package planner

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"project-planner-ai/internal/domain/entity"
	wfnode "project-planner-ai/internal/workflow/node"
	plannerschema "project-planner-ai/internal/workflow/schema"
)

// maxIssues 单次解析最多收集的问题数
const maxIssues = 20

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ParseTemplate 将模型输出文本解析为项目模板。
// schema 对模型只是建议：这里按同一份 schema 做存在性/类型检查，再做强类型解码和结构校验。
func ParseTemplate(text string) (*entity.ProjectTemplate, error) {
	raw := wfnode.ExtractJSON(text, wfnode.JSONObject)
	if raw == "" {
		return nil, &ParseError{Issues: []string{"empty response"}}
	}
	if !gjson.Valid(raw) {
		return nil, &ParseError{Issues: []string{"invalid JSON"}, Raw: raw}
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, &ParseError{Issues: []string{"top-level value must be an object"}, Raw: raw}
	}

	var issues []string
	checkShape(root, plannerschema.TemplateJSONSchema(), "$", &issues)
	if len(issues) > 0 {
		return nil, &ParseError{Issues: issues, Raw: raw}
	}

	var tpl entity.ProjectTemplate
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		return nil, &ParseError{Issues: []string{err.Error()}, Raw: raw, Err: err}
	}

	if err := structValidator().Struct(&tpl); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = appendIssue(issues, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			issues = appendIssue(issues, err.Error())
		}
		return nil, &ParseError{Issues: issues, Raw: raw, Err: err}
	}

	return &tpl, nil
}

// checkShape 按 schema 递归检查：required 字段存在且非 null、类型匹配、枚举取值
func checkShape(v gjson.Result, node map[string]any, path string, issues *[]string) {
	if len(*issues) >= maxIssues {
		return
	}
	typ, _ := node["type"].(string)
	if !typeMatches(v, typ) {
		*issues = appendIssue(*issues, fmt.Sprintf("%s: expected %s", path, typ))
		return
	}

	switch typ {
	case "object":
		props, _ := node["properties"].(map[string]any)
		required, _ := node["required"].([]any)
		for _, r := range required {
			key, _ := r.(string)
			if f := v.Get(gjsonKey(key)); !f.Exists() || f.Type == gjson.Null {
				*issues = appendIssue(*issues, fmt.Sprintf("%s.%s: required", path, key))
			}
		}
		for key, p := range props {
			child, ok := p.(map[string]any)
			if !ok {
				continue
			}
			f := v.Get(gjsonKey(key))
			if !f.Exists() || f.Type == gjson.Null {
				continue
			}
			checkShape(f, child, path+"."+key, issues)
		}
	case "array":
		if minItems, ok := node["minItems"].(int); ok && len(v.Array()) < minItems {
			*issues = appendIssue(*issues, fmt.Sprintf("%s: expected at least %d items", path, minItems))
		}
		items, _ := node["items"].(map[string]any)
		if items == nil {
			return
		}
		for i, item := range v.Array() {
			checkShape(item, items, fmt.Sprintf("%s[%d]", path, i), issues)
		}
	case "string":
		if enum, ok := node["enum"].([]any); ok && !slices.Contains(enum, any(v.String())) {
			*issues = appendIssue(*issues, fmt.Sprintf("%s: %q is not one of %v", path, v.String(), enum))
		}
	}
}

func typeMatches(v gjson.Result, typ string) bool {
	switch typ {
	case "object":
		return v.IsObject()
	case "array":
		return v.IsArray()
	case "string":
		return v.Type == gjson.String
	case "integer":
		return v.Type == gjson.Number && v.Num == math.Trunc(v.Num)
	case "boolean":
		return v.Type == gjson.True || v.Type == gjson.False
	default:
		return true
	}
}

// gjsonKey 转义 gjson 路径中的特殊字符
func gjsonKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(key)
}

func appendIssue(issues []string, issue string) []string {
	if len(issues) >= maxIssues {
		return issues
	}
	return append(issues, issue)
}
