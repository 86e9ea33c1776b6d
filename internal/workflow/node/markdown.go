package node

import (
	"regexp"
	"strings"
)

var brTagPattern = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)

// NormalizeMarkdown 清理模型输出的 Markdown：<br> 类标签替换为换行，去掉外层代码块围栏。
func NormalizeMarkdown(s string) string {
	out := brTagPattern.ReplaceAllString(s, "\n")
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "```") && strings.HasSuffix(out, "```") && len(out) > 6 {
		inner := strings.TrimSuffix(out, "```")
		if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
			lang := strings.TrimSpace(inner[3:nl])
			if lang == "" || strings.EqualFold(lang, "markdown") || strings.EqualFold(lang, "md") {
				out = strings.TrimSpace(inner[nl+1:])
			}
		}
	}
	return out
}
