package export

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

func baseName(projectName string) string {
	name := whitespaceRun.ReplaceAllString(projectName, "_")
	// 避免路径分隔符出现在下载文件名中
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" {
		return "project"
	}
	return name
}

// JSONFileName 例如 "智能 门锁" → "智能_门锁_template.json"
func JSONFileName(projectName string) string {
	return baseName(projectName) + "_template.json"
}

// WordFileName 例如 "智能 门锁" → "智能_门锁.doc"
func WordFileName(projectName string) string {
	return baseName(projectName) + ".doc"
}

// PrintFileName 打印版 HTML 文件名（CLI 写盘时使用）
func PrintFileName(projectName string) string {
	return baseName(projectName) + "_print.html"
}
