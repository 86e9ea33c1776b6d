package node

import "strings"

// responseFormatMarkers 供应商拒绝结构化输出参数时错误信息中的特征片段；
// 每组内的片段需同时出现
var responseFormatMarkers = [][]string{
	{"response_format"},
	{"response_schema"},
	{"json_schema"},
	{"unknown parameter", "response"},
	{"invalid", "response"},
	{"failed to parse"},
}

// IsResponseFormatUnsupportedError 判断错误是否因为供应商不支持 json_schema 输出，
// 命中时链路会退化为仅靠提示词约束 JSON 重试一次
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, group := range responseFormatMarkers {
		if containsAll(msg, group) {
			return true
		}
	}
	return false
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
