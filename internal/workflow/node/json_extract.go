package node

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// 期望的顶层 JSON 值类型，以起始字节区分
const (
	JSONObject byte = '{'
	JSONArray  byte = '['
)

// ExtractJSON 返回模型输出中第一个以 open 开头且可完整解码的 JSON 值。
// 前后的说明文字、代码围栏以及其它类型的括号（如 "[1]" 引注）都会被跳过；
// 输出被截断时返回截断处的原文，找不到时原样返回去除空白后的文本，交由调用方报告解析错误。
func ExtractJSON(s string, open byte) string {
	raw := strings.TrimSpace(s)
	for i := strings.IndexByte(raw, open); i >= 0; {
		var v json.RawMessage
		err := json.NewDecoder(strings.NewReader(raw[i:])).Decode(&v)
		if err == nil {
			return string(v)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return raw[i:]
		}
		next := strings.IndexByte(raw[i+1:], open)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return raw
}
