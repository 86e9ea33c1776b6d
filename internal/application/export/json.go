package export

import (
	"bytes"
	"encoding/json"

	"project-planner-ai/internal/domain/entity"
	apperrors "project-planner-ai/pkg/errors"
)

// JSONContentType JSON 导出的 MIME 类型
const JSONContentType = "application/json; charset=utf-8"

// JSON 以 2 空格缩进序列化模板（不转义 HTML 字符）
func JSON(t *entity.ProjectTemplate) ([]byte, error) {
	if t == nil {
		return nil, apperrors.ErrTemplateNotFound
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
