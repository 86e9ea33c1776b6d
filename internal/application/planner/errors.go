package planner

import (
	stderrors "errors"
	"strings"

	apperrors "project-planner-ai/pkg/errors"
)

const (
	// MsgInputRequired 本地校验失败提示
	MsgInputRequired = "请至少填写功能需求说明或上传文件"
	// MsgGenerateFailed 生成失败且后端未给出信息时的兜底提示
	MsgGenerateFailed = "生成项目模板失败，请重试"
	// MsgDetailPlanFailed 详细方案生成失败提示
	MsgDetailPlanFailed = "生成详细方案失败"
)

// ValidationError 本地输入校验失败，不会发起任何后端调用
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// GenerationError 后端调用失败或返回空文本
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return MsgGenerateFailed
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError 后端文本不是合法 JSON 或不满足模板结构
type ParseError struct {
	Issues []string
	// Raw 提取出的 JSON 文本（可能为空），用于排查
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	msg := "模型返回的内容无法解析为项目模板"
	if len(e.Issues) > 0 {
		msg += ": " + strings.Join(e.Issues, "; ")
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage 返回面向用户的错误文案：优先使用错误自身信息，否则兜底
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgGenerateFailed
}

// ToAppError 将规划错误映射为统一的 AppError（HTTP 层使用）
func ToAppError(err error) *apperrors.AppError {
	var (
		ve  *ValidationError
		ge  *GenerationError
		pe  *ParseError
		app *apperrors.AppError
	)
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &ve):
		return apperrors.ErrValidationFailed.WithDetail(ve.Message)
	case stderrors.As(err, &pe):
		return apperrors.ErrParseFailed.WithDetail(pe.Error()).WithError(err)
	case stderrors.As(err, &ge):
		return apperrors.ErrGenerationFailed.WithDetail(UserMessage(ge)).WithError(err)
	case stderrors.As(err, &app):
		return app
	default:
		return apperrors.Wrap(err, apperrors.CodeInternalError, "internal server error")
	}
}
