package model

// InlineImage 以内联方式随请求发送的图片（base64 编码，不含 data: 前缀）
type InlineImage struct {
	Name     string
	MIMEType string
	Data     string
}

// CallOptions 单次 LLM 调用的 provider/model 覆盖项
type CallOptions struct {
	Provider        string
	Model           string
	ReasoningEffort string

	Temperature *float32
	MaxTokens   *int
}

// TemplateGenerateInput 项目模板生成输入
type TemplateGenerateInput struct {
	FunctionalReq string
	TechReq       string
	TeamSize      string
	Duration      string

	// FileNames 全部上传文件名（含图片），仅以名称写入提示词
	FileNames []string
	Images    []InlineImage

	CallOptions
}

// DetailPlanInput 技术方案详细展开输入
type DetailPlanInput struct {
	Kind        string // hardware / software
	Summary     string
	ProjectName string

	CallOptions
}

// AlternativesInput 候选建议查询输入
type AlternativesInput struct {
	Kind           string // hardware / software
	Item           string
	ProjectContext string

	CallOptions
}
