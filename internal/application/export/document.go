package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"project-planner-ai/internal/config"
	"project-planner-ai/internal/domain/entity"
	apperrors "project-planner-ai/pkg/errors"
	"project-planner-ai/pkg/metrics"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const (
	// WordContentType Word 兼容 HTML 文档的 MIME 类型
	WordContentType = "application/msword"
	// PrintContentType 打印版 HTML 的 MIME 类型
	PrintContentType = "text/html; charset=utf-8"

	utf8BOM = "\ufeff"
)

// 导出格式，同时作为指标标签
const (
	FormatJSON  = "json"
	FormatWord  = "word"
	FormatPrint = "pdf"
)

// PageSetup 打印版式
type PageSetup struct {
	Size        string
	Orientation string
	MarginMM    int
	Scale       float64
}

// document 模板渲染上下文
type document struct {
	Template       *entity.ProjectTemplate
	Chart          []ChartBar
	HardwareDetail template.HTML
	SoftwareDetail template.HTML
	Page           PageSetup
	AutoPrint      bool
}

// Renderer 文档导出器，模板在构造时解析一次
type Renderer struct {
	word  *template.Template
	print *template.Template
	page  PageSetup
}

// Funcs 页面与导出模板共用的模板函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"join":       strings.Join,
		"typeIcon":   TypeIcon,
		"riskClass":  RiskClass,
		"chartLabel": ChartLabel,
		"inc":        func(i int) int { return i + 1 },
		"markdown":   RenderMarkdown,
	}
}

// NewRenderer 创建导出器
func NewRenderer(cfg config.PDFExportConfig) (*Renderer, error) {
	word, err := template.New("word.html.tmpl").Funcs(Funcs()).ParseFS(templateFS, "templates/word.html.tmpl")
	if err != nil {
		return nil, err
	}
	printTpl, err := template.New("print.html.tmpl").Funcs(Funcs()).ParseFS(templateFS, "templates/print.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{word: word, print: printTpl, page: pageSetup(cfg)}, nil
}

func pageSetup(cfg config.PDFExportConfig) PageSetup {
	p := PageSetup{
		Size:        cfg.PageSize,
		Orientation: cfg.Orientation,
		MarginMM:    cfg.MarginMM,
		Scale:       cfg.Scale,
	}
	if p.Size == "" {
		p.Size = "A4"
	}
	if p.Orientation == "" {
		p.Orientation = "portrait"
	}
	if p.MarginMM <= 0 {
		p.MarginMM = 10
	}
	if p.Scale <= 0 {
		p.Scale = 2
	}
	return p
}

// Page 返回生效的打印版式
func (r *Renderer) Page() PageSetup {
	return r.page
}

func (r *Renderer) newDocument(t *entity.ProjectTemplate) document {
	doc := document{
		Template: t,
		Chart:    PhaseChart(t.Estimates.PhaseDurations),
		Page:     r.page,
	}
	if t.HasHardware() {
		doc.HardwareDetail = RenderMarkdown(t.TechnicalSolution.Hardware.DetailedPlan)
	}
	if t.HasSoftware() {
		doc.SoftwareDetail = RenderMarkdown(t.TechnicalSolution.Software.DetailedPlan)
	}
	return doc
}

// JSON 导出 JSON 并记录指标
func (r *Renderer) JSON(t *entity.ProjectTemplate) ([]byte, error) {
	out, err := JSON(t)
	record(FormatJSON, err)
	return out, err
}

// Word 导出 Word 可打开的 HTML 文档（带 UTF-8 BOM，所有文本均经 HTML 转义）
func (r *Renderer) Word(t *entity.ProjectTemplate) ([]byte, error) {
	out, err := r.render(r.word, t, false, utf8BOM)
	record(FormatWord, err)
	return out, err
}

// Print 导出适合浏览器"打印为 PDF"的 HTML 页面。
// autoPrint 为 true 时页面加载后自动弹出打印对话框。
func (r *Renderer) Print(t *entity.ProjectTemplate, autoPrint bool) ([]byte, error) {
	out, err := r.render(r.print, t, autoPrint, "")
	record(FormatPrint, err)
	return out, err
}

func (r *Renderer) render(tpl *template.Template, t *entity.ProjectTemplate, autoPrint bool, prefix string) ([]byte, error) {
	if t == nil {
		return nil, apperrors.ErrTemplateNotFound
	}
	doc := r.newDocument(t)
	doc.AutoPrint = autoPrint

	var buf bytes.Buffer
	buf.WriteString(prefix)
	if err := tpl.Execute(&buf, doc); err != nil {
		return nil, apperrors.ErrExportFailed.WithError(err)
	}
	return buf.Bytes(), nil
}

func record(format string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ExportTotal.WithLabelValues(format, status).Inc()
}
