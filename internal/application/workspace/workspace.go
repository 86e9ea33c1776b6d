// Package workspace 维护单个浏览器会话的工作区状态：表单、上传文件、当前模板、错误提示与标签编辑。
//
// 所有状态由互斥锁保护，后端调用在锁外进行；模板只做整体替换。
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/domain/entity"
	apperrors "project-planner-ai/pkg/errors"
	"project-planner-ai/pkg/logger"
	"project-planner-ai/pkg/metrics"
)

// ErrBusy 已有同类操作在进行中（触发按钮处于禁用态），本次请求不生效
var ErrBusy = apperrors.New(apperrors.CodeConflict, "操作进行中，请稍候")

// ErrTemplateReplaced 详细方案返回时模板已被整体替换，结果已丢弃
var ErrTemplateReplaced = apperrors.New(apperrors.CodeConflict, "模板已更新，详细方案已丢弃")

// TeamSizes 团队规模选项
var TeamSizes = []string{"1-5人", "6-10人", "11-20人", "20人以上"}

// Generator 工作区依赖的生成能力（由 planner.Client 实现）
type Generator interface {
	GenerateTemplate(ctx context.Context, in planner.GenerateInput) (*entity.ProjectTemplate, error)
	GenerateDetailedPlan(ctx context.Context, kind entity.SolutionKind, summaryJSON, projectName string) (string, error)
	GetAlternatives(ctx context.Context, kind entity.SolutionKind, currentItem, projectContext string) []string
}

// Form 表单字段
type Form struct {
	FunctionalReq string `json:"functionalReq" form:"functional_req"`
	TechReq       string `json:"techReq" form:"tech_req"`
	TeamSize      string `json:"teamSize" form:"team_size"`
	Duration      string `json:"duration" form:"duration"`
}

// Options 工作区限制
type Options struct {
	MaxFiles       int
	MaxUploadBytes int64
}

// Workspace 单会话工作区
type Workspace struct {
	mu   sync.Mutex
	gen  Generator
	opts Options

	form     Form
	files    []planner.FileInput
	loading  bool
	template *entity.ProjectTemplate
	errMsg   string
	alert    string

	detailLoading entity.SolutionKind
	editor        *editor

	// genInFlight / detailInFlight 只由返回的后端调用清除；Reset 只清空展示状态，
	// 调用返回之前新的生成/展开仍然返回 ErrBusy
	genInFlight    bool
	detailInFlight bool

	// epoch 在 Reset 时递增，用于丢弃 Reset 之前发起的调用结果
	epoch uint64
	// revision 在模板被整体替换（生成成功、Restore）时递增；标签编辑与详细方案合并不改变它
	revision uint64
}

// New 创建空工作区
func New(gen Generator, opts Options) *Workspace {
	return &Workspace{gen: gen, opts: opts, editor: newEditor()}
}

// FileView 上传文件的只读视图
type FileView struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Inline   bool   `json:"inline"`
}

// Snapshot 工作区只读快照，可安全用于渲染与导出
type Snapshot struct {
	Form          Form                    `json:"form"`
	Files         []FileView              `json:"files"`
	Loading       bool                    `json:"loading"`
	Template      *entity.ProjectTemplate `json:"template"`
	Error         string                  `json:"error,omitempty"`
	Alert         string                  `json:"alert,omitempty"`
	DetailLoading entity.SolutionKind     `json:"detailLoading,omitempty"`
	Editing       []TagEditSession        `json:"editing"`
}

// EditingAt 返回指定标签的编辑会话（不存在返回 nil）
func (s Snapshot) EditingAt(kind entity.SolutionKind, index int) *TagEditSession {
	for i := range s.Editing {
		if s.Editing[i].Kind == kind && s.Editing[i].Index == index {
			return &s.Editing[i]
		}
	}
	return nil
}

// Snapshot 返回当前状态的深拷贝
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() Snapshot {
	files := make([]FileView, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, FileView{Name: f.Name, MIMEType: f.MIMEType, Inline: f.IsInlineImage()})
	}
	return Snapshot{
		Form:          w.form,
		Files:         files,
		Loading:       w.loading,
		Template:      w.template.Clone(),
		Error:         w.errMsg,
		Alert:         w.alert,
		DetailLoading: w.detailLoading,
		Editing:       w.editor.views(),
	}
}

// Template 返回当前模板的深拷贝（无模板返回 ErrTemplateNotFound）
func (w *Workspace) Template() (*entity.ProjectTemplate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.template == nil {
		return nil, apperrors.ErrTemplateNotFound
	}
	return w.template.Clone(), nil
}

// SetForm 更新表单字段
func (w *Workspace) SetForm(f Form) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = f
}

// AddFiles 追加上传文件：图片读取为 base64，其余仅记录名称
func (w *Workspace) AddFiles(ctx context.Context, uploads []Upload) error {
	added, err := w.readUploads(ctx, uploads)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appendFilesLocked(added)
}

func (w *Workspace) readUploads(ctx context.Context, uploads []Upload) ([]planner.FileInput, error) {
	for _, u := range uploads {
		if !IsAcceptedUpload(u.Name, u.ContentType) {
			return nil, &planner.ValidationError{Message: "不支持的文件类型：" + u.Name}
		}
	}

	added := make([]planner.FileInput, 0, len(uploads))
	for _, u := range uploads {
		f, err := readUpload(u, w.opts.MaxUploadBytes)
		if err != nil {
			logger.Warn(ctx, "failed to read upload", "name", u.Name, "error", err.Error())
			return nil, err
		}
		added = append(added, f)
	}
	return added, nil
}

func (w *Workspace) appendFilesLocked(added []planner.FileInput) error {
	if w.opts.MaxFiles > 0 && len(w.files)+len(added) > w.opts.MaxFiles {
		return &planner.ValidationError{Message: "上传文件数量超过限制"}
	}
	w.files = append(w.files, added...)
	return nil
}

// RemoveFile 移除第 i 个上传文件
func (w *Workspace) RemoveFile(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.files) {
		return apperrors.ErrFileNotFound
	}
	w.files = slices.Delete(w.files, i, i+1)
	return nil
}

// Generate 以当前表单与文件生成模板。
// 已在生成中时返回 ErrBusy；失败时保留原有模板并记录错误信息；调用一旦发出不可取消。
func (w *Workspace) Generate(ctx context.Context, form Form) (*entity.ProjectTemplate, error) {
	return w.Submit(ctx, form, nil)
}

// Submit 一次提交表单、追加文件并生成。
// 忙碌检查先于任何修改：生成进行中时表单与文件保持不变，直接返回 ErrBusy。
func (w *Workspace) Submit(ctx context.Context, form Form, uploads []Upload) (*entity.ProjectTemplate, error) {
	w.mu.Lock()
	if w.genInFlight {
		w.mu.Unlock()
		metrics.TemplateGenerationTotal.WithLabelValues("busy").Inc()
		return nil, ErrBusy
	}
	w.genInFlight = true
	epoch := w.epoch
	w.mu.Unlock()

	var added []planner.FileInput
	if len(uploads) > 0 {
		var err error
		if added, err = w.readUploads(ctx, uploads); err != nil {
			w.mu.Lock()
			w.genInFlight = false
			w.recordValidationLocked(err)
			w.mu.Unlock()
			return nil, err
		}
	}

	w.mu.Lock()
	if epoch != w.epoch {
		w.genInFlight = false
		w.mu.Unlock()
		return nil, context.Canceled
	}
	if err := w.appendFilesLocked(added); err != nil {
		w.genInFlight = false
		w.recordValidationLocked(err)
		w.mu.Unlock()
		return nil, err
	}
	w.form = form
	in := planner.GenerateInput{
		FunctionalReq: form.FunctionalReq,
		TechReq:       form.TechReq,
		TeamSize:      form.TeamSize,
		Duration:      form.Duration,
		Files:         slices.Clone(w.files),
	}
	if err := planner.ValidateInput(in); err != nil {
		w.errMsg = planner.UserMessage(err)
		w.genInFlight = false
		w.mu.Unlock()
		return nil, err
	}
	w.loading = true
	w.errMsg = ""
	w.mu.Unlock()

	tpl, err := w.gen.GenerateTemplate(context.WithoutCancel(ctx), in)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.genInFlight = false
	if epoch != w.epoch {
		// Reset 之后返回的结果直接丢弃
		return nil, context.Canceled
	}
	w.loading = false
	if err != nil {
		w.errMsg = planner.UserMessage(err)
		return nil, err
	}
	w.template = tpl
	w.revision++
	w.alert = ""
	w.editor.reset()
	return tpl.Clone(), nil
}

// recordValidationLocked 上传被拒绝时在错误横幅中提示原因
func (w *Workspace) recordValidationLocked(err error) {
	var ve *planner.ValidationError
	if errors.As(err, &ve) {
		w.errMsg = ve.Message
	}
}

// Restore 以外部模板（如先前导出的 JSON）整体替换当前模板，编辑状态随之清空
func (w *Workspace) Restore(t *entity.ProjectTemplate) error {
	if t == nil {
		return apperrors.ErrTemplateNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.genInFlight {
		return ErrBusy
	}
	w.template = t.Clone()
	w.revision++
	w.alert = ""
	w.editor.reset()
	return nil
}

// Reset 原子地清空表单、文件、模板、错误与编辑状态。
// 已发出的后端调用不会被取消，其结果返回后丢弃；在此之前同类请求仍为忙碌。
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = Form{}
	w.files = nil
	w.loading = false
	w.template = nil
	w.errMsg = ""
	w.alert = ""
	w.detailLoading = ""
	w.editor.reset()
	w.epoch++
}

// DismissError 关闭错误横幅
func (w *Workspace) DismissError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errMsg = ""
}

// DismissAlert 关闭详细方案失败提示
func (w *Workspace) DismissAlert() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alert = ""
}

// ExpandDetail 为指定分区生成详细方案并合并到当前模板；同一时间只允许一个展开
func (w *Workspace) ExpandDetail(ctx context.Context, kind entity.SolutionKind) (string, error) {
	w.mu.Lock()
	if w.template == nil {
		w.mu.Unlock()
		return "", apperrors.ErrTemplateNotFound
	}
	if !w.template.HasSection(kind) {
		w.mu.Unlock()
		return "", apperrors.ErrSectionNotFound.WithDetail(string(kind))
	}
	if w.detailLoading != "" {
		w.mu.Unlock()
		return "", ErrBusy
	}
	if w.detailInFlight {
		w.mu.Unlock()
		return "", ErrBusy
	}
	summary, err := sectionSummary(w.template, kind)
	if err != nil {
		w.mu.Unlock()
		return "", err
	}
	name := w.template.BasicInfo.Name
	w.detailLoading = kind
	w.detailInFlight = true
	w.alert = ""
	epoch, revision := w.epoch, w.revision
	w.mu.Unlock()

	start := time.Now()
	plan, err := w.gen.GenerateDetailedPlan(context.WithoutCancel(ctx), kind, summary, name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.detailInFlight = false
	if epoch != w.epoch {
		return "", context.Canceled
	}
	w.detailLoading = ""
	if revision != w.revision {
		// 展开期间模板已被重新生成或替换，旧项目的方案不能写入新模板
		logger.Info(ctx, "detail plan discarded, template replaced", "kind", kind)
		return "", ErrTemplateReplaced
	}
	if err != nil {
		w.alert = planner.MsgDetailPlanFailed
		return "", err
	}
	// 合并到最新模板：展开期间的标签编辑不会被覆盖
	next, err := w.template.WithDetailedPlan(kind, plan)
	if err != nil {
		w.alert = planner.MsgDetailPlanFailed
		return "", err
	}
	w.template = next
	logger.Info(ctx, "detail plan merged", "kind", kind, "duration_ms", time.Since(start).Milliseconds())
	return plan, nil
}

// sectionSummary 序列化分区内容作为详细方案的摘要参考
func sectionSummary(t *entity.ProjectTemplate, kind entity.SolutionKind) (string, error) {
	var v any
	switch kind {
	case entity.SolutionHardware:
		hw := *t.TechnicalSolution.Hardware
		hw.DetailedPlan = ""
		v = hw
	default:
		sw := *t.TechnicalSolution.Software
		sw.DetailedPlan = ""
		v = sw
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
