package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/interfaces/http/dto"
	"project-planner-ai/internal/interfaces/http/view"
	"project-planner-ai/pkg/logger"
)

// PageHandler 单页界面：GET 渲染，表单提交后重定向回首页（PRG）
type PageHandler struct {
	workspaces Workspaces
}

// NewPageHandler 创建页面处理器
func NewPageHandler(workspaces Workspaces) *PageHandler {
	return &PageHandler{workspaces: workspaces}
}

func (h *PageHandler) redirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// notice 操作失败且错误未记录在工作区状态中时，直接渲染页面并附带提示
func (h *PageHandler) notice(c *gin.Context, ws *workspace.Workspace, err error) {
	appErr := planner.ToAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := appErr.Message
	if appErr.Detail != "" {
		msg = appErr.Detail
	}
	logger.Warn(c.Request.Context(), "page action rejected", "path", c.FullPath(), "error", err.Error())
	c.HTML(status, view.PageTemplate, view.NewPage(ws.Snapshot(), msg))
}

// recorded 这些错误已体现在工作区状态（错误横幅/提示/禁用态）中，只需重定向
func recorded(err error) bool {
	var (
		ve *planner.ValidationError
		ge *planner.GenerationError
		pe *planner.ParseError
	)
	return errors.Is(err, workspace.ErrBusy) ||
		errors.Is(err, context.Canceled) ||
		errors.As(err, &ve) ||
		errors.As(err, &ge) ||
		errors.As(err, &pe)
}

// Index 渲染主页面
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageTemplate, view.NewPage(currentWorkspace(c, h.workspaces).Snapshot(), ""))
}

// Generate 提交表单与本次选择的文件并生成模板；生成进行中时不修改任何状态
func (h *PageHandler) Generate(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)

	var form workspace.Form
	if err := c.ShouldBind(&form); err != nil {
		h.notice(c, ws, &planner.ValidationError{Message: err.Error()})
		return
	}
	uploads, err := uploadsFromRequest(c)
	if err != nil {
		h.notice(c, ws, err)
		return
	}

	if _, err := ws.Submit(c.Request.Context(), form, uploads); err != nil && !recorded(err) {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// RemoveFile 移除上传文件
func (h *PageHandler) RemoveFile(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	index, err := pathIndex(c)
	if err == nil {
		err = ws.RemoveFile(index)
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// Reset 清空工作区
func (h *PageHandler) Reset(c *gin.Context) {
	currentWorkspace(c, h.workspaces).Reset()
	h.redirect(c)
}

// DismissError 关闭错误横幅
func (h *PageHandler) DismissError(c *gin.Context) {
	currentWorkspace(c, h.workspaces).DismissError()
	h.redirect(c)
}

// DismissAlert 关闭详细方案失败提示
func (h *PageHandler) DismissAlert(c *gin.Context) {
	currentWorkspace(c, h.workspaces).DismissAlert()
	h.redirect(c)
}

// ExpandDetail 生成详细方案；失败时工作区设置提示
func (h *PageHandler) ExpandDetail(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, err := pathKind(c)
	if err == nil {
		_, err = ws.ExpandDetail(c.Request.Context(), kind)
	}
	if err != nil && !recorded(err) && ws.Snapshot().Alert == "" {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// AppendTag 追加占位标签并进入编辑
func (h *PageHandler) AppendTag(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, err := pathKind(c)
	if err == nil {
		_, err = ws.AppendTag(c.Request.Context(), kind)
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// BeginEdit 打开标签编辑器
func (h *PageHandler) BeginEdit(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, index, err := pathTag(c)
	if err == nil {
		_, err = ws.BeginEdit(c.Request.Context(), kind, index)
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// RefreshSuggestions 换一批候选
func (h *PageHandler) RefreshSuggestions(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, index, err := pathTag(c)
	if err == nil {
		_, err = ws.RefreshSuggestions(c.Request.Context(), kind, index)
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// SaveTag 保存标签（输入框内容或点选的候选）
func (h *PageHandler) SaveTag(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, index, err := pathTag(c)
	if err == nil {
		var req dto.SaveTagRequest
		if err = c.ShouldBind(&req); err == nil {
			_, err = ws.SaveTag(kind, index, req.Chosen())
		}
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// DeleteTag 删除标签
func (h *PageHandler) DeleteTag(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, index, err := pathTag(c)
	if err == nil {
		_, err = ws.DeleteTag(kind, index)
	}
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	h.redirect(c)
}

// CancelEdit 取消编辑
func (h *PageHandler) CancelEdit(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	kind, index, err := pathTag(c)
	if err != nil {
		h.notice(c, ws, err)
		return
	}
	ws.CancelEdit(kind, index)
	h.redirect(c)
}
