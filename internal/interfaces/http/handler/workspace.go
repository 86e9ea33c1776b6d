package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/interfaces/http/dto"
	apperrors "project-planner-ai/pkg/errors"
)

// WorkspaceHandler 工作区 JSON API，语义与页面操作一致
type WorkspaceHandler struct {
	workspaces Workspaces
}

// NewWorkspaceHandler 创建工作区处理器
func NewWorkspaceHandler(workspaces Workspaces) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// fail 统一错误输出；Reset 导致的结果丢弃按冲突处理
func fail(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		err = apperrors.ErrConflict.WithDetail("workspace was reset while the request was running")
	}
	dto.FromError(c, err)
}

// Get 返回工作区快照
// @Router /v1/workspace [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	dto.Success(c, currentWorkspace(c, h.workspaces).Snapshot())
}

// UploadFiles 追加上传文件（multipart 字段 files）
// @Router /v1/workspace/files [post]
func (h *WorkspaceHandler) UploadFiles(c *gin.Context) {
	uploads, err := uploadsFromRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	if len(uploads) == 0 {
		dto.BadRequest(c, "no files uploaded")
		return
	}
	ws := currentWorkspace(c, h.workspaces)
	if err := ws.AddFiles(c.Request.Context(), uploads); err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, ws.Snapshot().Files)
}

// RemoveFile 移除上传文件
// @Router /v1/workspace/files/{index} [delete]
func (h *WorkspaceHandler) RemoveFile(c *gin.Context) {
	index, err := pathIndex(c)
	if err != nil {
		fail(c, err)
		return
	}
	ws := currentWorkspace(c, h.workspaces)
	if err := ws.RemoveFile(index); err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, ws.Snapshot().Files)
}

// Generate 生成项目模板（阻塞直至完成）
// @Router /v1/workspace/generate [post]
func (h *WorkspaceHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	tpl, err := currentWorkspace(c, h.workspaces).Generate(c.Request.Context(), req.Form())
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, tpl)
}

// Reset 清空工作区
// @Router /v1/workspace/reset [post]
func (h *WorkspaceHandler) Reset(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	ws.Reset()
	dto.Success(c, ws.Snapshot())
}

// ExpandDetail 生成并合并指定分区的详细方案
// @Router /v1/workspace/detail/{kind} [post]
func (h *WorkspaceHandler) ExpandDetail(c *gin.Context) {
	kind, err := pathKind(c)
	if err != nil {
		fail(c, err)
		return
	}
	ws := currentWorkspace(c, h.workspaces)
	plan, err := ws.ExpandDetail(c.Request.Context(), kind)
	if err != nil {
		fail(c, err)
		return
	}
	tpl, err := ws.Template()
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, dto.DetailPlanResponse{Kind: kind, DetailedPlan: plan, Template: tpl})
}

// AppendTag 追加占位标签并打开其编辑器
// @Router /v1/workspace/tags/{kind} [post]
func (h *WorkspaceHandler) AppendTag(c *gin.Context) {
	kind, err := pathKind(c)
	if err != nil {
		fail(c, err)
		return
	}
	session, err := currentWorkspace(c, h.workspaces).AppendTag(c.Request.Context(), kind)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, session)
}

// BeginEdit 打开标签编辑器（首次打开时获取候选建议）
// @Router /v1/workspace/tags/{kind}/{index}/edit [post]
func (h *WorkspaceHandler) BeginEdit(c *gin.Context) {
	kind, index, err := pathTag(c)
	if err != nil {
		fail(c, err)
		return
	}
	session, err := currentWorkspace(c, h.workspaces).BeginEdit(c.Request.Context(), kind, index)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, session)
}

// RefreshSuggestions 重新获取候选建议
// @Router /v1/workspace/tags/{kind}/{index}/refresh [post]
func (h *WorkspaceHandler) RefreshSuggestions(c *gin.Context) {
	kind, index, err := pathTag(c)
	if err != nil {
		fail(c, err)
		return
	}
	session, err := currentWorkspace(c, h.workspaces).RefreshSuggestions(c.Request.Context(), kind, index)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, session)
}

// SaveTag 保存标签
// @Router /v1/workspace/tags/{kind}/{index} [put]
func (h *WorkspaceHandler) SaveTag(c *gin.Context) {
	kind, index, err := pathTag(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req dto.SaveTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	tpl, err := currentWorkspace(c, h.workspaces).SaveTag(kind, index, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, tpl)
}

// DeleteTag 删除标签
// @Router /v1/workspace/tags/{kind}/{index} [delete]
func (h *WorkspaceHandler) DeleteTag(c *gin.Context) {
	kind, index, err := pathTag(c)
	if err != nil {
		fail(c, err)
		return
	}
	tpl, err := currentWorkspace(c, h.workspaces).DeleteTag(kind, index)
	if err != nil {
		fail(c, err)
		return
	}
	dto.Success(c, tpl)
}

// CancelEdit 关闭标签编辑器
// @Router /v1/workspace/tags/{kind}/{index}/cancel [post]
func (h *WorkspaceHandler) CancelEdit(c *gin.Context) {
	kind, index, err := pathTag(c)
	if err != nil {
		fail(c, err)
		return
	}
	currentWorkspace(c, h.workspaces).CancelEdit(kind, index)
	dto.NoContent(c)
}
