package handler

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/domain/entity"
	"project-planner-ai/internal/interfaces/http/dto"
	"project-planner-ai/pkg/logger"
)

// ExportHandler 导出当前会话的模板；只读取快照
type ExportHandler struct {
	workspaces Workspaces
	renderer   *export.Renderer
}

// NewExportHandler 创建导出处理器
func NewExportHandler(workspaces Workspaces, renderer *export.Renderer) *ExportHandler {
	return &ExportHandler{workspaces: workspaces, renderer: renderer}
}

func (h *ExportHandler) template(c *gin.Context) (*entity.ProjectTemplate, bool) {
	tpl, err := currentWorkspace(c, h.workspaces).Template()
	if err != nil {
		dto.FromError(c, err)
		return nil, false
	}
	return tpl, true
}

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, contentType, body)
}

// JSON 下载 JSON
// @Router /export/json [get]
func (h *ExportHandler) JSON(c *gin.Context) {
	tpl, ok := h.template(c)
	if !ok {
		return
	}
	body, err := h.renderer.JSON(tpl)
	if err != nil {
		logger.Error(c.Request.Context(), "json export failed", err)
		dto.FromError(c, err)
		return
	}
	attachment(c, export.JSONFileName(tpl.BasicInfo.Name), export.JSONContentType, body)
}

// Word 下载 Word 文档
// @Router /export/word [get]
func (h *ExportHandler) Word(c *gin.Context) {
	tpl, ok := h.template(c)
	if !ok {
		return
	}
	body, err := h.renderer.Word(tpl)
	if err != nil {
		logger.Error(c.Request.Context(), "word export failed", err)
		dto.FromError(c, err)
		return
	}
	attachment(c, export.WordFileName(tpl.BasicInfo.Name), export.WordContentType, body)
}

// PDF 打开打印版页面并自动弹出浏览器打印对话框
// @Router /export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	tpl, ok := h.template(c)
	if !ok {
		return
	}
	body, err := h.renderer.Print(tpl, c.Query("print") != "0")
	if err != nil {
		logger.Error(c.Request.Context(), "pdf export failed", err)
		dto.FromError(c, err)
		return
	}
	c.Data(http.StatusOK, export.PrintContentType, body)
}
