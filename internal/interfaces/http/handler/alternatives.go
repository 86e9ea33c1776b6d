package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/domain/entity"
	"project-planner-ai/internal/interfaces/http/dto"
)

// AlternativesSource 候选建议查询（由 planner.Client 实现），失败时返回空列表
type AlternativesSource interface {
	GetAlternatives(ctx context.Context, kind entity.SolutionKind, currentItem, projectContext string) []string
}

// AlternativesHandler 无状态候选建议接口
type AlternativesHandler struct {
	source AlternativesSource
}

// NewAlternativesHandler 创建候选建议处理器
func NewAlternativesHandler(source AlternativesSource) *AlternativesHandler {
	return &AlternativesHandler{source: source}
}

// Get 查询候选建议
// @Router /v1/alternatives [post]
func (h *AlternativesHandler) Get(c *gin.Context) {
	var req dto.AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	kind, _ := entity.ParseSolutionKind(req.Kind)
	suggestions := h.source.GetAlternatives(c.Request.Context(), kind, req.Item, req.Context)
	if suggestions == nil {
		suggestions = []string{}
	}
	dto.Success(c, dto.AlternativesResponse{Kind: kind, Item: req.Item, Suggestions: suggestions})
}
