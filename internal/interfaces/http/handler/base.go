// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
	"project-planner-ai/internal/interfaces/http/middleware"
	apperrors "project-planner-ai/pkg/errors"
)

// uploadField 多文件上传的表单字段名
const uploadField = "files"

// Workspaces 按会话获取工作区（由 workspace.Registry 实现）
type Workspaces interface {
	Get(sessionID string) *workspace.Workspace
}

func currentWorkspace(c *gin.Context, reg Workspaces) *workspace.Workspace {
	return reg.Get(c.GetString(middleware.SessionIDContextKey))
}

// pathKind 解析路径参数 :kind
func pathKind(c *gin.Context) (entity.SolutionKind, error) {
	kind, ok := entity.ParseSolutionKind(c.Param("kind"))
	if !ok {
		return "", apperrors.ErrInvalidParam.WithDetail("kind must be hardware or software")
	}
	return kind, nil
}

// pathIndex 解析路径参数 :index
func pathIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		return 0, apperrors.ErrInvalidParam.WithDetail("index must be a non-negative integer")
	}
	return i, nil
}

// pathTag 同时解析 :kind 与 :index
func pathTag(c *gin.Context) (entity.SolutionKind, int, error) {
	kind, err := pathKind(c)
	if err != nil {
		return "", 0, err
	}
	index, err := pathIndex(c)
	if err != nil {
		return "", 0, err
	}
	return kind, index, nil
}

// uploadsFromRequest 取出 multipart 请求中的文件；非 multipart 请求返回空
func uploadsFromRequest(c *gin.Context) ([]workspace.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.ErrInvalidParam.WithDetail("invalid multipart form").WithError(err)
	}

	headers := form.File[uploadField]
	out := make([]workspace.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		out = append(out, workspace.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out, nil
}
