package router

import (
	"github.com/gin-gonic/gin"

	"project-planner-ai/internal/interfaces/http/handler"
)

// RegisterPageRoutes 注册页面路由（表单提交 + 重定向）
func RegisterPageRoutes(app *gin.RouterGroup, page *handler.PageHandler, rateLimit gin.HandlerFunc) {
	app.GET("/", page.Index)

	ui := app.Group("/ui")
	{
		ui.POST("/generate", rateLimit, page.Generate)
		ui.POST("/files/:index/delete", page.RemoveFile)
		ui.POST("/reset", page.Reset)
		ui.POST("/error/dismiss", page.DismissError)
		ui.POST("/alert/dismiss", page.DismissAlert)
		ui.POST("/detail/:kind", rateLimit, page.ExpandDetail)

		ui.POST("/tags/:kind", page.AppendTag)
		ui.GET("/tags/:kind/:index/edit", page.BeginEdit)
		ui.POST("/tags/:kind/:index", page.SaveTag)
		ui.POST("/tags/:kind/:index/delete", page.DeleteTag)
		ui.POST("/tags/:kind/:index/refresh", page.RefreshSuggestions)
		ui.POST("/tags/:kind/:index/cancel", page.CancelEdit)
	}
}

// RegisterExportRoutes 注册导出路由
func RegisterExportRoutes(app *gin.RouterGroup, export *handler.ExportHandler) {
	exp := app.Group("/export")
	{
		exp.GET("/json", export.JSON)
		exp.GET("/word", export.Word)
		exp.GET("/pdf", export.PDF)
	}
}

// RegisterV1Routes 注册 v1 JSON API
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	workspaceHandler *handler.WorkspaceHandler,
	alternativesHandler *handler.AlternativesHandler,
	rateLimit gin.HandlerFunc,
) {
	ws := v1.Group("/workspace")
	{
		ws.GET("", workspaceHandler.Get)
		ws.POST("/files", workspaceHandler.UploadFiles)
		ws.DELETE("/files/:index", workspaceHandler.RemoveFile)
		ws.POST("/generate", rateLimit, workspaceHandler.Generate)
		ws.POST("/reset", workspaceHandler.Reset)
		ws.POST("/detail/:kind", rateLimit, workspaceHandler.ExpandDetail)

		ws.POST("/tags/:kind", workspaceHandler.AppendTag)
		ws.POST("/tags/:kind/:index/edit", workspaceHandler.BeginEdit)
		ws.POST("/tags/:kind/:index/refresh", workspaceHandler.RefreshSuggestions)
		ws.POST("/tags/:kind/:index/cancel", workspaceHandler.CancelEdit)
		ws.PUT("/tags/:kind/:index", workspaceHandler.SaveTag)
		ws.DELETE("/tags/:kind/:index", workspaceHandler.DeleteTag)
	}

	v1.POST("/alternatives", rateLimit, alternativesHandler.Get)
}
