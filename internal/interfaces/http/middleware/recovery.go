// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"project-planner-ai/pkg/errors"
	"project-planner-ai/pkg/logger"
)

var fallbackPage = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head><meta charset="utf-8"><title>出错了</title>
<style>
body { font-family: sans-serif; background: #f8fafc; color: #0f172a; margin: 0; padding: 40px; }
.box { max-width: 880px; margin: 0 auto; background: #fff; border: 1px solid #fecaca; border-radius: 12px; padding: 24px; }
h1 { color: #b91c1c; font-size: 20px; }
pre { background: #0f172a; color: #e2e8f0; padding: 12px; border-radius: 8px; overflow: auto; font-size: 12px; }
button { background: #2563eb; color: #fff; border: 0; border-radius: 8px; padding: 8px 16px; cursor: pointer; }
</style>
</head>
<body>
<div class="box">
<h1>页面发生错误</h1>
<p>{{.Message}}</p>
<pre>{{.Stack}}</pre>
<form method="get" action="/"><button type="submit">重新加载</button></form>
</div>
</body>
</html>`))

// Recovery Panic 恢复中间件：API 请求返回 JSON 500，页面请求渲染带堆栈与重新加载入口的兜底页
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// 获取堆栈信息
				stack := string(debug.Stack())
				message := fmt.Sprintf("%v", err)

				// 记录错误日志
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%s", message),
					"stack", stack,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				if wantsHTML(c) {
					c.Status(http.StatusInternalServerError)
					c.Header("Content-Type", "text/html; charset=utf-8")
					_ = fallbackPage.Execute(c.Writer, struct{ Message, Stack string }{message, stack})
					c.Abort()
					return
				}

				// 返回 500 错误
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    errors.CodeInternalError,
					"message": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

func wantsHTML(c *gin.Context) bool {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/v1/") {
		return false
	}
	return path == "/" || strings.HasPrefix(path, "/ui/") || strings.Contains(c.GetHeader("Accept"), "text/html")
}
