package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project-planner-ai/pkg/logger"
)

// SessionIDContextKey 会话 ID 在 gin.Context 中的键
const SessionIDContextKey = "session_id"

// SessionConfig 会话 cookie 配置
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session 确保每个浏览器持有会话 cookie，并把会话 ID 注入 Context
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "planner_session"
	}
	maxAge := int(cfg.TTL / time.Second)

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// 每次请求都续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)

		c.Set(SessionIDContextKey, sessionID)
		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
