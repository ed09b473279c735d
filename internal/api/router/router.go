package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/config"
	"github.com/michaelos02/mroFormLimiter/internal/api/handler"
	"github.com/michaelos02/mroFormLimiter/internal/api/middleware"
	"github.com/michaelos02/mroFormLimiter/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 可为 nil（Redis 不可用时不限流）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 收集表（公开）
		form := v1.Group("/form")
		{
			form.GET("", h.Form.GetForm)
			form.POST("/responses",
				middleware.RateLimit(limiter, cfg.Policy.SubmissionRateLimit, cfg.Policy.SubmissionRateWindow, logger),
				h.Form.SubmitResponse,
			)
		}

		// 截止策略设置（仅操作员）
		settings := v1.Group("/closing-settings")
		settings.Use(middleware.OperatorAuth(jwtMgr))
		{
			settings.GET("", h.ClosingSettings.GetSettings)
			settings.PUT("", h.ClosingSettings.SaveSettings)
		}
	}

	return r
}
