package router

import (
	"github.com/gin-gonic/gin"

	"quadra_host_v1/internal/controller"
	"quadra_host_v1/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	userCtl *controller.UserController,
	draftCtl *controller.DraftController,
	courtCtl *controller.CourtController) {
	api := r.Group("/api")
	{
		// auth 认证组（无需登录）
		auth := api.Group("/auth")
		{
			// POST /api/auth/register
			auth.POST("/register", userCtl.Register)

			// POST /api/auth/login
			auth.POST("/login", userCtl.Login)

			// POST /api/auth/refresh
			auth.POST("/refresh", userCtl.RefreshToken)
		}

		// 以下路由需要登录，审计中间件把用户信息带进 request context
		authed := api.Group("", middleware.JWTAuth(), middleware.AuditContext())
		{
			profile := authed.Group("/auth")
			{
				profile.GET("/profile", userCtl.GetProfile)
				profile.PUT("/password", userCtl.ChangePassword)
			}

			// drafts 开场向导
			drafts := authed.Group("/drafts")
			{
				drafts.POST("", draftCtl.Open)
				drafts.GET("/:id", draftCtl.Get)
				drafts.PATCH("/:id", draftCtl.Merge)
				drafts.DELETE("/:id", draftCtl.Abandon)

				drafts.POST("/:id/photos",
					middleware.ActionRateLimit(middleware.ActionUpload, 0),
					draftCtl.AddPhotos)
				drafts.DELETE("/:id/photos/:index", draftCtl.RemovePhoto)

				drafts.POST("/:id/continue", draftCtl.Continue)
				drafts.POST("/:id/back", draftCtl.Back)
				drafts.POST("/:id/goto", draftCtl.GoTo)

				// POST /api/drafts/:id/publish
				drafts.POST("/:id/publish",
					middleware.ActionRateLimit(middleware.ActionPublish, 0),
					draftCtl.Publish)
			}

			// courts 已发布球场
			courts := authed.Group("/courts")
			{
				courts.GET("", courtCtl.List)
				courts.GET("/:id", courtCtl.Detail)
			}
		}
	}
}
