package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 动作限流中间件 ====================

// ActionRateLimit 动作限流中间件
// 按登录用户 + 动作类型维度进行限流
//
// 使用示例:
//
//	router.POST("/api/drafts/:id/publish",
//	    middleware.ActionRateLimit(middleware.ActionPublish, 0),
//	    draftCtl.Publish,
//	)
//
// 参数:
//   - action: 动作类型
//   - interval: 冷却间隔，0 表示使用默认值
func ActionRateLimit(action ActionType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(action)
	}

	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			// 未认证请求交给 JWTAuth 处理，不在此处限流
			c.Next()
			return
		}

		key := UserActionKey(userID, action)
		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
					"action":      action,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("操作过于频繁，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("操作过于频繁，请 %d 分钟后重试", minutes)
	}

	return fmt.Sprintf("操作过于频繁，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
