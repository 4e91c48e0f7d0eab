package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomLoggingMiddleware creates a custom logging middleware
func CustomLoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		userInfo := "user=anonymous"
		if email, emailExists := param.Keys["user_email"]; emailExists {
			userInfo = "user=" + email.(string)
		} else if userID, exists := param.Keys["user_id"]; exists {
			if userIDStr, ok := userID.(string); ok {
				userInfo = "user=" + userIDStr
			} else if userIDUUID, ok := userID.(uuid.UUID); ok {
				userInfo = "user=" + userIDUUID.String()
			}
		}

		// Format: [GIN] 2025/10/02 - 04:28:42 | 401 | 1.2834ms | 127.0.0.1 | GET /api/v1/auth/profile | user=anonymous
		return fmt.Sprintf("[GIN] %s | %d | %8v | %s | %-7s %s | %s\n",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			userInfo,
		)
	})
}
