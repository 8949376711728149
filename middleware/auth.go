package middleware

import (
	"strings"

	apperrors "propman/errors"
	"propman/response"
	"propman/services"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenParser kiểm tra access token
type TokenParser interface {
	Parse(token string) (services.Caller, error)
}

// AuthMiddleware xử lý authentication
func AuthMiddleware(tokens TokenParser, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c)
			return
		}

		authenticate(c, tokens, log, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

// WebSocketAuth như AuthMiddleware nhưng nhận token qua query ?token=
// vì trình duyệt không gửi được header khi mở websocket
func WebSocketAuth(tokens TokenParser, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			response.Unauthorized(c)
			return
		}
		authenticate(c, tokens, log, token)
	}
}

func authenticate(c *gin.Context, tokens TokenParser, log logger.Logger, token string) {
	caller, err := tokens.Parse(token)
	if err != nil {
		response.FromError(c, log, err)
		return
	}

	// Lưu thông tin user vào context
	c.Set(userIDKey, caller.UserID)
	c.Set(userRoleKey, caller.Role)
	c.Next()
}

// CallerFrom đọc caller đã xác thực từ context, rỗng nếu chưa đăng nhập
func CallerFrom(c *gin.Context) services.Caller {
	id, _ := c.Get(userIDKey)
	role, _ := c.Get(userRoleKey)
	userID, _ := id.(uint)
	userRole, _ := role.(int)
	return services.Caller{UserID: userID, Role: userRole}
}

// ErrorHandler trả lỗi cuối cùng mà handler gắn vào context
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			if apperrors.IsAppError(err) {
				response.FromError(c, log, err)
				return
			}
			log.Error("Lỗi không xác định: %v", err)
			response.ServerError(c)
		}
	}
}
