package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tạo request id nếu client chưa gửi và gán vào context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("requestId", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// Logger ghi log mỗi request sau khi xử lý xong
func Logger(entry *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("requestId"),
		}
		if caller := CallerFrom(c); caller.Authenticated() {
			fields["user_id"] = caller.UserID
		}

		e := entry.WithFields(fields)
		if c.Writer.Status() >= 500 {
			e.Error("Request failed")
		} else if c.Writer.Status() >= 400 {
			e.Warn("Request rejected")
		} else {
			e.Info("Request processed")
		}
	}
}
