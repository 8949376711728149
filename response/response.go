package response

import (
	"net/http"

	apperrors "propman/errors"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Success    bool        `json:"success"`
	Mess       string      `json:"mess"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    1,
		Success: true,
		Mess:    "Thành công",
		Data:    data,
	})
}

// Created trả về 201 khi tạo mới thành công
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    1,
		Success: true,
		Mess:    "Thành công",
		Data:    data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, Response{
		Code:    1,
		Success: true,
		Mess:    "Thành công",
		Data:    data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

func fail(c *gin.Context, status int, code apperrors.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: string(code),
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, "", "Lỗi server")
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	fail(c, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized, "Chưa xác thực")
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	fail(c, http.StatusForbidden, apperrors.ErrCodeForbidden, "Không có quyền truy cập")
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, apperrors.ErrCodeValidation, message)
}

// StatusOf ánh xạ mã lỗi nghiệp vụ sang HTTP status
func StatusOf(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeRequiredField, apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidState:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeInvalidToken, apperrors.ErrCodeInvalidPassword:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeUserExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError ghi response cho err; lỗi hạ tầng chỉ được log, client nhận thông báo chung
func FromError(c *gin.Context, log logger.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		ServerError(c)
		return
	}
	status := StatusOf(appErr.Code)
	if status == http.StatusInternalServerError {
		log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
		fail(c, status, appErr.Code, "Lỗi server")
		return
	}
	fail(c, status, appErr.Code, appErr.Message)
}
