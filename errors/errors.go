package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"

	// Lookup errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Business errors
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeConflict     ErrorCode = "CONFLICT"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError lỗi dữ liệu đầu vào
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

// AuthError lỗi chưa đăng nhập hoặc token không hợp lệ
func AuthError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, nil)
}

// ForbiddenError lỗi không có quyền
func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, nil)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, nil)
}

// StateError lỗi trạng thái không cho phép thao tác
func StateError(message string) *AppError {
	return NewAppError(ErrCodeInvalidState, message, nil)
}

// ConflictError lỗi trùng lịch hoặc trùng dữ liệu
func ConflictError(message string) *AppError {
	return NewAppError(ErrCodeConflict, message, nil)
}

// StorageError bọc lỗi không mong muốn từ tầng lưu trữ
func StorageError(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode kiểm tra mã lỗi của err
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrOverlapViolation = errors.New("reservation overlaps an existing reservation")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)
