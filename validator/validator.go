package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"propman/constants"
	apperrors "propman/errors"

	govalidator "github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *govalidator.Validate
)

func instance() *govalidator.Validate {
	once.Do(func() {
		validate = govalidator.New(govalidator.WithRequiredStructEnabled())
		// báo lỗi theo tên field json
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validate request theo tag `validate`, trả về lỗi đầu tiên
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs govalidator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, fieldMessage(verrs[0]), err)
	}
	return apperrors.NewAppError(apperrors.ErrCodeValidation, "Dữ liệu không hợp lệ", err)
}

func fieldMessage(fe govalidator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s không được để trống", field)
	case "email":
		return fmt.Sprintf("%s không phải email hợp lệ", field)
	case "min", "gte":
		return fmt.Sprintf("%s phải lớn hơn hoặc bằng %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s phải lớn hơn %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s không được vượt quá %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s phải có độ dài %s", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s chỉ được chứa chữ số", field)
	case "oneof":
		return fmt.Sprintf("%s phải là một trong: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s sai định dạng, cần %s", field, fe.Param())
	}
	return fmt.Sprintf("%s không hợp lệ", field)
}

// ParseDate đọc ngày dạng 2006-01-02 theo UTC
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat,
			fmt.Sprintf("Định dạng %s không hợp lệ, cần YYYY-MM-DD", field), err)
	}
	return t, nil
}

// ParseDateRange đọc khoảng [start, end), yêu cầu start < end
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate("ngày bắt đầu", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate("ngày kết thúc", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperrors.NewAppError(apperrors.ErrCodeValidation,
			"Ngày kết thúc phải sau ngày bắt đầu", nil)
	}
	return from, to, nil
}

// ParseMonth đọc tháng dạng MM/YYYY, trả về ngày đầu tháng
func ParseMonth(value string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.MonthLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat,
			"Định dạng tháng không hợp lệ, cần MM/YYYY", err)
	}
	return t, nil
}

// ValidateAmount validate số tiền
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Số tiền phải lớn hơn 0", nil)
	}
	return nil
}
