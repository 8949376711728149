package dto

// PageQuery tham số phân trang trên query string, page bắt đầu từ 0
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ListResult kết quả danh sách kèm tổng số bản ghi
type ListResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type AnnouncementRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}
