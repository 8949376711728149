package dto

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=150"`
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=MANAGER STAFF TENANT"`
}

type CreatePropertyRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Address     string   `json:"address" validate:"required,max=255"`
	Province    string   `json:"province" validate:"max=100"`
	District    string   `json:"district" validate:"max=100"`
	Description string   `json:"description"`
	NightlyRate int64    `json:"nightlyRate" validate:"gte=0"`
	MaxGuests   int      `json:"maxGuests" validate:"gte=0"`
	Amenities   []string `json:"amenities" validate:"dive,max=50"`
}

type CreateUnitRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Floor       int    `json:"floor"`
	Bedrooms    int    `json:"bedrooms" validate:"gte=0"`
	Acreage     int    `json:"acreage" validate:"gte=0"`
	MonthlyRent int64  `json:"monthlyRent" validate:"gt=0"`
}

type CreateGuestRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric,len=10"`
}

type GuestQuery struct {
	PageQuery
	Search string `form:"search"`
}

// PropertySearchResult kết quả tìm kiếm kèm độ tương đồng
type PropertySearchResult struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Status     string  `json:"status"`
	Similarity float64 `json:"similarity"`
}
