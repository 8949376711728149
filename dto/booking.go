package dto

// CreateBookingRequest ngày dạng 2006-01-02, khoảng nửa mở [checkIn, checkOut)
type CreateBookingRequest struct {
	PropertyID uint   `json:"propertyId" validate:"required"`
	GuestID    uint   `json:"guestId" validate:"required"`
	CheckIn    string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	NumGuests  int    `json:"numGuests" validate:"omitempty,min=1,max=50"`
	Status     string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED"`
	Note       string `json:"note" validate:"max=500"`
}

type BookingQuery struct {
	PageQuery
	PropertyID uint   `form:"propertyId"`
	GuestID    uint   `form:"guestId"`
	Status     string `form:"status"`
	FromDate   string `form:"fromDate"`
	ToDate     string `form:"toDate"`
}

// CalendarDay một ngày trên lịch của chỗ ở
type CalendarDay struct {
	Date      string `json:"date"`
	Booked    bool   `json:"booked"`
	BookingID uint   `json:"bookingId,omitempty"`
	GuestName string `json:"guestName,omitempty"`
	Status    string `json:"status,omitempty"`
}
