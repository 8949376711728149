package builders

import (
	"propman/constants"
	"propman/models"
	"propman/services/reservation"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{Status: constants.BookingStatusPending, NumGuests: 1},
	}
}

// WithProperty gán chỗ ở, tổ chức và giá theo đêm hiện tại
func (b *BookingBuilder) WithProperty(property *models.Property) *BookingBuilder {
	b.booking.PropertyID = property.ID
	b.booking.OrganizationID = property.OrganizationID
	b.booking.NightlyRate = property.NightlyRate
	return b
}

func (b *BookingBuilder) WithGuest(guestID uint) *BookingBuilder {
	b.booking.GuestID = guestID
	return b
}

// WithStay thời gian lưu trú [check-in, check-out)
func (b *BookingBuilder) WithStay(stay reservation.Interval) *BookingBuilder {
	b.booking.CheckIn = stay.Start
	b.booking.CheckOut = stay.End
	b.booking.Nights = stay.Nights()
	return b
}

func (b *BookingBuilder) WithNumGuests(n int) *BookingBuilder {
	if n > 0 {
		b.booking.NumGuests = n
	}
	return b
}

func (b *BookingBuilder) WithStatus(status constants.BookingStatus) *BookingBuilder {
	if status != "" {
		b.booking.Status = status
	}
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.booking.Note = note
	return b
}

func (b *BookingBuilder) WithCreator(userID uint) *BookingBuilder {
	b.booking.CreatedBy = userID
	return b
}

// Build tính tổng tiền = giá đêm x số đêm
func (b *BookingBuilder) Build() *models.Booking {
	b.booking.TotalPrice = b.booking.NightlyRate * int64(b.booking.Nights)
	return b.booking
}
