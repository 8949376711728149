package commands

import (
	"context"

	"propman/constants"
	"propman/models"
)

// Command định nghĩa interface cho các command ghi dữ liệu đặt chỗ
type Command interface {
	Execute(ctx context.Context) error
}

type BookingWriter interface {
	Create(ctx context.Context, booking *models.Booking) error
	Save(ctx context.Context, booking *models.Booking) error
}

type TenancyWriter interface {
	Create(ctx context.Context, tenancy *models.Tenancy) error
	Save(ctx context.Context, tenancy *models.Tenancy) error
}

// CreateBookingCommand command để tạo booking mới
type CreateBookingCommand struct {
	booking *models.Booking
	store   BookingWriter
}

func NewCreateBookingCommand(store BookingWriter, booking *models.Booking) *CreateBookingCommand {
	return &CreateBookingCommand{booking: booking, store: store}
}

func (c *CreateBookingCommand) Execute(ctx context.Context) error {
	return c.store.Create(ctx, c.booking)
}

// TransitionBookingCommand chuyển trạng thái booking theo state machine rồi lưu lại
type TransitionBookingCommand struct {
	booking *models.Booking
	target  constants.BookingStatus
	store   BookingWriter
}

func NewTransitionBookingCommand(store BookingWriter, booking *models.Booking, target constants.BookingStatus) *TransitionBookingCommand {
	return &TransitionBookingCommand{booking: booking, target: target, store: store}
}

func (c *TransitionBookingCommand) Execute(ctx context.Context) error {
	previous := c.booking.Status
	if err := models.TransitionBooking(c.booking, c.target); err != nil {
		return err
	}
	if err := c.store.Save(ctx, c.booking); err != nil {
		c.booking.Status = previous
		return err
	}
	return nil
}

type CreateTenancyCommand struct {
	tenancy *models.Tenancy
	store   TenancyWriter
}

func NewCreateTenancyCommand(store TenancyWriter, tenancy *models.Tenancy) *CreateTenancyCommand {
	return &CreateTenancyCommand{tenancy: tenancy, store: store}
}

func (c *CreateTenancyCommand) Execute(ctx context.Context) error {
	return c.store.Create(ctx, c.tenancy)
}

type TransitionTenancyCommand struct {
	tenancy *models.Tenancy
	target  constants.TenancyStatus
	store   TenancyWriter
}

func NewTransitionTenancyCommand(store TenancyWriter, tenancy *models.Tenancy, target constants.TenancyStatus) *TransitionTenancyCommand {
	return &TransitionTenancyCommand{tenancy: tenancy, target: target, store: store}
}

func (c *TransitionTenancyCommand) Execute(ctx context.Context) error {
	previous := c.tenancy.Status
	if err := models.TransitionTenancy(c.tenancy, c.target); err != nil {
		return err
	}
	if err := c.store.Save(ctx, c.tenancy); err != nil {
		c.tenancy.Status = previous
		return err
	}
	return nil
}
