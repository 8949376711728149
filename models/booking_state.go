package models

import (
	"fmt"

	"propman/constants"
	apperrors "propman/errors"
)

// BookingState định nghĩa interface cho các trạng thái booking
type BookingState interface {
	Confirm(booking *Booking) error
	CheckIn(booking *Booking) error
	CheckOut(booking *Booking) error
	Cancel(booking *Booking) error
}

func invalidTransition(from, to any) error {
	return fmt.Errorf("%w: %v -> %v", apperrors.ErrInvalidTransition, from, to)
}

// PendingState trạng thái chờ xác nhận
type PendingState struct{}

func (s *PendingState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *PendingState) CheckIn(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedIn)
}

func (s *PendingState) CheckOut(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedOut)
}

func (s *PendingState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

// ConfirmedState trạng thái đã xác nhận
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusConfirmed)
}

func (s *ConfirmedState) CheckIn(booking *Booking) error {
	booking.Status = constants.BookingStatusCheckedIn
	return nil
}

func (s *ConfirmedState) CheckOut(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedOut)
}

func (s *ConfirmedState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

// CheckedInState khách đang lưu trú
type CheckedInState struct{}

func (s *CheckedInState) Confirm(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusConfirmed)
}

func (s *CheckedInState) CheckIn(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedIn)
}

func (s *CheckedInState) CheckOut(booking *Booking) error {
	booking.Status = constants.BookingStatusCheckedOut
	return nil
}

func (s *CheckedInState) Cancel(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCancelled)
}

// ClosedState trạng thái kết thúc (đã trả phòng hoặc đã hủy)
type ClosedState struct{}

func (s *ClosedState) Confirm(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusConfirmed)
}

func (s *ClosedState) CheckIn(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedIn)
}

func (s *ClosedState) CheckOut(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCheckedOut)
}

func (s *ClosedState) Cancel(booking *Booking) error {
	return invalidTransition(booking.Status, constants.BookingStatusCancelled)
}

// GetBookingState trả về state tương ứng với trạng thái booking
func GetBookingState(status constants.BookingStatus) BookingState {
	switch status {
	case constants.BookingStatusPending:
		return &PendingState{}
	case constants.BookingStatusConfirmed:
		return &ConfirmedState{}
	case constants.BookingStatusCheckedIn:
		return &CheckedInState{}
	default:
		return &ClosedState{}
	}
}

// TransitionBooking chuyển booking sang trạng thái target
func TransitionBooking(booking *Booking, target constants.BookingStatus) error {
	state := GetBookingState(booking.Status)
	switch target {
	case constants.BookingStatusConfirmed:
		return state.Confirm(booking)
	case constants.BookingStatusCheckedIn:
		return state.CheckIn(booking)
	case constants.BookingStatusCheckedOut:
		return state.CheckOut(booking)
	case constants.BookingStatusCancelled:
		return state.Cancel(booking)
	}
	return invalidTransition(booking.Status, target)
}

// TransitionTenancy chuyển hợp đồng thuê sang trạng thái target
func TransitionTenancy(tenancy *Tenancy, target constants.TenancyStatus) error {
	allowed := map[constants.TenancyStatus][]constants.TenancyStatus{
		constants.TenancyStatusPending: {constants.TenancyStatusActive, constants.TenancyStatusCancelled},
		constants.TenancyStatusActive:  {constants.TenancyStatusExpired, constants.TenancyStatusTerminated},
	}
	for _, next := range allowed[tenancy.Status] {
		if next == target {
			tenancy.Status = target
			return nil
		}
	}
	return invalidTransition(tenancy.Status, target)
}
