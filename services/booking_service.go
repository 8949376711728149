package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman/builders"
	"propman/commands"
	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/repositories"
	"propman/services/logger"
	"propman/services/notification"
	"propman/services/reservation"
	"propman/validator"
)

const partyGuest = "khách"

type BookingServiceOptions struct {
	Bookings    BookingStore
	Properties  PropertyStore
	Guests      GuestStore
	Tx          Transactor
	Permissions PermissionChecker
	Cache       Cache
	Notifier    notification.Service
	Logger      logger.Logger
	CacheTTL    time.Duration
}

type BookingService struct {
	bookings    BookingStore
	properties  PropertyStore
	guests      GuestStore
	tx          Transactor
	permissions PermissionChecker
	cache       Cache
	notifier    notification.Service
	logger      logger.Logger
	cacheTTL    time.Duration
	checker     *reservation.Checker
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	s := &BookingService{
		bookings:    opts.Bookings,
		properties:  opts.Properties,
		guests:      opts.Guests,
		tx:          opts.Tx,
		permissions: opts.Permissions,
		cache:       opts.Cache,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		cacheTTL:    opts.CacheTTL,
		checker:     reservation.NewChecker(bookingFinder{bookings: opts.Bookings}),
	}
	if s.cache == nil {
		s.cache = NopCache{}
	}
	if s.notifier == nil {
		s.notifier = notification.Nop{}
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = 10 * time.Minute
	}
	return s
}

// Create tạo booking mới. Các bước kiểm tra chạy theo thứ tự và dừng ở lỗi đầu tiên:
// dữ liệu, đăng nhập, quyền, khách, trạng thái chỗ ở, trùng khách, trùng lịch, lưu.
func (s *BookingService) Create(ctx context.Context, caller Caller, req dto.CreateBookingRequest) (*models.Booking, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	checkIn, checkOut, err := validator.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	stay, err := reservation.NewInterval(checkIn, checkOut)
	if err != nil {
		return nil, apperrors.ValidationError("Ngày trả phòng phải sau ngày nhận phòng")
	}

	if !caller.Authenticated() {
		return nil, apperrors.AuthError("Bạn cần đăng nhập để đặt chỗ")
	}

	property, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceBooking, ActionCreate); err != nil {
		return nil, err
	}

	guest, err := s.guests.FindByID(ctx, req.GuestID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy khách")
	}
	if guest.OrganizationID != property.OrganizationID {
		return nil, apperrors.NotFoundError("Không tìm thấy khách")
	}
	if !guest.IsActive {
		return nil, apperrors.StateError(fmt.Sprintf("Khách %s đang bị khóa, không thể đặt chỗ", guest.Name))
	}

	if !property.Status.AcceptsReservations() {
		return nil, apperrors.StateError(fmt.Sprintf("Chỗ ở %s đang ở trạng thái %s, không nhận đặt chỗ", property.Name, property.Status))
	}
	if property.MaxGuests > 0 && req.NumGuests > property.MaxGuests {
		return nil, apperrors.ValidationError(fmt.Sprintf("Chỗ ở chỉ nhận tối đa %d khách", property.MaxGuests))
	}

	var booking *models.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.properties.LockByID(ctx, property.ID)
		if err != nil {
			return storageErr(err, "Không tìm thấy chỗ ở")
		}
		if !locked.Status.AcceptsReservations() {
			return apperrors.StateError(fmt.Sprintf("Chỗ ở %s đang ở trạng thái %s, không nhận đặt chỗ", locked.Name, locked.Status))
		}
		current, err := s.guests.LockByID(ctx, guest.ID)
		if err != nil {
			return storageErr(err, "Không tìm thấy khách")
		}
		if !current.IsActive {
			return apperrors.StateError(fmt.Sprintf("Khách %s đang bị khóa, không thể đặt chỗ", current.Name))
		}

		conflict, err := s.checker.Evaluate(ctx, locked.ID, guest.ID, stay, constants.BookingBlockingStatuses)
		if err != nil {
			return apperrors.StorageError("Không thể kiểm tra lịch đặt chỗ", err)
		}
		if conflict != nil {
			return apperrors.ConflictError(conflict.Message(partyGuest))
		}

		booking = builders.NewBookingBuilder().
			WithProperty(locked).
			WithGuest(guest.ID).
			WithStay(stay).
			WithNumGuests(req.NumGuests).
			WithStatus(constants.BookingStatus(req.Status)).
			WithNote(req.Note).
			WithCreator(caller.UserID).
			Build()
		if err := commands.NewCreateBookingCommand(s.bookings, booking).Execute(ctx); err != nil {
			return err
		}
		return s.syncPropertyStatus(ctx, locked)
	})
	if err != nil {
		return nil, s.reservationWriteError(ctx, err, property.ID, stay)
	}

	booking.Guest = guest
	s.afterWrite(ctx, "booking.created", booking)
	s.logger.Info("Tạo booking #%d cho chỗ ở %d (%s)", booking.ID, booking.PropertyID, stay.Start.Format(constants.DateLayout))
	return booking, nil
}

// reservationWriteError vi phạm ràng buộc exclusion nghĩa là một yêu cầu song song đã giữ chỗ trước;
// đọc lại để thông báo tên khách và khoảng ngày.
func (s *BookingService) reservationWriteError(ctx context.Context, err error, propertyID uint, stay reservation.Interval) error {
	if !errors.Is(err, apperrors.ErrOverlapViolation) {
		return storageErr(err, "")
	}
	conflict, checkErr := s.checker.Check(ctx, propertyID, stay, constants.BookingBlockingStatuses)
	if checkErr == nil && conflict != nil {
		return apperrors.NewAppError(apperrors.ErrCodeConflict, conflict.Message(partyGuest), err)
	}
	return apperrors.NewAppError(apperrors.ErrCodeConflict, "Khoảng thời gian này vừa được đặt, vui lòng chọn ngày khác", err)
}

// syncPropertyStatus BOOKED khi còn booking giữ chỗ, AVAILABLE khi không còn.
// Chỗ ở đang bảo trì hoặc ngừng hoạt động giữ nguyên trạng thái.
func (s *BookingService) syncPropertyStatus(ctx context.Context, property *models.Property) error {
	if !property.Status.AcceptsReservations() {
		return nil
	}
	blocking, err := s.bookings.FindBlocking(ctx, property.ID, constants.BookingBlockingStatuses)
	if err != nil {
		return err
	}
	want := constants.PropertyStatusAvailable
	if len(blocking) > 0 {
		want = constants.PropertyStatusBooked
	}
	if want == property.Status {
		return nil
	}
	if err := s.properties.UpdateStatus(ctx, property.ID, want); err != nil {
		return err
	}
	property.Status = want
	return nil
}

// ChangeStatus chuyển trạng thái booking theo state machine
func (s *BookingService) ChangeStatus(ctx context.Context, caller Caller, id uint, status string) (*models.Booking, error) {
	target := constants.BookingStatus(status)
	switch target {
	case constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn,
		constants.BookingStatusCheckedOut, constants.BookingStatusCancelled:
	default:
		return nil, apperrors.ValidationError(fmt.Sprintf("Trạng thái %q không hợp lệ", status))
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy booking")
	}
	if err := authorize(ctx, s.permissions, caller, booking.OrganizationID, ResourceBooking, ActionUpdate); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, booking, target); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "booking.status", booking)
	return booking, nil
}

func (s *BookingService) transition(ctx context.Context, booking *models.Booking, target constants.BookingStatus) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		property, err := s.properties.LockByID(ctx, booking.PropertyID)
		if err != nil {
			return storageErr(err, "Không tìm thấy chỗ ở")
		}
		if err := commands.NewTransitionBookingCommand(s.bookings, booking, target).Execute(ctx); err != nil {
			return err
		}
		return s.syncPropertyStatus(ctx, property)
	})
	if errors.Is(err, apperrors.ErrInvalidTransition) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidState,
			fmt.Sprintf("Không thể chuyển booking từ %s sang %s", booking.Status, target), err)
	}
	return storageErr(err, "")
}

func (s *BookingService) Get(ctx context.Context, caller Caller, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy booking")
	}
	if err := authorize(ctx, s.permissions, caller, booking.OrganizationID, ResourceBooking, ActionRead); err != nil {
		return nil, err
	}
	return booking, nil
}

// List danh sách booking của tổ chức, có cache theo tag tổ chức
func (s *BookingService) List(ctx context.Context, caller Caller, orgID uint, q dto.BookingQuery) (dto.ListResult[models.Booking], error) {
	var empty dto.ListResult[models.Booking]
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceBooking, ActionRead); err != nil {
		return empty, err
	}

	filter := repositories.BookingFilter{
		OrganizationID: orgID,
		PropertyID:     q.PropertyID,
		GuestID:        q.GuestID,
		Status:         constants.BookingStatus(q.Status),
		Page:           pageOf(q.Page, q.Limit),
	}
	if q.FromDate != "" {
		from, err := validator.ParseDate("fromDate", q.FromDate)
		if err != nil {
			return empty, err
		}
		filter.From = &from
	}
	if q.ToDate != "" {
		to, err := validator.ParseDate("toDate", q.ToDate)
		if err != nil {
			return empty, err
		}
		filter.To = &to
	}

	key := fmt.Sprintf("bookings:org:%d:p%d:g%d:s%s:f%s:t%s:%d:%d",
		orgID, q.PropertyID, q.GuestID, q.Status, q.FromDate, q.ToDate, q.Page, q.Limit)
	result, err := Remember(ctx, s.cache, s.logger, key, s.cacheTTL, []string{orgTag("bookings", orgID)},
		func() (dto.ListResult[models.Booking], error) {
			items, total, err := s.bookings.List(ctx, filter)
			if err != nil {
				return empty, err
			}
			return listResult(items, total, filter.Page), nil
		})
	if err != nil {
		return empty, storageErr(err, "")
	}
	return result, nil
}

// Calendar lịch từng ngày trong tháng (MM/YYYY) của một chỗ ở
func (s *BookingService) Calendar(ctx context.Context, caller Caller, propertyID uint, month string) ([]dto.CalendarDay, error) {
	from, err := validator.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceBooking, ActionRead); err != nil {
		return nil, err
	}

	to := from.AddDate(0, 1, 0)
	key := fmt.Sprintf("calendar:property:%d:%s", propertyID, from.Format("2006-01"))
	days, err := Remember(ctx, s.cache, s.logger, key, s.cacheTTL, []string{propertyTag(propertyID)},
		func() ([]dto.CalendarDay, error) {
			bookings, err := s.bookings.FindInRange(ctx, propertyID, from, to)
			if err != nil {
				return nil, err
			}
			return buildCalendar(bookings, from, to), nil
		})
	if err != nil {
		return nil, storageErr(err, "")
	}
	return days, nil
}

func buildCalendar(bookings []models.Booking, from, to time.Time) []dto.CalendarDay {
	var days []dto.CalendarDay
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := dto.CalendarDay{Date: d.Format(constants.DateLayout)}
		for i := range bookings {
			b := &bookings[i]
			if !d.Before(b.CheckIn) && d.Before(b.CheckOut) {
				day.Booked = true
				day.BookingID = b.ID
				day.GuestName = b.GuestName()
				day.Status = string(b.Status)
				break
			}
		}
		days = append(days, day)
	}
	return days
}

// CompleteFinished trả phòng các booking CHECKED_IN đã quá ngày trả phòng
func (s *BookingService) CompleteFinished(ctx context.Context, now time.Time) (int, error) {
	list, err := s.bookings.ListCheckedInBefore(ctx, now)
	if err != nil {
		return 0, storageErr(err, "")
	}
	done := 0
	for i := range list {
		b := &list[i]
		if err := s.transition(ctx, b, constants.BookingStatusCheckedOut); err != nil {
			s.logger.Error("Không thể trả phòng booking #%d: %v", b.ID, err)
			continue
		}
		s.afterWrite(ctx, "booking.status", b)
		done++
	}
	return done, nil
}

func (s *BookingService) afterWrite(ctx context.Context, event string, b *models.Booking) {
	invalidate(ctx, s.cache, s.logger,
		orgTag("bookings", b.OrganizationID),
		orgTag("properties", b.OrganizationID),
		propertyTag(b.PropertyID),
	)
	msg := notification.NewMessageBuilder(event).
		WithOrganization(b.OrganizationID).
		WithReservation(b.PropertyID, b.ID, string(b.Status)).
		WithMessage("Booking #%d (%s–%s): %s", b.ID,
			b.CheckIn.UTC().Format(constants.DateLayout), b.CheckOut.UTC().Format(constants.DateLayout), b.Status).
		Build()
	if err := s.notifier.Publish(b.OrganizationID, msg); err != nil {
		s.logger.Warn("Không gửi được thông báo booking #%d: %v", b.ID, err)
	}
}
