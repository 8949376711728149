package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/services/logger"
	"propman/services/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	db       *memDB
	svc      *BookingService
	cache    *recordingCache
	notifier *recordingNotifier
	owner    Caller
	org      *models.Organization
	property *models.Property
	an       *models.Guest
	binh     *models.Guest
}

func newBookingFixture(t *testing.T, perms PermissionChecker) *bookingFixture {
	t.Helper()
	db := newMemDB()
	owner := db.seedUser("Chủ nhà", "owner@example.com")
	org := db.seedOrg("Homestay Đà Lạt", owner.ID)
	f := &bookingFixture{
		db:       db,
		cache:    &recordingCache{},
		notifier: &recordingNotifier{},
		owner:    Caller{UserID: owner.ID},
		org:      org,
		property: db.seedProperty(org.ID, "Villa Hoa Hồng", constants.PropertyStatusAvailable),
		an:       db.seedGuest(org.ID, "Nguyễn Văn An", true),
		binh:     db.seedGuest(org.ID, "Trần Thị Bình", true),
	}
	if perms == nil {
		perms = NewRoleChecker(memUsers{db: db})
	}
	f.svc = NewBookingService(BookingServiceOptions{
		Bookings:    memBookings{db: db},
		Properties:  memProperties{db: db},
		Guests:      memGuests{db: db},
		Tx:          &memTx{},
		Permissions: perms,
		Cache:       f.cache,
		Notifier:    f.notifier,
		Logger:      logger.Nop{},
	})
	return f
}

func (f *bookingFixture) request(guestID uint, in, out string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		PropertyID: f.property.ID,
		GuestID:    guestID,
		CheckIn:    in,
		CheckOut:   out,
		Status:     string(constants.BookingStatusConfirmed),
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func TestBookingCreateAdjacentThenOverlap(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusConfirmed)

	carol := f.db.seedGuest(f.org.ID, "Lê Văn Cường", true)

	created, err := f.svc.Create(ctx, f.owner, f.request(f.binh.ID, "2024-06-05", "2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, 5, created.Nights)
	assert.Equal(t, int64(2500000), created.TotalPrice)
	assert.Equal(t, constants.BookingStatusConfirmed, created.Status)

	_, err = f.svc.Create(ctx, f.owner, f.request(carol.ID, "2024-06-03", "2024-06-07"))
	appErr := requireCode(t, err, apperrors.ErrCodeConflict)
	assert.Contains(t, appErr.Message, "Nguyễn Văn An")
	assert.Contains(t, appErr.Message, "2024-06-01–2024-06-05")
}

func TestBookingCreateDuplicateGuest(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusPending)

	_, err := f.svc.Create(context.Background(), f.owner, f.request(f.an.ID, "2024-07-01", "2024-07-03"))
	appErr := requireCode(t, err, apperrors.ErrCodeConflict)
	assert.Contains(t, appErr.Message, "đã có đặt chỗ")
	assert.Contains(t, appErr.Message, "Nguyễn Văn An")
}

func TestBookingCreateIgnoresClosedBookings(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusCancelled)
	f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusCheckedOut)

	_, err := f.svc.Create(context.Background(), f.owner, f.request(f.an.ID, "2024-06-02", "2024-06-04"))
	assert.NoError(t, err)
}

func TestBookingCreateGuardOrder(t *testing.T) {
	tests := []struct {
		name   string
		perms  PermissionChecker
		caller func(f *bookingFixture) Caller
		req    func(f *bookingFixture) dto.CreateBookingRequest
		setup  func(f *bookingFixture)
		code   apperrors.ErrorCode
	}{
		{
			name:   "invalid body before auth",
			caller: func(*bookingFixture) Caller { return Caller{} },
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(f.an.ID, "2024-06-05", "2024-06-01")
			},
			code: apperrors.ErrCodeValidation,
		},
		{
			name:   "anonymous",
			caller: func(*bookingFixture) Caller { return Caller{} },
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(f.an.ID, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeUnauthorized,
		},
		{
			name:  "no permission before guest lookup",
			perms: denyAll{},
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(9999, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeForbidden,
		},
		{
			name: "missing guest",
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(9999, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeNotFound,
		},
		{
			name: "inactive guest before property status",
			setup: func(f *bookingFixture) {
				f.db.guests[f.an.ID].IsActive = false
				f.db.properties[f.property.ID].Status = constants.PropertyStatusMaintenance
			},
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(f.an.ID, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeInvalidState,
		},
		{
			name: "property in maintenance before conflict",
			setup: func(f *bookingFixture) {
				f.db.seedBooking(f.property, f.binh.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusConfirmed)
				f.db.properties[f.property.ID].Status = constants.PropertyStatusMaintenance
			},
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(f.an.ID, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeInvalidState,
		},
		{
			name: "guest of another organization",
			setup: func(f *bookingFixture) {
				f.db.guests[f.an.ID].OrganizationID = 777
			},
			req: func(f *bookingFixture) dto.CreateBookingRequest {
				return f.request(f.an.ID, "2024-06-01", "2024-06-05")
			},
			code: apperrors.ErrCodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, tt.perms)
			if tt.setup != nil {
				tt.setup(f)
			}
			caller := f.owner
			if tt.caller != nil {
				caller = tt.caller(f)
			}
			_, err := f.svc.Create(context.Background(), caller, tt.req(f))
			appErr := requireCode(t, err, tt.code)
			if tt.name == "inactive guest before property status" {
				assert.Contains(t, appErr.Message, "Nguyễn Văn An")
			}
			assert.Empty(t, f.cache.invalidated)
		})
	}
}

func TestBookingCreateStaffAllowedTenantForbidden(t *testing.T) {
	f := newBookingFixture(t, nil)
	staff := f.db.seedUser("Nhân viên", "staff@example.com")
	tenant := f.db.seedUser("Người thuê", "tenant@example.com")
	f.db.seedMember(f.org.ID, staff.ID, constants.MemberRoleStaff)
	f.db.seedMember(f.org.ID, tenant.ID, constants.MemberRoleTenant)

	_, err := f.svc.Create(context.Background(), Caller{UserID: staff.ID}, f.request(f.an.ID, "2024-06-01", "2024-06-05"))
	assert.NoError(t, err)

	_, err = f.svc.Create(context.Background(), Caller{UserID: tenant.ID}, f.request(f.binh.ID, "2024-07-01", "2024-07-05"))
	requireCode(t, err, apperrors.ErrCodeForbidden)
}

func TestBookingCreateStorageError(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.failBlocking = errors.New("connection refused")

	_, err := f.svc.Create(context.Background(), f.owner, f.request(f.an.ID, "2024-06-01", "2024-06-05"))
	requireCode(t, err, apperrors.ErrCodeDBError)
	assert.Empty(t, f.db.bookings)
}

func TestBookingCreateConcurrentOverlap(t *testing.T) {
	f := newBookingFixture(t, nil)
	const workers = 8
	guests := make([]*models.Guest, workers)
	for i := range guests {
		guests[i] = f.db.seedGuest(f.org.ID, fmt.Sprintf("Khách %d", i), true)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(g *models.Guest) {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), f.owner, f.request(g.ID, "2024-06-01", "2024-06-05"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.HasCode(err, apperrors.ErrCodeConflict):
				conflicts++
			}
		}(guests[i])
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestBookingPropertyStatusFollowsBookings(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.owner, f.request(f.an.ID, "2024-06-01", "2024-06-05"))
	require.NoError(t, err)
	assert.Equal(t, constants.PropertyStatusBooked, f.db.property(f.property.ID).Status)
	assert.Contains(t, f.cache.invalidated, orgTag("bookings", f.org.ID))
	assert.Contains(t, f.cache.invalidated, propertyTag(f.property.ID))
	assert.Len(t, f.notifier.messages, 1)
	assert.Equal(t, []uint{f.org.ID}, f.notifier.orgs)

	_, err = f.svc.ChangeStatus(ctx, f.owner, b.ID, string(constants.BookingStatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, constants.PropertyStatusAvailable, f.db.property(f.property.ID).Status)
}

func TestBookingChangeStatus(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	b := f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusPending)

	_, err := f.svc.ChangeStatus(ctx, f.owner, b.ID, "CHECKED_IN")
	requireCode(t, err, apperrors.ErrCodeInvalidState)

	_, err = f.svc.ChangeStatus(ctx, f.owner, b.ID, "UNKNOWN")
	requireCode(t, err, apperrors.ErrCodeValidation)

	for _, next := range []string{"CONFIRMED", "CHECKED_IN", "CHECKED_OUT"} {
		got, err := f.svc.ChangeStatus(ctx, f.owner, b.ID, next)
		require.NoError(t, err, next)
		assert.Equal(t, constants.BookingStatus(next), got.Status)
	}

	_, err = f.svc.ChangeStatus(ctx, f.owner, 4242, "CONFIRMED")
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestBookingCalendar(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.seedBooking(f.property, f.an.ID, date(2024, 5, 30), date(2024, 6, 2), constants.BookingStatusConfirmed)
	f.db.seedBooking(f.property, f.binh.ID, date(2024, 6, 10), date(2024, 6, 12), constants.BookingStatusCancelled)

	days, err := f.svc.Calendar(context.Background(), f.owner, f.property.ID, "06/2024")
	require.NoError(t, err)
	require.Len(t, days, 30)

	assert.Equal(t, "2024-06-01", days[0].Date)
	assert.True(t, days[0].Booked)
	assert.Equal(t, "Nguyễn Văn An", days[0].GuestName)
	assert.False(t, days[1].Booked, "check-out day is free")
	assert.False(t, days[9].Booked, "cancelled booking does not occupy")

	_, err = f.svc.Calendar(context.Background(), f.owner, f.property.ID, "2024-06")
	requireCode(t, err, apperrors.ErrCodeInvalidFormat)
}

func TestBookingCompleteFinished(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.properties[f.property.ID].Status = constants.PropertyStatusBooked
	done := f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusCheckedIn)
	staying := f.db.seedBooking(f.property, f.binh.ID, date(2024, 6, 5), date(2024, 6, 9), constants.BookingStatusCheckedIn)

	n, err := f.svc.CompleteFinished(context.Background(), date(2024, 6, 6))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, constants.BookingStatusCheckedOut, f.db.bookings[done.ID].Status)
	assert.Equal(t, constants.BookingStatusCheckedIn, f.db.bookings[staying.ID].Status)
	assert.Equal(t, constants.PropertyStatusBooked, f.db.property(f.property.ID).Status)
}

func TestBookingList(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.db.seedBooking(f.property, f.an.ID, date(2024, 6, 1), date(2024, 6, 5), constants.BookingStatusConfirmed)
	f.db.seedBooking(f.property, f.binh.ID, date(2024, 6, 5), date(2024, 6, 7), constants.BookingStatusCancelled)

	res, err := f.svc.List(context.Background(), f.owner, f.org.ID, dto.BookingQuery{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Nguyễn Văn An", res.Items[0].GuestName())
	assert.Equal(t, 0, res.Page)
	assert.Equal(t, 10, res.Limit)

	_, err = f.svc.List(context.Background(), Caller{UserID: 999}, f.org.ID, dto.BookingQuery{})
	requireCode(t, err, apperrors.ErrCodeForbidden)
}

func TestBookingCreateExclusionViolation(t *testing.T) {
	ict := time.FixedZone("ICT", 7*60*60)
	est := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name    string
		compete bool
		want    string
	}{
		{name: "competitor committed", compete: true, want: "Trùng lịch với đặt chỗ #%d của khách Nguyễn Văn An (2024-06-01–2024-06-05)"},
		{name: "competitor gone", want: "Khoảng thời gian này vừa được đặt, vui lòng chọn ngày khác"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, nil)
			store := &racingBookings{memBookings: memBookings{db: f.db}}
			var competitor *models.Booking
			if tt.compete {
				store.commit = func() {
					// postgres trả timestamptz theo múi giờ của máy chủ ứng dụng
					competitor = f.db.seedBooking(f.property, f.an.ID,
						date(2024, 6, 1).In(est), date(2024, 6, 5).In(ict), constants.BookingStatusConfirmed)
				}
			}
			f.svc.bookings = store
			f.svc.checker = reservation.NewChecker(bookingFinder{bookings: store})

			_, err := f.svc.Create(context.Background(), f.owner, f.request(f.binh.ID, "2024-06-03", "2024-06-07"))
			appErr := requireCode(t, err, apperrors.ErrCodeConflict)
			assert.ErrorIs(t, err, apperrors.ErrOverlapViolation)
			want := tt.want
			if competitor != nil {
				want = fmt.Sprintf(tt.want, competitor.ID)
			}
			assert.Equal(t, want, appErr.Message)
			assert.Empty(t, f.notifier.messages)
		})
	}
}

func TestBookingCreateGuestDeactivatedConcurrently(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.svc.guests = deactivatingGuests{memGuests{db: f.db}}

	_, err := f.svc.Create(context.Background(), f.owner, f.request(f.an.ID, "2024-06-01", "2024-06-05"))
	appErr := requireCode(t, err, apperrors.ErrCodeInvalidState)
	assert.Contains(t, appErr.Message, "Nguyễn Văn An")
	assert.Empty(t, f.db.bookings)
	assert.Equal(t, constants.PropertyStatusAvailable, f.db.property(f.property.ID).Status)
}
