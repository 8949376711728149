package services

import (
	"context"
	"time"

	"propman/constants"
	"propman/dto"
	"propman/models"
	"propman/repositories"
	"propman/services/reservation"
)

// Transactor chạy fn trong một transaction, ctx truyền vào fn mang transaction đó
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	MembershipFinder
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	CreateOrganization(ctx context.Context, org *models.Organization, owner *models.Membership) error
	FindOrganization(ctx context.Context, id uint) (*models.Organization, error)
	AddMembership(ctx context.Context, m *models.Membership) error
	ListMemberships(ctx context.Context, userID uint) ([]models.Membership, error)
}

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	Save(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	LockByID(ctx context.Context, id uint) (*models.Property, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]models.Property, error)
	UpdateStatus(ctx context.Context, id uint, status constants.PropertyStatus) error
	CreateUnit(ctx context.Context, u *models.Unit) error
	FindUnit(ctx context.Context, id uint) (*models.Unit, error)
	LockUnit(ctx context.Context, id uint) (*models.Unit, error)
	ListUnits(ctx context.Context, propertyID uint) ([]models.Unit, error)
	UpdateUnitStatus(ctx context.Context, id uint, status constants.UnitStatus) error
}

type GuestStore interface {
	Create(ctx context.Context, g *models.Guest) error
	Save(ctx context.Context, g *models.Guest) error
	FindByID(ctx context.Context, id uint) (*models.Guest, error)
	LockByID(ctx context.Context, id uint) (*models.Guest, error)
	ListByOrganization(ctx context.Context, orgID uint, search string, page repositories.Page) ([]models.Guest, int64, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	Save(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindBlocking(ctx context.Context, propertyID uint, statuses []string) ([]models.Booking, error)
	FindInRange(ctx context.Context, propertyID uint, from, to time.Time) ([]models.Booking, error)
	List(ctx context.Context, f repositories.BookingFilter) ([]models.Booking, int64, error)
	ListCheckedInBefore(ctx context.Context, before time.Time) ([]models.Booking, error)
}

type TenancyStore interface {
	Create(ctx context.Context, t *models.Tenancy) error
	Save(ctx context.Context, t *models.Tenancy) error
	FindByID(ctx context.Context, id uint) (*models.Tenancy, error)
	FindBlocking(ctx context.Context, unitID uint, statuses []string) ([]models.Tenancy, error)
	List(ctx context.Context, f repositories.TenancyFilter) ([]models.Tenancy, int64, error)
	ListActive(ctx context.Context) ([]models.Tenancy, error)
	ListEndedBefore(ctx context.Context, before time.Time) ([]models.Tenancy, error)
}

type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Save(ctx context.Context, inv *models.Invoice) error
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	LockByID(ctx context.Context, id uint) (*models.Invoice, error)
	ExistsForPeriod(ctx context.Context, tenancyID uint, period string) (bool, error)
	List(ctx context.Context, f repositories.InvoiceFilter) ([]models.Invoice, int64, error)
	ListUnsettledDueBefore(ctx context.Context, before time.Time) ([]models.Invoice, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
}

// bookingFinder đọc booking giữ chỗ của một chỗ ở dưới dạng Reservation
type bookingFinder struct {
	bookings BookingStore
}

func (f bookingFinder) FindBlocking(ctx context.Context, propertyID uint, statuses []string) ([]reservation.Reservation, error) {
	list, err := f.bookings.FindBlocking(ctx, propertyID, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]reservation.Reservation, 0, len(list))
	for i := range list {
		b := &list[i]
		out = append(out, reservation.Reservation{
			ID:         b.ID,
			ResourceID: b.PropertyID,
			PartyID:    b.GuestID,
			PartyName:  b.GuestName(),
			Start:      b.CheckIn,
			End:        b.CheckOut,
			Status:     string(b.Status),
		})
	}
	return out, nil
}

// tenancyFinder đọc hợp đồng giữ chỗ của một căn hộ
type tenancyFinder struct {
	tenancies TenancyStore
}

func (f tenancyFinder) FindBlocking(ctx context.Context, unitID uint, statuses []string) ([]reservation.Reservation, error) {
	list, err := f.tenancies.FindBlocking(ctx, unitID, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]reservation.Reservation, 0, len(list))
	for i := range list {
		t := &list[i]
		out = append(out, reservation.Reservation{
			ID:         t.ID,
			ResourceID: t.UnitID,
			PartyID:    t.TenantID,
			PartyName:  t.TenantName(),
			Start:      t.StartDate,
			End:        t.EndDate,
			Status:     string(t.Status),
		})
	}
	return out, nil
}

// pageOf trang đã chuẩn hóa, cũng là trang được trả về cho client
func pageOf(page, limit int) repositories.Page {
	return repositories.Page{Page: page, Limit: limit}.Normalized()
}

func listResult[T any](items []T, total int64, page repositories.Page) dto.ListResult[T] {
	return dto.ListResult[T]{Items: items, Total: total, Page: page.Page, Limit: page.Limit}
}
