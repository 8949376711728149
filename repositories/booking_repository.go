package repositories

import (
	"context"
	"time"

	"propman/constants"
	"propman/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingFilter điều kiện lọc danh sách booking
type BookingFilter struct {
	OrganizationID uint
	PropertyID     uint
	GuestID        uint
	Status         constants.BookingStatus
	From           *time.Time
	To             *time.Time
	Page
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	return translateError(conn(ctx, r.db).Create(b).Error)
}

func (r *BookingRepository) Save(ctx context.Context, b *models.Booking) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Save(b).Error)
}

func (r *BookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := conn(ctx, r.db).Preload("Guest").Preload("Property").First(&b, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

// FindBlocking các booking của property có trạng thái thuộc statuses, sắp theo ngày nhận phòng
func (r *BookingRepository) FindBlocking(ctx context.Context, propertyID uint, statuses []string) ([]models.Booking, error) {
	var list []models.Booking
	err := conn(ctx, r.db).Preload("Guest").
		Where("property_id = ? AND status IN ?", propertyID, statuses).
		Order("check_in ASC").
		Find(&list).Error
	return list, translateError(err)
}

// FindInRange booking giữ chỗ của property giao với [from, to)
func (r *BookingRepository) FindInRange(ctx context.Context, propertyID uint, from, to time.Time) ([]models.Booking, error) {
	var list []models.Booking
	err := conn(ctx, r.db).Preload("Guest").
		Where("property_id = ? AND status IN ?", propertyID, constants.BookingBlockingStatuses).
		Where("check_in < ? AND check_out > ?", to, from).
		Order("check_in ASC").
		Find(&list).Error
	return list, translateError(err)
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	q := conn(ctx, r.db).Model(&models.Booking{}).Where("organization_id = ?", f.OrganizationID)
	if f.PropertyID != 0 {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.GuestID != 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	var list []models.Booking
	err := f.Page.apply(q.Preload("Guest").Order("check_in DESC")).Find(&list).Error
	return list, total, translateError(err)
}

// ListCheckedInBefore booking đang lưu trú đã quá giờ trả phòng
func (r *BookingRepository) ListCheckedInBefore(ctx context.Context, before time.Time) ([]models.Booking, error) {
	var list []models.Booking
	err := conn(ctx, r.db).
		Where("status = ? AND check_out <= ?", constants.BookingStatusCheckedIn, before).
		Find(&list).Error
	return list, translateError(err)
}
