package repositories

import (
	"context"
	"time"

	"propman/constants"
	"propman/models"

	"gorm.io/gorm"
)

type InvoiceFilter struct {
	OrganizationID uint
	TenancyID      uint
	Status         constants.InvoiceStatus
	Page
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return translateError(conn(ctx, r.db).Create(inv).Error)
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *models.Invoice) error {
	return translateError(conn(ctx, r.db).Omit("Payments", "Tenancy").Save(inv).Error)
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := conn(ctx, r.db).Preload("Payments").First(&inv, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

// LockByID đọc hóa đơn và khóa dòng để ghi nhận thanh toán
func (r *InvoiceRepository) LockByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := forUpdate(ctx, r.db).First(&inv, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) ExistsForPeriod(ctx context.Context, tenancyID uint, period string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Invoice{}).
		Where("tenancy_id = ? AND period = ?", tenancyID, period).
		Count(&count).Error
	return count > 0, translateError(err)
}

func (r *InvoiceRepository) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, int64, error) {
	q := conn(ctx, r.db).Model(&models.Invoice{})
	if f.OrganizationID != 0 {
		q = q.Where("organization_id = ?", f.OrganizationID)
	}
	if f.TenancyID != 0 {
		q = q.Where("tenancy_id = ?", f.TenancyID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	var list []models.Invoice
	err := f.Page.apply(q.Order("due_date DESC")).Find(&list).Error
	return list, total, translateError(err)
}

// ListUnsettledDueBefore hóa đơn chưa thanh toán đủ đã quá hạn
func (r *InvoiceRepository) ListUnsettledDueBefore(ctx context.Context, before time.Time) ([]models.Invoice, error) {
	var list []models.Invoice
	err := conn(ctx, r.db).
		Where("status IN ? AND due_date < ?", []constants.InvoiceStatus{constants.InvoiceStatusUnpaid, constants.InvoiceStatusPartial}, before).
		Find(&list).Error
	return list, translateError(err)
}

func (r *InvoiceRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translateError(conn(ctx, r.db).Create(p).Error)
}
