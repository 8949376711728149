package repositories

import (
	"context"
	"time"

	"propman/constants"
	"propman/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TenancyFilter struct {
	OrganizationID uint
	UnitID         uint
	TenantID       uint
	Status         constants.TenancyStatus
	Page
}

type TenancyRepository struct {
	db *gorm.DB
}

func NewTenancyRepository(db *gorm.DB) *TenancyRepository {
	return &TenancyRepository{db: db}
}

func (r *TenancyRepository) Create(ctx context.Context, t *models.Tenancy) error {
	return translateError(conn(ctx, r.db).Create(t).Error)
}

func (r *TenancyRepository) Save(ctx context.Context, t *models.Tenancy) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Save(t).Error)
}

func (r *TenancyRepository) FindByID(ctx context.Context, id uint) (*models.Tenancy, error) {
	var t models.Tenancy
	err := conn(ctx, r.db).Preload("Tenant").Preload("Unit").First(&t, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

func (r *TenancyRepository) FindBlocking(ctx context.Context, unitID uint, statuses []string) ([]models.Tenancy, error) {
	var list []models.Tenancy
	err := conn(ctx, r.db).Preload("Tenant").
		Where("unit_id = ? AND status IN ?", unitID, statuses).
		Order("start_date ASC").
		Find(&list).Error
	return list, translateError(err)
}

func (r *TenancyRepository) List(ctx context.Context, f TenancyFilter) ([]models.Tenancy, int64, error) {
	q := conn(ctx, r.db).Model(&models.Tenancy{})
	if f.OrganizationID != 0 {
		q = q.Where("organization_id = ?", f.OrganizationID)
	}
	if f.UnitID != 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	if f.TenantID != 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	var list []models.Tenancy
	err := f.Page.apply(q.Preload("Tenant").Preload("Unit").Order("start_date DESC")).Find(&list).Error
	return list, total, translateError(err)
}

// ListActive toàn bộ hợp đồng ACTIVE, dùng cho job sinh hóa đơn
func (r *TenancyRepository) ListActive(ctx context.Context) ([]models.Tenancy, error) {
	var list []models.Tenancy
	err := conn(ctx, r.db).Where("status = ?", constants.TenancyStatusActive).Find(&list).Error
	return list, translateError(err)
}

// ListEndedBefore hợp đồng ACTIVE đã qua ngày kết thúc
func (r *TenancyRepository) ListEndedBefore(ctx context.Context, before time.Time) ([]models.Tenancy, error) {
	var list []models.Tenancy
	err := conn(ctx, r.db).
		Where("status = ? AND end_date <= ?", constants.TenancyStatusActive, before).
		Find(&list).Error
	return list, translateError(err)
}
