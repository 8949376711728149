package repositories

import (
	"context"

	"propman/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) Create(ctx context.Context, g *models.Guest) error {
	return translateError(conn(ctx, r.db).Create(g).Error)
}

func (r *GuestRepository) Save(ctx context.Context, g *models.Guest) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Save(g).Error)
}

func (r *GuestRepository) FindByID(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	if err := conn(ctx, r.db).First(&g, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &g, nil
}

// LockByID khóa dòng khách đến hết transaction để trạng thái khóa/mở không đổi giữa chừng
func (r *GuestRepository) LockByID(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	if err := forUpdate(ctx, r.db).First(&g, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &g, nil
}

func (r *GuestRepository) ListByOrganization(ctx context.Context, orgID uint, search string, page Page) ([]models.Guest, int64, error) {
	q := conn(ctx, r.db).Model(&models.Guest{}).Where("organization_id = ?", orgID)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone_number LIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	var list []models.Guest
	err := page.apply(q.Order("name ASC")).Find(&list).Error
	return list, total, translateError(err)
}
