package repositories

import (
	"context"

	"propman/constants"
	"propman/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	return translateError(conn(ctx, r.db).Create(p).Error)
}

func (r *PropertyRepository) Save(ctx context.Context, p *models.Property) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Save(p).Error)
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// LockByID đọc property và giữ khóa dòng đến hết transaction hiện tại
func (r *PropertyRepository) LockByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := forUpdate(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *PropertyRepository) ListByOrganization(ctx context.Context, orgID uint) ([]models.Property, error) {
	var list []models.Property
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).Order("updated_at DESC").Find(&list).Error
	return list, translateError(err)
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id uint, status constants.PropertyStatus) error {
	res := conn(ctx, r.db).Model(&models.Property{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PropertyRepository) CreateUnit(ctx context.Context, u *models.Unit) error {
	return translateError(conn(ctx, r.db).Create(u).Error)
}

func (r *PropertyRepository) FindUnit(ctx context.Context, id uint) (*models.Unit, error) {
	var u models.Unit
	if err := conn(ctx, r.db).Preload("Property").First(&u, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *PropertyRepository) LockUnit(ctx context.Context, id uint) (*models.Unit, error) {
	var u models.Unit
	if err := forUpdate(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *PropertyRepository) ListUnits(ctx context.Context, propertyID uint) ([]models.Unit, error) {
	var list []models.Unit
	err := conn(ctx, r.db).Where("property_id = ?", propertyID).Order("name ASC").Find(&list).Error
	return list, translateError(err)
}

func (r *PropertyRepository) UpdateUnitStatus(ctx context.Context, id uint, status constants.UnitStatus) error {
	res := conn(ctx, r.db).Model(&models.Unit{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}
