package repositories

import (
	"context"

	"propman/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(conn(ctx, r.db).Create(user).Error)
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return translateError(conn(ctx, r.db).Save(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateOrganization tạo tổ chức và membership OWNER cho người tạo
func (r *UserRepository) CreateOrganization(ctx context.Context, org *models.Organization, owner *models.Membership) error {
	return translateError(conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		owner.OrganizationID = org.ID
		return tx.Create(owner).Error
	}))
}

func (r *UserRepository) FindOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := conn(ctx, r.db).First(&org, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &org, nil
}

func (r *UserRepository) AddMembership(ctx context.Context, m *models.Membership) error {
	return translateError(conn(ctx, r.db).Create(m).Error)
}

func (r *UserRepository) FindMembership(ctx context.Context, userID, orgID uint) (*models.Membership, error) {
	var m models.Membership
	err := conn(ctx, r.db).Preload("User").
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (r *UserRepository) ListMemberships(ctx context.Context, userID uint) ([]models.Membership, error) {
	var list []models.Membership
	err := conn(ctx, r.db).Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, translateError(err)
}
