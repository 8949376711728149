package models

import (
	"time"

	"propman/constants"
)

// Organization đơn vị quản lý (multi-tenant), sở hữu chỗ ở, khách và hợp đồng thuê
type Organization struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	Name       string       `json:"name" gorm:"not null"`
	OwnerID    uint         `json:"ownerId" gorm:"index"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
	Properties []Property   `json:"properties,omitempty" gorm:"foreignKey:OrganizationID"`
	Members    []Membership `json:"members,omitempty" gorm:"foreignKey:OrganizationID"`
}

// Membership vai trò của user trong tổ chức
type Membership struct {
	ID             uint                 `json:"id" gorm:"primaryKey"`
	OrganizationID uint                 `json:"organizationId" gorm:"uniqueIndex:idx_member_org_user"`
	UserID         uint                 `json:"userId" gorm:"uniqueIndex:idx_member_org_user"`
	Role           constants.MemberRole `json:"role" gorm:"type:varchar(20)"`
	Status         int                  `json:"status" gorm:"default:1"`
	CreatedAt      time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	User           *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Organization   *Organization        `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (m *Membership) Active() bool {
	return m.Status == constants.UserStatusActive
}
