package models

import (
	"time"
)

type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
	Name        string       `gorm:"default:New User" json:"name"`
	Email       string       `gorm:"uniqueIndex;not null" json:"email"`
	Password    string       `json:"-"`
	PhoneNumber string       `gorm:"type:varchar(15)" json:"phoneNumber"`
	GoogleID    string       `gorm:"index" json:"-"`
	Avatar      string       `json:"avatar"`
	Role        int          `gorm:"default:0" json:"role"`
	Status      int          `gorm:"default:1" json:"status"`
	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}
