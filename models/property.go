package models

import (
	"fmt"
	"time"

	"propman/constants"

	"github.com/lib/pq"
)

type Property struct {
	ID             uint                     `json:"id" gorm:"primaryKey"`
	OrganizationID uint                     `json:"organizationId" gorm:"index"`
	Name           string                   `json:"name"`
	Address        string                   `json:"address"`
	Province       string                   `json:"province"`
	District       string                   `json:"district"`
	Latitude       float64                  `json:"latitude"`
	Longitude      float64                  `json:"longitude"`
	Description    string                   `json:"description"`
	Status         constants.PropertyStatus `json:"status" gorm:"type:varchar(20);default:AVAILABLE"`
	NightlyRate    int64                    `json:"nightlyRate"`
	MaxGuests      int                      `json:"maxGuests"`
	Avatar         string                   `json:"avatar"`
	Images         pq.StringArray           `json:"images" gorm:"type:text[]"`
	Amenities      pq.StringArray           `json:"amenities" gorm:"type:text[]"`
	CreatedAt      time.Time                `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`
	Units          []Unit                   `json:"units,omitempty" gorm:"foreignKey:PropertyID"`
}

func (p *Property) ValidateStatus() error {
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	return nil
}

// Unit căn hộ/phòng cho thuê dài hạn thuộc một Property
type Unit struct {
	ID          uint                 `json:"id" gorm:"primaryKey"`
	PropertyID  uint                 `json:"propertyId" gorm:"index"`
	Name        string               `json:"name"`
	Floor       int                  `json:"floor"`
	Bedrooms    int                  `json:"bedrooms"`
	Acreage     int                  `json:"acreage"`
	MonthlyRent int64                `json:"monthlyRent"`
	Status      constants.UnitStatus `json:"status" gorm:"type:varchar(20);default:VACANT"`
	CreatedAt   time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`
	Property    *Property            `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// Guest khách lưu trú ngắn hạn của tổ chức
type Guest struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId" gorm:"index"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"type:varchar(15)"`
	IsActive       bool      `json:"isActive" gorm:"default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
