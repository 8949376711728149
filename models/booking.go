package models

import (
	"time"

	"propman/constants"
)

type Booking struct {
	ID             uint                    `json:"id" gorm:"primaryKey"`
	OrganizationID uint                    `json:"organizationId" gorm:"index"`
	PropertyID     uint                    `json:"propertyId" gorm:"index"`
	GuestID        uint                    `json:"guestId" gorm:"index"`
	CheckIn        time.Time               `json:"checkIn"`
	CheckOut       time.Time               `json:"checkOut"`
	Status         constants.BookingStatus `json:"status" gorm:"type:varchar(20);index"`
	Nights         int                     `json:"nights"`
	NumGuests      int                     `json:"numGuests"`
	NightlyRate    int64                   `json:"nightlyRate"`
	TotalPrice     int64                   `json:"totalPrice"`
	Note           string                  `json:"note,omitempty"`
	CreatedBy      uint                    `json:"createdBy"`
	CreatedAt      time.Time               `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time               `gorm:"autoUpdateTime" json:"updatedAt"`
	Guest          *Guest                  `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Property       *Property               `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// GuestName tên khách, rỗng nếu chưa preload
func (b *Booking) GuestName() string {
	if b.Guest == nil {
		return ""
	}
	return b.Guest.Name
}

type Tenancy struct {
	ID             uint                    `json:"id" gorm:"primaryKey"`
	OrganizationID uint                    `json:"organizationId" gorm:"index"`
	UnitID         uint                    `json:"unitId" gorm:"index"`
	TenantID       uint                    `json:"tenantId" gorm:"index"`
	StartDate      time.Time               `json:"startDate" gorm:"type:date"`
	EndDate        time.Time               `json:"endDate" gorm:"type:date"`
	MonthlyRent    int64                   `json:"monthlyRent"`
	Deposit        int64                   `json:"deposit"`
	Status         constants.TenancyStatus `json:"status" gorm:"type:varchar(20);index"`
	CreatedBy      uint                    `json:"createdBy"`
	CreatedAt      time.Time               `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time               `gorm:"autoUpdateTime" json:"updatedAt"`
	Tenant         *User                   `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Unit           *Unit                   `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (t *Tenancy) TenantName() string {
	if t.Tenant == nil {
		return ""
	}
	return t.Tenant.Name
}
