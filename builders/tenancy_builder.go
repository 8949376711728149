package builders

import (
	"propman/constants"
	"propman/models"
	"propman/services/reservation"
)

// TenancyBuilder giúp tạo hợp đồng thuê theo từng bước
type TenancyBuilder struct {
	tenancy *models.Tenancy
}

func NewTenancyBuilder() *TenancyBuilder {
	return &TenancyBuilder{
		tenancy: &models.Tenancy{Status: constants.TenancyStatusPending},
	}
}

// WithUnit gán căn hộ; tiền thuê mặc định lấy theo căn hộ
func (b *TenancyBuilder) WithUnit(unit *models.Unit, orgID uint) *TenancyBuilder {
	b.tenancy.UnitID = unit.ID
	b.tenancy.OrganizationID = orgID
	if b.tenancy.MonthlyRent == 0 {
		b.tenancy.MonthlyRent = unit.MonthlyRent
	}
	return b
}

func (b *TenancyBuilder) WithTenant(userID uint) *TenancyBuilder {
	b.tenancy.TenantID = userID
	return b
}

func (b *TenancyBuilder) WithTerm(term reservation.Interval) *TenancyBuilder {
	b.tenancy.StartDate = term.Start
	b.tenancy.EndDate = term.End
	return b
}

// WithRent ghi đè tiền thuê nếu rent > 0
func (b *TenancyBuilder) WithRent(rent, deposit int64) *TenancyBuilder {
	if rent > 0 {
		b.tenancy.MonthlyRent = rent
	}
	b.tenancy.Deposit = deposit
	return b
}

func (b *TenancyBuilder) WithStatus(status constants.TenancyStatus) *TenancyBuilder {
	if status != "" {
		b.tenancy.Status = status
	}
	return b
}

func (b *TenancyBuilder) WithCreator(userID uint) *TenancyBuilder {
	b.tenancy.CreatedBy = userID
	return b
}

func (b *TenancyBuilder) Build() *models.Tenancy {
	return b.tenancy
}
