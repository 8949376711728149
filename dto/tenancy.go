package dto

type CreateTenancyRequest struct {
	UnitID      uint   `json:"unitId" validate:"required"`
	TenantID    uint   `json:"tenantId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	MonthlyRent int64  `json:"monthlyRent" validate:"omitempty,gt=0"`
	Deposit     int64  `json:"deposit" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=PENDING ACTIVE"`
}

type TenancyQuery struct {
	PageQuery
	UnitID   uint   `form:"unitId"`
	TenantID uint   `form:"tenantId"`
	Status   string `form:"status"`
}
