package dto

// CreateInvoiceRequest tạo hóa đơn cho một hợp đồng thuê
type CreateInvoiceRequest struct {
	TenancyID uint   `json:"-"`
	Period    string `json:"period" validate:"required,datetime=2006-01"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	DueDate   string `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Note      string `json:"note" validate:"max=255"`
}

// RecordPaymentRequest ghi nhận một lần thanh toán
type RecordPaymentRequest struct {
	InvoiceID uint   `json:"-"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=CASH TRANSFER CARD"`
	Reference string `json:"reference" validate:"max=100"`
}

type InvoiceQuery struct {
	PageQuery
	TenancyID uint   `form:"tenancyId"`
	Status    string `form:"status"`
}
