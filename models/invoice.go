package models

import (
	"fmt"
	"strings"
	"time"

	"propman/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID              uint                    `json:"id" gorm:"primaryKey"`                                 // Mã hóa đơn
	InvoiceCode     string                  `json:"invoiceCode" gorm:"uniqueIndex;size:32"`               // Mã hóa đơn duy nhất
	OrganizationID  uint                    `json:"organizationId" gorm:"index"`
	TenancyID       uint                    `json:"tenancyId" gorm:"uniqueIndex:idx_invoice_tenancy_period"` // Liên kết với hợp đồng thuê
	Period          string                  `json:"period" gorm:"size:7;uniqueIndex:idx_invoice_tenancy_period"` // Kỳ thu tiền, dạng 2006-01
	Amount          int64                   `json:"amount"`
	PaidAmount      int64                   `json:"paidAmount"`
	RemainingAmount int64                   `json:"remainingAmount"`
	DueDate         time.Time               `json:"dueDate" gorm:"type:date"`
	Status          constants.InvoiceStatus `json:"status" gorm:"type:varchar(20);index"`
	PaidAt          *time.Time              `json:"paidAt,omitempty"`
	Note            string                  `json:"note,omitempty"`
	CreatedAt       time.Time               `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time               `gorm:"autoUpdateTime" json:"updatedAt"`
	Tenancy         *Tenancy                `json:"tenancy,omitempty" gorm:"foreignKey:TenancyID"`
	Payments        []Payment               `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
}

// NewInvoiceCode sinh mã hóa đơn
func NewInvoiceCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV%s%s", now.Format("060102"), suffix)
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.InvoiceCode == "" {
		invoice.InvoiceCode = NewInvoiceCode(time.Now())
	}

	var count int64
	if err := tx.Model(&Invoice{}).Where("invoice_code = ?", invoice.InvoiceCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("invoice code %s already exists", invoice.InvoiceCode)
	}
	return nil
}

// ApplyPayment cộng số tiền đã trả và cập nhật trạng thái
func (invoice *Invoice) ApplyPayment(amount int64, at time.Time) {
	invoice.PaidAmount += amount
	invoice.RemainingAmount = invoice.Amount - invoice.PaidAmount
	if invoice.RemainingAmount <= 0 {
		invoice.RemainingAmount = 0
		invoice.Status = constants.InvoiceStatusPaid
		invoice.PaidAt = &at
		return
	}
	invoice.Status = constants.InvoiceStatusPartial
}

// Settled hóa đơn đã thanh toán đủ
func (invoice *Invoice) Settled() bool {
	return invoice.Status == constants.InvoiceStatusPaid
}

type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	InvoiceID  uint      `json:"invoiceId" gorm:"index"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method" gorm:"size:20"`
	Reference  string    `json:"reference,omitempty"`
	PaidAt     time.Time `json:"paidAt"`
	RecordedBy uint      `json:"recordedBy"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
