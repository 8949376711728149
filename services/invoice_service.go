package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/repositories"
	"propman/services/logger"
	"propman/services/notification"
	"propman/validator"
)

const (
	periodLayout = "2006-01"
	// hạn thanh toán hóa đơn tháng
	invoiceDueDay = 10
)

type InvoiceServiceOptions struct {
	Invoices    InvoiceStore
	Tenancies   TenancyStore
	Tx          Transactor
	Permissions PermissionChecker
	Notifier    notification.Service
	Logger      logger.Logger
}

type InvoiceService struct {
	invoices    InvoiceStore
	tenancies   TenancyStore
	tx          Transactor
	permissions PermissionChecker
	notifier    notification.Service
	logger      logger.Logger
}

func NewInvoiceService(opts InvoiceServiceOptions) *InvoiceService {
	s := &InvoiceService{
		invoices:    opts.Invoices,
		tenancies:   opts.Tenancies,
		tx:          opts.Tx,
		permissions: opts.Permissions,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
	}
	if s.notifier == nil {
		s.notifier = notification.Nop{}
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	return s
}

// Create tạo hóa đơn cho hợp đồng, mỗi kỳ chỉ một hóa đơn
func (s *InvoiceService) Create(ctx context.Context, caller Caller, req dto.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	dueDate, err := validator.ParseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	tenancy, err := s.tenancies.FindByID(ctx, req.TenancyID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy hợp đồng thuê")
	}
	if err := authorize(ctx, s.permissions, caller, tenancy.OrganizationID, ResourceInvoice, ActionCreate); err != nil {
		return nil, err
	}
	if tenancy.Status != constants.TenancyStatusActive {
		return nil, apperrors.StateError(fmt.Sprintf("Hợp đồng #%d đang ở trạng thái %s, không thể lập hóa đơn", tenancy.ID, tenancy.Status))
	}

	invoice := &models.Invoice{
		OrganizationID:  tenancy.OrganizationID,
		TenancyID:       tenancy.ID,
		Period:          req.Period,
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		DueDate:         dueDate,
		Status:          constants.InvoiceStatusUnpaid,
		Note:            req.Note,
	}
	if err := s.create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) create(ctx context.Context, invoice *models.Invoice) error {
	exists, err := s.invoices.ExistsForPeriod(ctx, invoice.TenancyID, invoice.Period)
	if err != nil {
		return storageErr(err, "")
	}
	if exists {
		return apperrors.ConflictError(fmt.Sprintf("Hợp đồng #%d đã có hóa đơn kỳ %s", invoice.TenancyID, invoice.Period))
	}
	err = s.invoices.Create(ctx, invoice)
	if errors.Is(err, apperrors.ErrDuplicateRecord) {
		return apperrors.NewAppError(apperrors.ErrCodeConflict,
			fmt.Sprintf("Hợp đồng #%d đã có hóa đơn kỳ %s", invoice.TenancyID, invoice.Period), err)
	}
	return storageErr(err, "")
}

// GenerateMonthly lập hóa đơn tiền thuê tháng của now cho mọi hợp đồng ACTIVE
func (s *InvoiceService) GenerateMonthly(ctx context.Context, now time.Time) (int, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	period := monthStart.Format(periodLayout)

	tenancies, err := s.tenancies.ListActive(ctx)
	if err != nil {
		return 0, storageErr(err, "")
	}
	created := 0
	for _, t := range tenancies {
		if !t.StartDate.Before(monthEnd) || !t.EndDate.After(monthStart) {
			continue
		}
		invoice := &models.Invoice{
			OrganizationID:  t.OrganizationID,
			TenancyID:       t.ID,
			Period:          period,
			Amount:          t.MonthlyRent,
			RemainingAmount: t.MonthlyRent,
			DueDate:         time.Date(now.Year(), now.Month(), invoiceDueDay, 0, 0, 0, 0, time.UTC),
			Status:          constants.InvoiceStatusUnpaid,
			Note:            fmt.Sprintf("Tiền thuê tháng %s", monthStart.Format(constants.MonthLayout)),
		}
		if err := s.create(ctx, invoice); err != nil {
			if !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
				s.logger.Error("Không thể lập hóa đơn cho hợp đồng #%d: %v", t.ID, err)
			}
			continue
		}
		created++
	}
	return created, nil
}

// MarkOverdue hóa đơn chưa trả đủ quá hạn chuyển sang OVERDUE
func (s *InvoiceService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	list, err := s.invoices.ListUnsettledDueBefore(ctx, today)
	if err != nil {
		return 0, storageErr(err, "")
	}
	marked := 0
	for i := range list {
		inv := &list[i]
		inv.Status = constants.InvoiceStatusOverdue
		if err := s.invoices.Save(ctx, inv); err != nil {
			s.logger.Error("Không thể cập nhật hóa đơn %s: %v", inv.InvoiceCode, err)
			continue
		}
		marked++
	}
	return marked, nil
}

// RecordPayment ghi nhận thanh toán trong một transaction; không nhận số tiền vượt quá phần còn lại
func (s *InvoiceService) RecordPayment(ctx context.Context, caller Caller, req dto.RecordPaymentRequest) (*models.Invoice, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	invoice, err := s.invoices.FindByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy hóa đơn")
	}
	if err := authorize(ctx, s.permissions, caller, invoice.OrganizationID, ResourcePayment, ActionCreate); err != nil {
		return nil, err
	}

	var updated *models.Invoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.invoices.LockByID(ctx, invoice.ID)
		if err != nil {
			return storageErr(err, "Không tìm thấy hóa đơn")
		}
		if locked.Settled() {
			return apperrors.StateError(fmt.Sprintf("Hóa đơn %s đã được thanh toán đủ", locked.InvoiceCode))
		}
		if req.Amount > locked.RemainingAmount {
			return apperrors.ValidationError(fmt.Sprintf("Số tiền vượt quá số còn phải trả (%d)", locked.RemainingAmount))
		}

		now := time.Now()
		payment := &models.Payment{
			InvoiceID:  locked.ID,
			Amount:     req.Amount,
			Method:     req.Method,
			Reference:  req.Reference,
			PaidAt:     now,
			RecordedBy: caller.UserID,
		}
		if err := s.invoices.CreatePayment(ctx, payment); err != nil {
			return err
		}
		locked.ApplyPayment(req.Amount, now)
		if err := s.invoices.Save(ctx, locked); err != nil {
			return err
		}
		// đọc lại trong transaction để có đủ các khoản đã commit trước khi khóa
		updated, err = s.invoices.FindByID(ctx, locked.ID)
		return err
	})
	if err != nil {
		return nil, storageErr(err, "")
	}

	msg := notification.NewMessageBuilder("invoice.payment").
		WithOrganization(updated.OrganizationID).
		WithMessage("Hóa đơn %s đã nhận %d, còn lại %d", updated.InvoiceCode, req.Amount, updated.RemainingAmount).
		Build()
	if err := s.notifier.Publish(updated.OrganizationID, msg); err != nil {
		s.logger.Warn("Không gửi được thông báo thanh toán: %v", err)
	}
	return updated, nil
}

func (s *InvoiceService) List(ctx context.Context, caller Caller, orgID uint, q dto.InvoiceQuery) (dto.ListResult[models.Invoice], error) {
	var empty dto.ListResult[models.Invoice]
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceInvoice, ActionRead); err != nil {
		return empty, err
	}
	page := pageOf(q.Page, q.Limit)
	items, total, err := s.invoices.List(ctx, repositories.InvoiceFilter{
		OrganizationID: orgID,
		TenancyID:      q.TenancyID,
		Status:         constants.InvoiceStatus(q.Status),
		Page:           page,
	})
	if err != nil {
		return empty, storageErr(err, "")
	}
	return listResult(items, total, page), nil
}

// ListForTenancy người thuê xem hóa đơn hợp đồng của mình
func (s *InvoiceService) ListForTenancy(ctx context.Context, caller Caller, tenancyID uint, q dto.PageQuery) (dto.ListResult[models.Invoice], error) {
	var empty dto.ListResult[models.Invoice]
	if !caller.Authenticated() {
		return empty, apperrors.AuthError("Bạn cần đăng nhập")
	}
	tenancy, err := s.tenancies.FindByID(ctx, tenancyID)
	if err != nil {
		return empty, storageErr(err, "Không tìm thấy hợp đồng thuê")
	}
	if tenancy.TenantID != caller.UserID {
		if err := authorize(ctx, s.permissions, caller, tenancy.OrganizationID, ResourceInvoice, ActionRead); err != nil {
			return empty, err
		}
	}
	page := pageOf(q.Page, q.Limit)
	items, total, err := s.invoices.List(ctx, repositories.InvoiceFilter{TenancyID: tenancyID, Page: page})
	if err != nil {
		return empty, storageErr(err, "")
	}
	return listResult(items, total, page), nil
}
