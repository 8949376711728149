package controllers

import (
	"propman/dto"
	"propman/middleware"
	"propman/response"
	"propman/services"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

// ReservationController đặt chỗ ngắn hạn, hợp đồng thuê và hóa đơn
type ReservationController struct {
	bookings  *services.BookingService
	tenancies *services.TenancyService
	invoices  *services.InvoiceService
	logger    logger.Logger
}

func NewReservationController(bookings *services.BookingService, tenancies *services.TenancyService, invoices *services.InvoiceService, log logger.Logger) ReservationController {
	return ReservationController{bookings: bookings, tenancies: tenancies, invoices: invoices, logger: log}
}

func (r ReservationController) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := r.bookings.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	replyCreated(c, r.logger, booking, err)
}

func (r ReservationController) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := r.bookings.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	reply(c, r.logger, booking, err)
}

func (r ReservationController) ListBookings(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var q dto.BookingQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := r.bookings.List(c.Request.Context(), middleware.CallerFrom(c), orgID, q)
	if err != nil {
		response.FromError(c, r.logger, err)
		return
	}
	response.SuccessWithPagination(c, list.Items, list.Page, list.Limit, list.Total)
}

func (r ReservationController) ChangeBookingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := r.bookings.ChangeStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
	reply(c, r.logger, booking, err)
}

// Calendar lịch theo tháng, month dạng MM/YYYY
func (r ReservationController) Calendar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	days, err := r.bookings.Calendar(c.Request.Context(), middleware.CallerFrom(c), id, c.Query("month"))
	reply(c, r.logger, days, err)
}

// Tenancies

func (r ReservationController) CreateTenancy(c *gin.Context) {
	var req dto.CreateTenancyRequest
	if !bindJSON(c, &req) {
		return
	}
	tenancy, err := r.tenancies.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	replyCreated(c, r.logger, tenancy, err)
}

func (r ReservationController) GetTenancy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tenancy, err := r.tenancies.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	reply(c, r.logger, tenancy, err)
}

func (r ReservationController) ListTenancies(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var q dto.TenancyQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := r.tenancies.List(c.Request.Context(), middleware.CallerFrom(c), orgID, q)
	if err != nil {
		response.FromError(c, r.logger, err)
		return
	}
	response.SuccessWithPagination(c, list.Items, list.Page, list.Limit, list.Total)
}

func (r ReservationController) MyTenancies(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := r.tenancies.ListForTenant(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		response.FromError(c, r.logger, err)
		return
	}
	response.SuccessWithPagination(c, list.Items, list.Page, list.Limit, list.Total)
}

func (r ReservationController) ChangeTenancyStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	tenancy, err := r.tenancies.ChangeStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
	reply(c, r.logger, tenancy, err)
}

// Invoices

func (r ReservationController) CreateInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	req.TenancyID = id
	invoice, err := r.invoices.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	replyCreated(c, r.logger, invoice, err)
}

func (r ReservationController) ListTenancyInvoices(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := r.invoices.ListForTenancy(c.Request.Context(), middleware.CallerFrom(c), id, q)
	if err != nil {
		response.FromError(c, r.logger, err)
		return
	}
	response.SuccessWithPagination(c, list.Items, list.Page, list.Limit, list.Total)
}

func (r ReservationController) ListInvoices(c *gin.Context) {
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}
	var q dto.InvoiceQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := r.invoices.List(c.Request.Context(), middleware.CallerFrom(c), orgID, q)
	if err != nil {
		response.FromError(c, r.logger, err)
		return
	}
	response.SuccessWithPagination(c, list.Items, list.Page, list.Limit, list.Total)
}

func (r ReservationController) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.InvoiceID = id
	invoice, err := r.invoices.RecordPayment(c.Request.Context(), middleware.CallerFrom(c), req)
	replyCreated(c, r.logger, invoice, err)
}
