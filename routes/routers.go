package routes

import (
	"net/http"

	"propman/controllers"
	middlewares "propman/middleware"
	"propman/services/logger"

	"github.com/gin-gonic/gin"
)

// Controllers các handler HTTP đã được khởi tạo
type Controllers struct {
	Auth         controllers.AuthController
	Organization controllers.OrganizationController
	Property     controllers.PropertyController
	Reservation  controllers.ReservationController
	Notification controllers.NotificationController
}

func SetupRoutes(router *gin.Engine, h Controllers, tokens middlewares.TokenParser, log logger.Logger) {
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/google", h.Auth.GoogleLogin)

	// websocket nhận sự kiện đặt chỗ của một tổ chức: /ws?orgId=&token=
	router.GET("/ws", middlewares.WebSocketAuth(tokens, log), h.Notification.Connect)

	auth := v1.Group("", middlewares.AuthMiddleware(tokens, log))
	auth.GET("/me", h.Auth.Me)

	auth.POST("/organizations", h.Organization.Create)
	auth.GET("/organizations", h.Organization.ListMine)
	auth.GET("/organizations/:orgId", h.Organization.Get)
	auth.POST("/organizations/:orgId/members", h.Organization.AddMember)
	auth.POST("/organizations/:orgId/notifications", h.Notification.Announce)

	auth.POST("/organizations/:orgId/properties", h.Property.Create)
	auth.GET("/organizations/:orgId/properties", h.Property.List)
	auth.GET("/organizations/:orgId/properties/search", h.Property.Search)
	auth.GET("/properties/:id", h.Property.Get)
	auth.PUT("/properties/:id/status", h.Property.UpdateStatus)
	auth.POST("/properties/:id/image", h.Property.UploadImage)
	auth.POST("/properties/:id/units", h.Property.CreateUnit)
	auth.GET("/properties/:id/units", h.Property.ListUnits)
	auth.PUT("/units/:id/status", h.Property.UpdateUnitStatus)

	auth.POST("/organizations/:orgId/guests", h.Organization.CreateGuest)
	auth.GET("/organizations/:orgId/guests", h.Organization.ListGuests)
	auth.GET("/guests/:id", h.Organization.GetGuest)
	auth.PUT("/guests/:id/active", h.Organization.SetGuestActive)

	auth.POST("/bookings", h.Reservation.CreateBooking)
	auth.GET("/organizations/:orgId/bookings", h.Reservation.ListBookings)
	auth.GET("/bookings/:id", h.Reservation.GetBooking)
	auth.PUT("/bookings/:id/status", h.Reservation.ChangeBookingStatus)
	auth.GET("/properties/:id/calendar", h.Reservation.Calendar)

	auth.POST("/tenancies", h.Reservation.CreateTenancy)
	auth.GET("/organizations/:orgId/tenancies", h.Reservation.ListTenancies)
	auth.GET("/tenancies/mine", h.Reservation.MyTenancies)
	auth.GET("/tenancies/:id", h.Reservation.GetTenancy)
	auth.PUT("/tenancies/:id/status", h.Reservation.ChangeTenancyStatus)

	auth.POST("/tenancies/:id/invoices", h.Reservation.CreateInvoice)
	auth.GET("/tenancies/:id/invoices", h.Reservation.ListTenancyInvoices)
	auth.GET("/organizations/:orgId/invoices", h.Reservation.ListInvoices)
	auth.POST("/invoices/:id/payments", h.Reservation.RecordPayment)
}
