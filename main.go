package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propman/config"
	"propman/controllers"
	"propman/jobs"
	middlewares "propman/middleware"
	"propman/repositories"
	"propman/routes"
	"propman/services"
	"propman/services/logger"
	"propman/services/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET chưa được cấu hình")
	}

	appLogger := logger.NewLogrusLogger(logger.ParseLevel(cfg.App.LogLevel), cfg.IsProd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := config.InitApp(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	app.Router.Use(middlewares.RequestID(), middlewares.Logger(appLogger.Logrus()), middlewares.ErrorHandler(appLogger))

	// repositories
	tx := repositories.NewTransactor(app.DB)
	users := repositories.NewUserRepository(app.DB)
	properties := repositories.NewPropertyRepository(app.DB)
	guests := repositories.NewGuestRepository(app.DB)
	bookings := repositories.NewBookingRepository(app.DB)
	tenancies := repositories.NewTenancyRepository(app.DB)
	invoices := repositories.NewInvoiceRepository(app.DB)

	var cache services.Cache = services.NopCache{}
	if app.Redis != nil {
		cache = services.NewRedisTagCache(app.Redis, appLogger.WithField("component", "cache"))
	}
	var uploader services.ImageUploader
	if app.Cloudinary != nil {
		uploader = services.NewCloudinaryUploader(app.Cloudinary, cfg.Cloudinary.Folder)
	}
	var geocoder services.Geocoder
	if cfg.Goong.APIKey != "" {
		geocoder = services.NewGoongGeocoder(cfg.Goong.APIKey, cfg.Goong.BaseURL)
	}
	var google services.GoogleVerifier
	if cfg.Google.ClientID != "" {
		google = services.IDTokenVerifier{ClientID: cfg.Google.ClientID}
	}
	notifier := notification.NewMelodyService(app.Melody)
	perms := services.NewRoleChecker(users)
	tokens := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)

	// services
	authService := services.NewAuthService(users, tokens, google, appLogger)
	orgService := services.NewOrganizationService(users, perms, appLogger)
	guestService := services.NewGuestService(guests, perms, appLogger)
	propertyService := services.NewPropertyService(services.PropertyServiceOptions{
		Properties:  properties,
		Permissions: perms,
		Cache:       cache,
		Uploader:    uploader,
		Geocoder:    geocoder,
		Logger:      appLogger,
		CacheTTL:    cfg.App.CacheTTL,
	})
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		Bookings:    bookings,
		Properties:  properties,
		Guests:      guests,
		Tx:          tx,
		Permissions: perms,
		Cache:       cache,
		Notifier:    notifier,
		Logger:      appLogger.WithField("component", "booking"),
		CacheTTL:    cfg.App.CacheTTL,
	})
	tenancyService := services.NewTenancyService(services.TenancyServiceOptions{
		Tenancies:   tenancies,
		Properties:  properties,
		Users:       users,
		Tx:          tx,
		Permissions: perms,
		Cache:       cache,
		Notifier:    notifier,
		Logger:      appLogger.WithField("component", "tenancy"),
	})
	invoiceService := services.NewInvoiceService(services.InvoiceServiceOptions{
		Invoices:    invoices,
		Tenancies:   tenancies,
		Tx:          tx,
		Permissions: perms,
		Notifier:    notifier,
		Logger:      appLogger.WithField("component", "invoice"),
	})

	runners := jobs.Runners{Bookings: bookingService, Tenancies: tenancyService, Invoices: invoiceService}
	if err := jobs.InitCronJobs(app.Cron, cfg.Cron, runners, appLogger.WithField("component", "cron")); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(app.Router, routes.Controllers{
		Auth:         controllers.NewAuthController(authService, appLogger),
		Organization: controllers.NewOrganizationController(orgService, guestService, appLogger),
		Property:     controllers.NewPropertyController(propertyService, appLogger),
		Reservation:  controllers.NewReservationController(bookingService, tenancyService, invoiceService, appLogger),
		Notification: controllers.NewNotificationController(app.Melody, perms, appLogger.WithField("component", "websocket")),
	}, tokens, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.Router,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      cfg.App.Timeout,
	}
	go func() {
		appLogger.Info("Server starting on port %s...", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Server shutting down")

	cronCtx := app.Cron.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Lỗi khi tắt server: %v", err)
	}
	_ = app.Melody.Close()
	<-cronCtx.Done()
}
