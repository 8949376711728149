package config

import (
	"context"
	"fmt"

	"propman/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// App các thành phần hạ tầng dùng chung
type App struct {
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	Melody     *melody.Melody
	Cron       *cron.Cron
}

func InitApp(ctx context.Context, cfg *Config, log logger.Logger) (*App, error) {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Request-ID")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	app := &App{
		Router: router,
		Melody: melody.New(),
		Cron:   cron.New(),
	}
	if err := initComponents(ctx, app, cfg, log); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return app, nil
}

func initComponents(ctx context.Context, app *App, cfg *Config, log logger.Logger) error {
	var err error
	app.DB, err = ConnectDB(cfg.DB, log)
	if err != nil {
		return err
	}
	if err := Migrate(app.DB); err != nil {
		return err
	}

	// thiếu redis vẫn chạy được, chỉ mất cache
	app.Redis, err = ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("Không kết nối được Redis, tắt cache: %v", err)
		app.Redis = nil
	}

	app.Cloudinary, err = ConnectCloudinary(cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("failed to init Cloudinary: %w", err)
	}
	if app.Cloudinary == nil {
		log.Warn("Cloudinary chưa được cấu hình, tắt chức năng upload ảnh")
	}

	log.Info("All components initialized successfully")
	return nil
}

// ConnectCloudinary trả về nil nếu chưa cấu hình
func ConnectCloudinary(cfg CloudinaryConfig) (*cloudinary.Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" {
		return nil, nil
	}
	return cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
}
