package config

import (
	"fmt"

	"propman/models"
	"propman/services/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Ràng buộc loại trừ: hai đặt chỗ đang giữ chỗ trên cùng tài nguyên không được giao nhau.
// Đây là lớp chặn cuối cùng khi hai request đồng thời cùng vượt qua bước kiểm tra trùng lịch.
var exclusionConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (property_id WITH =, tstzrange(check_in, check_out, '[)') WITH &&)
				WHERE (status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN'));
		END IF;
	END $$`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'tenancies_no_overlap') THEN
			ALTER TABLE tenancies ADD CONSTRAINT tenancies_no_overlap
				EXCLUDE USING gist (unit_id WITH =, daterange(start_date, end_date, '[)') WITH &&)
				WHERE (status IN ('PENDING', 'ACTIVE'));
		END IF;
	END $$`,
}

// DSN chuỗi kết nối postgres
func DSN(cfg DatabaseConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

func ConnectDB(cfg DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("Successfully connected to db %s@%s", cfg.Name, cfg.Host)
	return db, nil
}

// Migrate tạo bảng và các ràng buộc chống trùng lịch
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Property{},
		&models.Unit{},
		&models.Guest{},
		&models.Booking{},
		&models.Tenancy{},
		&models.Invoice{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	for _, stmt := range exclusionConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	return nil
}
