package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	DB         DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Google     GoogleConfig     `mapstructure:"google"`
	Goong      GoongConfig      `mapstructure:"goong"`
	Cron       CronConfig       `mapstructure:"cron"`
}

type AppConfig struct {
	Env      string        `mapstructure:"env"`
	Port     string        `mapstructure:"port"`
	LogLevel string        `mapstructure:"log_level"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	TimeZone        string        `mapstructure:"timezone"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
}

type GoongConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type CronConfig struct {
	Bookings string `mapstructure:"bookings"`
	Tenancy  string `mapstructure:"tenancy"`
	Invoices string `mapstructure:"invoices"`
	Overdue  string `mapstructure:"overdue"`
}

var defaults = map[string]interface{}{
	"app.env":               "dev",
	"app.port":              "8083",
	"app.log_level":         "info",
	"app.cache_ttl":         10 * time.Minute,
	"app.timeout":           15 * time.Second,
	"db.host":               "localhost",
	"db.port":               "5432",
	"db.user":               "postgres",
	"db.password":           "",
	"db.name":               "propman",
	"db.sslmode":            "disable",
	"db.timezone":           "Asia/Ho_Chi_Minh",
	"db.max_open_conns":     25,
	"db.max_idle_conns":     5,
	"db.conn_max_lifetime":  30 * time.Minute,
	"redis.addr":            "localhost:6379",
	"redis.user":            "",
	"redis.password":        "",
	"redis.db":              0,
	"jwt.secret":            "",
	"jwt.ttl":               72 * time.Hour,
	"cloudinary.cloud_name": "",
	"cloudinary.api_key":    "",
	"cloudinary.api_secret": "",
	"cloudinary.folder":     "properties",
	"google.client_id":      "",
	"goong.api_key":         "",
	"goong.base_url":        "https://rsapi.goong.io",
	"cron.bookings":         "*/15 * * * *",
	"cron.tenancy":          "0 0 * * *",
	"cron.invoices":         "0 1 1 * *",
	"cron.overdue":          "30 0 * * *",
}

// LoadEnv nạp biến môi trường từ tệp `.env` nếu có
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}
}

// Load đọc cấu hình từ biến môi trường, ví dụ DB_HOST -> db.host, JWT_SECRET -> jwt.secret
func Load() (*Config, error) {
	LoadEnv()
	return Parse(viper.New())
}

func Parse(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}
