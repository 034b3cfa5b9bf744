package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Tax        TaxConfig
	Commission CommissionConfig
	Printer    PrinterConfig
	Receipt    ReceiptConfig

	// EnvFileLoaded reports whether a .env file was read
	EnvFileLoaded bool
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// RedisConfig configures the commission report cache. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures the sale event publisher. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TaxConfig struct {
	SplitRatio         decimal.Decimal
	DefaultServiceRate decimal.Decimal
}

type CommissionConfig struct {
	StackItemBased bool
	ReportCacheTTL time.Duration
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

// ReceiptConfig is printed at the top of every receipt
type ReceiptConfig struct {
	StoreName     string
	Address       string
	Phone         string
	TaxID         string
	InvoicePrefix string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "salon-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "salon")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "salon.sales")
	v.SetDefault("TAX_SPLIT_RATIO", "0.5")
	v.SetDefault("TAX_DEFAULT_SERVICE_RATE", "18")
	v.SetDefault("COMMISSION_STACK_ITEM_BASED", true)
	v.SetDefault("COMMISSION_REPORT_CACHE_TTL_SECONDS", 300)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_WIDTH", 48)
	v.SetDefault("RECEIPT_STORE_NAME", "Salon")
	v.SetDefault("RECEIPT_INVOICE_PREFIX", "INV")
}

// Load reads configuration from .env and the environment
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	loaded := v.ReadInConfig() == nil

	splitRatio, err := decimal.NewFromString(v.GetString("TAX_SPLIT_RATIO"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_SPLIT_RATIO: %w", err)
	}
	if splitRatio.IsNegative() || splitRatio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("TAX_SPLIT_RATIO must be between 0 and 1, got %s", splitRatio)
	}
	serviceRate, err := decimal.NewFromString(v.GetString("TAX_DEFAULT_SERVICE_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_DEFAULT_SERVICE_RATE: %w", err)
	}
	if serviceRate.IsNegative() {
		return nil, fmt.Errorf("TAX_DEFAULT_SERVICE_RATE must not be negative, got %s", serviceRate)
	}

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	if driver != DriverPostgres && driver != DriverMemory {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   driver,
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Tax: TaxConfig{
			SplitRatio:         splitRatio,
			DefaultServiceRate: serviceRate,
		},
		Commission: CommissionConfig{
			StackItemBased: v.GetBool("COMMISSION_STACK_ITEM_BASED"),
			ReportCacheTTL: time.Duration(v.GetInt("COMMISSION_REPORT_CACHE_TTL_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
		},
		Receipt: ReceiptConfig{
			StoreName:     v.GetString("RECEIPT_STORE_NAME"),
			Address:       v.GetString("RECEIPT_ADDRESS"),
			Phone:         v.GetString("RECEIPT_PHONE"),
			TaxID:         v.GetString("RECEIPT_TAX_ID"),
			InvoicePrefix: v.GetString("RECEIPT_INVOICE_PREFIX"),
		},
		EnvFileLoaded: loaded,
	}

	return cfg, nil
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
