package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Email    EmailConfig
	OTP      OTPConfig
	Cart     CartConfig
	Payment  PaymentConfig
	Kafka    KafkaConfig
}

type AppConfig struct {
	Name           string
	StoreName      string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

// RedisConfig leaves Addr empty to run on the in-process store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	TTLSeconds      int
	CooldownSeconds int
	Length          int
}

type CartConfig struct {
	DiscountPercent int
	GuestTTLHours   int
	PageSize        int
}

type PaymentConfig struct {
	Enabled   bool
	KeyID     string
	KeySecret string
	Currency  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c OTPConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c OTPConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

func (c CartConfig) GuestTTL() time.Duration {
	return time.Duration(c.GuestTTLHours) * time.Hour
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "appliance-store")
	viper.SetDefault("STORE_NAME", "MyStore")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("OTP_TTL_SECONDS", 300)
	viper.SetDefault("OTP_COOLDOWN_SECONDS", 60)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("CART_DISCOUNT_PERCENT", 10)
	viper.SetDefault("CART_GUEST_TTL_HOURS", 168)
	viper.SetDefault("CATALOG_PAGE_SIZE", 4)
	viper.SetDefault("PAYMENT_ENABLED", false)
	viper.SetDefault("PAYMENT_CURRENCY", "INR")
	viper.SetDefault("KAFKA_TOPIC", "store.events")

	if err := viper.ReadInConfig(); err != nil {
		// env-only deployments ship without a .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			StoreName:      viper.GetString("STORE_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			AllowedOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASS"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			MaxConns:       viper.GetInt32("DB_MAX_CONNS"),
			MigrationsPath: viper.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			TTLSeconds:      viper.GetInt("OTP_TTL_SECONDS"),
			CooldownSeconds: viper.GetInt("OTP_COOLDOWN_SECONDS"),
			Length:          viper.GetInt("OTP_LENGTH"),
		},
		Cart: CartConfig{
			DiscountPercent: viper.GetInt("CART_DISCOUNT_PERCENT"),
			GuestTTLHours:   viper.GetInt("CART_GUEST_TTL_HOURS"),
			PageSize:        viper.GetInt("CATALOG_PAGE_SIZE"),
		},
		Payment: PaymentConfig{
			Enabled:   viper.GetBool("PAYMENT_ENABLED"),
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
			Currency:  viper.GetString("PAYMENT_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
