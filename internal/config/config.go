package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	OTP      OTPConfig
	Admin    AdminConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type OTPConfig struct {
	// Secret keys the one-way digest of issued codes.
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	// ResendLimit and ResendWindow bound how often a contact can ask
	// for a fresh code.
	ResendLimit  int           `mapstructure:"resend_limit"`
	ResendWindow time.Duration `mapstructure:"resend_window"`
}

type AdminConfig struct {
	// NotifyEmail receives application alerts and contact-form messages.
	NotifyEmail string `mapstructure:"notify_email"`
	SiteURL     string `mapstructure:"site_url"`
}

// StorageConfig is sourced from the environment so deploy targets can swap
// buckets without touching the config file.
type StorageConfig struct {
	Region         string `envconfig:"STORAGE_REGION" default:"us-east-1"`
	Bucket         string `envconfig:"STORAGE_BUCKET" default:"eudaura-documents"`
	PresignTTL     int    `envconfig:"STORAGE_PRESIGN_TTL_SECONDS" default:"600"`
	MaxUploadBytes int64  `envconfig:"STORAGE_MAX_UPLOAD_BYTES" default:"10485760"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("otp.ttl", 5*time.Minute)
	viper.SetDefault("otp.resend_limit", 3)
	viper.SetDefault("otp.resend_window", 15*time.Minute)
	viper.SetDefault("jwt.expiry_hours", 24)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Storage); err != nil {
		return nil, fmt.Errorf("failed to read storage config: %w", err)
	}

	return &config, nil
}
