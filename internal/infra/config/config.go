package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress string

	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	Issuer          string
	Audience        string
	SessionTokenTTL time.Duration

	VerificationTokenTTL time.Duration
	VerificationBaseURL  string

	PasswordPepper string

	SMTPAddress string
	SMTPFrom    string

	AllowedOrigins   []string
	AllowCredentials bool

	LogLevel string
}

var envKeys = []string{
	"HTTP_ADDRESS",
	"DATABASE_URL",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"JWT_SECRET",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"SESSION_TOKEN_TTL",
	"VERIFICATION_TOKEN_TTL",
	"VERIFICATION_BASE_URL",
	"PASSWORD_PEPPER",
	"SMTP_ADDRESS",
	"SMTP_FROM",
	"ALLOWED_ORIGINS",
	"ALLOW_CREDENTIALS",
	"LOG_LEVEL",
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("SESSION_TOKEN_TTL", "1h")
	viper.SetDefault("VERIFICATION_TOKEN_TTL", "24h")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddress:          viper.GetString("HTTP_ADDRESS"),
		DatabaseURL:          viper.GetString("DATABASE_URL"),
		RedisAddress:         viper.GetString("REDIS_ADDRESS"),
		RedisPassword:        viper.GetString("REDIS_PASSWORD"),
		RedisDB:              viper.GetInt("REDIS_DB"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		Issuer:               viper.GetString("JWT_ISSUER"),
		Audience:             viper.GetString("JWT_AUDIENCE"),
		SessionTokenTTL:      viper.GetDuration("SESSION_TOKEN_TTL"),
		VerificationTokenTTL: viper.GetDuration("VERIFICATION_TOKEN_TTL"),
		VerificationBaseURL:  viper.GetString("VERIFICATION_BASE_URL"),
		PasswordPepper:       viper.GetString("PASSWORD_PEPPER"),
		SMTPAddress:          viper.GetString("SMTP_ADDRESS"),
		SMTPFrom:             viper.GetString("SMTP_FROM"),
		AllowedOrigins:       viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:     viper.GetBool("ALLOW_CREDENTIALS"),
		LogLevel:             viper.GetString("LOG_LEVEL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.SessionTokenTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TOKEN_TTL must be positive")
	}
	if cfg.VerificationTokenTTL <= 0 {
		return nil, fmt.Errorf("VERIFICATION_TOKEN_TTL must be positive")
	}

	return cfg, nil
}
