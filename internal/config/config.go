// Package config loads server settings through viper: an optional .env file,
// environment overrides and defaults.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/coursebank/backend/internal/secrets"
)

type Config struct {
	Port          string
	PublicBaseURL string
	JWT           JWTConfig
	Argon2        secrets.Params
	Platform      PlatformConfig
	Admin         AdminConfig
	Server        ServerConfig
}

type JWTConfig struct {
	SecretKey string
	Expiry    time.Duration
}

// PlatformConfig describes the account that collects course-creation fees.
type PlatformConfig struct {
	FeeAccountNumber string
	FeeAccountSecret string
	FeeRate          decimal.Decimal
}

// AdminConfig bootstraps the first admin user. Empty username disables it.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

var envBindings = map[string]string{
	"database.host":         "DATABASE_HOST",
	"database.port":         "DATABASE_PORT",
	"database.user":         "DATABASE_USER",
	"database.password":     "DATABASE_PASSWORD",
	"database.name":         "DATABASE_NAME",
	"database.ssl_mode":     "DATABASE_SSL_MODE",
	"database.auto_migrate": "DATABASE_AUTO_MIGRATE",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"server.port":             "PORT",
	"server.public_base_url":  "PUBLIC_BASE_URL",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",

	"jwt.secret_key":   "JWT_SECRET_KEY",
	"jwt.expiry_hours": "JWT_EXPIRY_HOURS",

	"argon2.time":        "ARGON2_TIME",
	"argon2.memory":      "ARGON2_MEMORY",
	"argon2.threads":     "ARGON2_THREADS",
	"argon2.key_length":  "ARGON2_KEY_LENGTH",
	"argon2.salt_length": "ARGON2_SALT_LENGTH",

	"platform.fee_account":        "SYSTEM_FEE_ACCOUNT",
	"platform.fee_account_secret": "SYSTEM_FEE_ACCOUNT_SECRET",
	"platform.fee_rate":           "COURSE_FEE_RATE",

	"admin.username": "ADMIN_USERNAME",
	"admin.email":    "ADMIN_EMAIL",
	"admin.password": "ADMIN_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	defaults := secrets.DefaultParams()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.public_base_url", "http://localhost:8080")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("argon2.time", defaults.Time)
	v.SetDefault("argon2.memory", defaults.Memory)
	v.SetDefault("argon2.threads", defaults.Threads)
	v.SetDefault("argon2.key_length", defaults.KeyLength)
	v.SetDefault("argon2.salt_length", defaults.SaltLength)
	v.SetDefault("platform.fee_account", "0000000001")
	v.SetDefault("platform.fee_rate", "0.05")
}

// Load reads configuration into the global viper instance, which the database
// package also reads from.
func Load(envFile string) (*Config, error) {
	return load(viper.GetViper(), envFile)
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		v.SetConfigFile(envFile)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Config file not found, using defaults: %v", err)
		}
	}
	v.AutomaticEnv()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
		// dotenv files are keyed by the lower-cased variable name
		if fileKey := strings.ToLower(env); v.InConfig(fileKey) {
			v.SetDefault(key, v.Get(fileKey))
		}
	}

	feeRate, err := decimal.NewFromString(v.GetString("platform.fee_rate"))
	if err != nil {
		return nil, fmt.Errorf("invalid platform.fee_rate: %w", err)
	}
	if feeRate.IsNegative() || feeRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("platform.fee_rate must be between 0 and 1, got %s", feeRate)
	}

	cfg := &Config{
		Port:          v.GetString("server.port"),
		PublicBaseURL: v.GetString("server.public_base_url"),
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			Expiry:    time.Duration(v.GetInt("jwt.expiry_hours")) * time.Hour,
		},
		Argon2: secrets.Params{
			Time:       v.GetUint32("argon2.time"),
			Memory:     v.GetUint32("argon2.memory"),
			Threads:    uint8(v.GetUint("argon2.threads")),
			KeyLength:  v.GetUint32("argon2.key_length"),
			SaltLength: v.GetUint32("argon2.salt_length"),
		},
		Platform: PlatformConfig{
			FeeAccountNumber: v.GetString("platform.fee_account"),
			FeeAccountSecret: v.GetString("platform.fee_account_secret"),
			FeeRate:          feeRate,
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		Server: ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("jwt.secret_key is required (JWT_SECRET_KEY)")
	}
	if cfg.Admin.Username != "" && cfg.Admin.Password == "" {
		return nil, fmt.Errorf("admin.password is required when admin.username is set")
	}

	return cfg, nil
}
