package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// envBindings maps viper keys to the environment variables that feed them.
var envBindings = map[string]string{
	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.name":     "DATABASE_NAME",
	"database.ssl_mode": "DATABASE_SSL_MODE",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"jwt.secret_key":   "JWT_SECRET_KEY",
	"jwt.expiry_hours": "JWT_EXPIRY_HOURS",

	"talent.weekly_limit":      "TALENT_WEEKLY_LIMIT",
	"talent.timezone":          "TALENT_TIMEZONE",
	"talent.activity_amount":   "TALENT_ACTIVITY_AMOUNT",
	"talent.attendance_amount": "TALENT_ATTENDANCE_AMOUNT",
	"talent.bulk_max":          "TALENT_BULK_MAX",

	"idempotency.ttl": "IDEMPOTENCY_TTL",

	"twilio.account_sid": "TWILIO_ACCOUNT_SID",
	"twilio.auth_token":  "TWILIO_AUTH_TOKEN",
	"twilio.from_number": "TWILIO_FROM_NUMBER",
	"twilio.base_url":    "TWILIO_BASE_URL",
	"twilio.max_retries": "TWILIO_MAX_RETRIES",
	"twilio.timeout":     "TWILIO_TIMEOUT",

	"log.mode": "LOG_MODE",
	"port":     "PORT",
}

// Load reads the .env file (when present) and binds the environment.
// A missing .env file is reported but is not fatal for callers.
func Load() error {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}

	viper.SetDefault("port", "8080")
	viper.SetDefault("log.mode", "dev")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("idempotency.ttl", 10*time.Minute)

	return viper.ReadInConfig()
}

type LedgerConfig struct {
	WeeklyLimit      int64
	Location         *time.Location
	ActivityAmount   int64
	AttendanceAmount int64
	BulkMax          int
}

// LoadLedgerConfig resolves the talent ledger knobs. The weekly limit is the
// per-teacher cap on positive manual grants within one Sunday-aligned week.
func LoadLedgerConfig() (*LedgerConfig, error) {
	viper.SetDefault("talent.weekly_limit", 5)
	viper.SetDefault("talent.timezone", "Asia/Seoul")
	viper.SetDefault("talent.activity_amount", 1)
	viper.SetDefault("talent.attendance_amount", 1)
	viper.SetDefault("talent.bulk_max", 200)

	loc, err := time.LoadLocation(viper.GetString("talent.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid talent.timezone: %w", err)
	}

	cfg := &LedgerConfig{
		WeeklyLimit:      viper.GetInt64("talent.weekly_limit"),
		Location:         loc,
		ActivityAmount:   viper.GetInt64("talent.activity_amount"),
		AttendanceAmount: viper.GetInt64("talent.attendance_amount"),
		BulkMax:          viper.GetInt("talent.bulk_max"),
	}
	if cfg.WeeklyLimit <= 0 {
		return nil, fmt.Errorf("talent.weekly_limit must be positive, got %d", cfg.WeeklyLimit)
	}
	if cfg.BulkMax <= 0 {
		return nil, fmt.Errorf("talent.bulk_max must be positive, got %d", cfg.BulkMax)
	}
	return cfg, nil
}

type JWTConfig struct {
	SecretKey string
	Expiry    time.Duration
}

func LoadJWTConfig() (*JWTConfig, error) {
	secret := viper.GetString("jwt.secret_key")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return &JWTConfig{
		SecretKey: secret,
		Expiry:    time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour,
	}, nil
}
