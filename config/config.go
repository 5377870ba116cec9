package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Upstream backend REST service.
	BackendBaseURL        string `mapstructure:"BACKEND_BASE_URL"`
	BackendTimeoutSeconds int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisTaskDB    int    `mapstructure:"REDIS_TASK_DB"`

	// Draft session lifetime in the session store.
	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`

	// Admin gate.
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	// Booking window and daily slot grid. The 08:00-16:00 grid is a business
	// constant, but it lives here rather than at call sites.
	BookingWindowDays   int `mapstructure:"BOOKING_WINDOW_DAYS"`
	BookingDayStartHour int `mapstructure:"BOOKING_DAY_START_HOUR"`
	BookingDayEndHour   int `mapstructure:"BOOKING_DAY_END_HOUR"`

	// AvailabilityFailOpen makes upstream read errors degrade to "no known
	// blackout" instead of closing the whole calendar. A deliberate
	// availability-over-caution tradeoff; keep it a named switch.
	AvailabilityFailOpen     bool `mapstructure:"AVAILABILITY_FAIL_OPEN"`
	AvailabilityCacheSeconds int  `mapstructure:"AVAILABILITY_CACHE_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:4000")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL_HOURS", 12)
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)
	viper.SetDefault("BOOKING_DAY_START_HOUR", 8)
	viper.SetDefault("BOOKING_DAY_END_HOUR", 16)
	viper.SetDefault("AVAILABILITY_FAIL_OPEN", true)
	viper.SetDefault("AVAILABILITY_CACHE_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
