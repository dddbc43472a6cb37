package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// StoreBackend selects where schools and audit logs live: "firestore" or "memory".
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	// Firebase (Firestore school store + FCM ring notifications).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FCMEnabled              bool   `mapstructure:"FCM_ENABLED"`

	// MongoDB (audit logs).
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MongoDB     string `mapstructure:"MONGO_DB"`

	// Redis configuration.
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int           `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB    int           `mapstructure:"REDIS_AUTH_DB"`
	SchoolCacheTTL time.Duration `mapstructure:"SCHOOL_CACHE_TTL"`

	// Admin auth.
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	SessionTTL             time.Duration `mapstructure:"SESSION_TTL"`
	SuperAdminPasswordHash string        `mapstructure:"SUPER_ADMIN_PASSWORD_HASH"`

	DefaultTimezone     string `mapstructure:"DEFAULT_TIMEZONE"`
	MaxRequestsPerMin   int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	LoginRequestsPerMin int    `mapstructure:"LOGIN_REQUESTS_PER_MIN"`
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`
	RefreshCron         string `mapstructure:"REFRESH_CRON"`
	HealthCron          string `mapstructure:"HEALTH_CRON"`

	// Cloudinary image storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", "firestore")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FCM_ENABLED", false)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "chronoboard")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("SCHOOL_CACHE_TTL", "5m")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SUPER_ADMIN_PASSWORD_HASH", "")
	v.SetDefault("DEFAULT_TIMEZONE", "Asia/Tbilisi")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("LOGIN_REQUESTS_PER_MIN", 10)
	v.SetDefault("TRUSTED_PROXIES", []string{})
	v.SetDefault("REFRESH_CRON", "@every 5m")
	v.SetDefault("HEALTH_CRON", "@every 30s")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
}

// LoadConfig reads config.yaml (from "." or "./config") and the environment into AppConfig.
func LoadConfig() {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set; admin tokens will not survive a restart")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UseMemoryStore reports whether the in-memory repositories are selected.
func UseMemoryStore() bool {
	return AppConfig.StoreBackend == "memory"
}

// DefaultLocation resolves DEFAULT_TIMEZONE, falling back to UTC.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
