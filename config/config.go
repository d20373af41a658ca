package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Auth        AuthConfig
	Log         LogConfig
	Payments    PaymentsConfig
}

type ServerConfig struct {
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

type MongoConfig struct {
	// Driver is "mongo" or "memory".
	Driver               string
	URI                  string
	Database             string
	PropertiesCollection string
	UsersCollection      string
	FavoritesCollection  string
	InquiriesCollection  string
	ConnectTimeout       time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	JWTExpiry   time.Duration
	// AdminEmails are granted the admin role when they register.
	AdminEmails []string
}

type LogConfig struct {
	Level         string
	Format        string
	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentLevel   string
}

type PaymentsConfig struct {
	KeySecret string
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	env := getEnv("APP_ENV", "development")
	format := "color"
	if env == "production" {
		format = "json"
	}

	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Mongo: MongoConfig{
			Driver:               getEnv("STORE_DRIVER", "mongo"),
			URI:                  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:             getEnv("MONGODB_DATABASE", "connectspace"),
			PropertiesCollection: getEnv("MONGODB_COLLECTION_PROPERTIES", "properties"),
			UsersCollection:      getEnv("MONGODB_COLLECTION_USER", "users"),
			FavoritesCollection:  getEnv("MONGODB_COLLECTION_FAVORITES", "favorites"),
			InquiriesCollection:  getEnv("MONGODB_COLLECTION_INQUIRIES", "inquiries"),
			ConnectTimeout:       getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			TTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			MaxReconnects: getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait: getEnvAsDuration("NATS_RECONNECT_WAIT", time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			JWTExpiry:   time.Duration(getEnvAsInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			AdminEmails: getEnvAsSlice("ADMIN_EMAILS", nil),
		},
		Log: LogConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Format:        getEnv("LOG_FORMAT", format),
			FluentEnabled: getEnvAsBool("FLUENTBIT_ENABLED", false),
			FluentHost:    getEnv("FLUENTBIT_HOST", "127.0.0.1"),
			FluentPort:    getEnvAsInt("FLUENTBIT_PORT", 24224),
			FluentLevel:   getEnv("FLUENTBIT_LEVEL", "info"),
		},
		Payments: PaymentsConfig{
			KeySecret: getEnv("PAYMENT_KEY_SECRET", ""),
		},
	}

	return cfg, validate(&cfg)
}

func validate(cfg *Config) error {
	if cfg.Auth.JWTSecret == "" {
		if cfg.Environment != "development" {
			return fmt.Errorf("JWT_SECRET must be set in %s", cfg.Environment)
		}
		cfg.Auth.JWTSecret = "development-secret"
	}
	if cfg.Payments.KeySecret == "" && cfg.Environment == "development" {
		cfg.Payments.KeySecret = "sandbox-secret"
	}
	switch cfg.Mongo.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.Mongo.Driver)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
