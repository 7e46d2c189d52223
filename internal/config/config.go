package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Stripe   StripeConfig
	Payment  PaymentConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string

	// LoginRateLimit is the number of login attempts allowed per IP per LoginRateWindow.
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite3"
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite3 file
}

type SessionConfig struct {
	Secret string
	MaxAge int
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	APIURL         string
}

type PaymentConfig struct {
	Currency string
	// CallbackSecret enables signed state on the success callback when set.
	CallbackSecret string
	CallbackTTL    time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "5000")
	host := getEnv("HOST", "localhost")

	config := &Config{
		Server: ServerConfig{
			Port:            port,
			Host:            host,
			Env:             getEnv("ENV", "development"),
			BaseURL:         strings.TrimRight(getEnv("BASE_URL", fmt.Sprintf("http://%s:%s", host, port)), "/"),
			LoginRateLimit:  getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow: getEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Database: parseDatabaseConfig(),
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "dev-canteen-secret-change-me"),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 86400*7),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			APIURL:         getEnv("STRIPE_API_URL", "https://api.stripe.com/v1"),
		},
		Payment: PaymentConfig{
			Currency:       getEnv("PAYMENT_CURRENCY", "inr"),
			CallbackSecret: getEnv("PAYMENT_CALLBACK_SECRET", ""),
			CallbackTTL:    getEnvAsDuration("PAYMENT_CALLBACK_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "canteen.orders"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if config.Server.Env == "production" && config.Session.Secret == "dev-canteen-secret-change-me" {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production")
	}

	return config, nil
}

// IsProduction reports whether cookies should be marked secure.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func parseDatabaseConfig() DatabaseConfig {
	driver := getEnv("DB_DRIVER", "postgres")

	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		if strings.HasPrefix(databaseURL, "sqlite") {
			return DatabaseConfig{
				Driver: "sqlite3",
				URL:    databaseURL,
				Path:   strings.TrimPrefix(strings.TrimPrefix(databaseURL, "sqlite3://"), "sqlite://"),
			}
		}
		return parseDatabaseURL(databaseURL)
	}

	if driver == "sqlite3" {
		return DatabaseConfig{
			Driver: driver,
			Path:   getEnv("DB_PATH", "canteen.db"),
		}
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "canteen"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		Driver: "postgres",
		URL:    databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
