package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver   string // mysql or postgres
	URL      string // full DSN, wins over the parts below
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Config struct {
	Port     string
	Database Database

	RedisAddr         string
	RabbitMQURL       string
	RabbitMQExchange  string
	ProductServiceURL string
	AdminAPIKey       string

	CartTTL         time.Duration
	OrderLookupTTL  time.Duration
	ProductCacheTTL time.Duration

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Database: Database{
			Driver:   strings.ToLower(getenv("DB_DRIVER", "mysql")),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     firstEnv("MYSQL_HOST", "DB_HOST"),
			Port:     firstEnv("MYSQL_PORT", "DB_PORT"),
			User:     firstEnv("MYSQL_USER", "DB_USER"),
			Password: firstEnv("MYSQL_PASSWORD", "DB_PASSWORD"),
			Name:     firstEnv("MYSQL_DATABASE", "DB_NAME"),
		},
		RedisAddr:         redisAddr(),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:  getenv("RABBITMQ_EXCHANGE", "order.exchange"),
		ProductServiceURL: strings.TrimRight(os.Getenv("PRODUCT_SERVICE_URL"), "/"),
		AdminAPIKey:       os.Getenv("ADMIN_API_KEY"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		CORSOrigins:       splitList(getenv("CORS_ORIGINS", "*")),
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	var err error
	if cfg.CartTTL, err = duration("CART_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.OrderLookupTTL, err = duration("ORDER_LOOKUP_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = duration("PRODUCT_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// redisAddr accepts REDIS_ADDR (host:port) or REDIS_HOST on the default port.
func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		return host + ":6379"
	}
	return ""
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
