package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	StoreDriver string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	NotifyDriver    string
	NotifyQueueSize int
	AMQPURL         string
	AMQPExchange    string
	RedisAddr       string
	RedisStream     string

	AdminJWTSecret string
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	queueSize, err := strconv.Atoi(Get("NOTIFY_QUEUE_SIZE", "256"))
	if err != nil || queueSize <= 0 {
		return Config{}, fmt.Errorf("config: NOTIFY_QUEUE_SIZE must be a positive integer")
	}

	cfg := Config{
		Port:            Get("PORT", "8080"),
		StoreDriver:     strings.ToLower(Get("STORE_DRIVER", "sqlite")),
		DBPath:          Get("DB_PATH", "data/app.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SeedPath:        Get("SEED_PATH", "data/seeds/default.json"),
		NotifyDriver:    strings.ToLower(Get("NOTIFY_DRIVER", "log")),
		NotifyQueueSize: queueSize,
		AMQPURL:         os.Getenv("AMQP_URL"),
		AMQPExchange:    Get("AMQP_EXCHANGE", "booking.events"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisStream:     Get("REDIS_STREAM", "booking-events"),
		AdminJWTSecret:  os.Getenv("ADMIN_JWT_SECRET"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.NotifyDriver {
	case "log":
	case "amqp":
		if strings.TrimSpace(c.AMQPURL) == "" {
			return errors.New("config: AMQP_URL is required for NOTIFY_DRIVER=amqp")
		}
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("config: REDIS_ADDR is required for NOTIFY_DRIVER=redis")
		}
	default:
		return fmt.Errorf("config: unknown NOTIFY_DRIVER %q", c.NotifyDriver)
	}
	return nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
