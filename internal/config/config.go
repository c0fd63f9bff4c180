package config

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
	RedisURL    string
	AMQPURL     string
	JWTSecret   string
	LogLevel    string

	DeliveryFee float64
	MenuFile    string

	DemoProgress   bool
	DemoInterval   time.Duration
	PaymentDelay   time.Duration
	PaymentTimeout time.Duration

	AdminPassword    string
	ChefPassword     string
	DeliveryPassword string
}

// New reads flags, then lets the environment (and an optional .env file) override them.
func New() *Config {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := &Config{}

	fs.StringVar(&cfg.RunAddress, "a", "localhost:8080", "server address and port")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory storage when empty")
	fs.StringVar(&cfg.RedisURL, "r", "", "redis URL for notification feeds, in-memory when empty")
	fs.StringVar(&cfg.AMQPURL, "q", "", "RabbitMQ URL for status fanout, log only when empty")
	fs.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.Float64Var(&cfg.DeliveryFee, "delivery-fee", 30, "flat delivery fee added to every order")
	fs.StringVar(&cfg.MenuFile, "menu", "", "YAML menu catalog, built-in menu when empty")
	fs.BoolVar(&cfg.DemoProgress, "demo", false, "advance orders automatically on a timer")
	fs.DurationVar(&cfg.DemoInterval, "demo-interval", 5*time.Second, "demo worker tick")
	fs.DurationVar(&cfg.PaymentDelay, "payment-delay", 2*time.Second, "simulated payment processing time")
	fs.DurationVar(&cfg.PaymentTimeout, "payment-timeout", 10*time.Second, "upper bound for a payment")
	_ = fs.Parse(args)

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseURI = getEnv("DATABASE_URI", cfg.DatabaseURI)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DeliveryFee = getEnvAsFloat("DELIVERY_FEE", cfg.DeliveryFee)
	cfg.MenuFile = getEnv("MENU_FILE", cfg.MenuFile)
	cfg.DemoProgress = getEnvAsBool("DEMO_PROGRESS", cfg.DemoProgress)
	cfg.DemoInterval = getEnvAsDuration("DEMO_INTERVAL", cfg.DemoInterval)
	cfg.PaymentDelay = getEnvAsDuration("PAYMENT_DELAY", cfg.PaymentDelay)
	cfg.PaymentTimeout = getEnvAsDuration("PAYMENT_TIMEOUT", cfg.PaymentTimeout)

	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.ChefPassword = os.Getenv("CHEF_PASSWORD")
	cfg.DeliveryPassword = os.Getenv("DELIVERY_PASSWORD")

	return cfg
}

// SlogLevel falls back to info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
