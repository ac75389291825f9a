package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/Mapachitomamalon/CosmoFood/pkg/aws"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the Cosmofood server.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers     []string
	KafkaOrdersTopic string

	// SNS topic for complaint response notifications
	ComplaintSNSTopicARN string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Flat delivery fee added to delivery orders
	ShippingCost decimal.Decimal
	// Account that owns POS sales; the cashier owns them when unset or missing
	WalkInUsername string
}

// LoadConfig reads configuration from the environment with an optional .env
// file and a Secrets Manager override for database credentials.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		PostgresUser:         os.Getenv("POSTGRES_USER"),
		PostgresPassword:     os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:           os.Getenv("POSTGRES_DB"),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:     getEnv("POSTGRES_TIMEZONE", "America/Santiago"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		KafkaOrdersTopic:     getEnv("KAFKA_ORDERS_TOPIC", "cosmofood.orders"),
		ComplaintSNSTopicARN: os.Getenv("COMPLAINT_SNS_TOPIC_ARN"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTTL:            15 * time.Minute,
		RefreshTTL:           7 * 24 * time.Hour,
		WalkInUsername:       getEnv("WALK_IN_USERNAME", "walkin"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q", raw)
		}
		cfg.RedisDB = db
	}

	shipping, err := decimal.NewFromString(getEnv("SHIPPING_COST", "2.50"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_COST: %w", err)
	}
	cfg.ShippingCost = shipping

	// Override DB credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if dbjson, err := sm.GetSecret(context.Background(), "cosmofood/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v, ok := m["POSTGRES_USER"]; ok && v != "" {
						cfg.PostgresUser = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.PostgresPassword = v
					}
					if v, ok := m["POSTGRES_DB"]; ok && v != "" {
						cfg.PostgresDB = v
					}
					if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
						cfg.PostgresHost = v
					}
					if v, ok := m["POSTGRES_PORT"]; ok && v != "" {
						cfg.PostgresPort = v
					}
				}
			}
			if secret, err := sm.GetSecret(context.Background(), "cosmofood/JWT_SECRET"); err == nil && secret != "" {
				cfg.JWTSecret = secret
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
