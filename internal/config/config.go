package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     int
	LogLevel string
	Env      string
	DB       DBConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Pricing  PricingConfig
	Import   ImportConfig
}

// DBConfig holds the database configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the broker list and topic for order lifecycle events
type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// PricingConfig carries the delivery-charge policy so tests can inject
// alternates instead of relying on embedded literals.
type PricingConfig struct {
	FreeDeliveryKeyword string
	DeliveryThreshold   float64
	DeliveryFee         float64
}

// ImportConfig holds defaults used by the bulk order import.
type ImportConfig struct {
	DefaultCountry   string
	WebAgentName     string
	WebAgentEmail    string
	WebAgentPassword string
}

// getEnv retrieves the value of an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

// Load reads the configuration from environment variables and returns a Config struct.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtExpiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("DELIVERY_THRESHOLD", "2500"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_THRESHOLD: %w", err)
	}

	fee, err := strconv.ParseFloat(getEnv("DELIVERY_FEE", "350"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}

	return &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "oms"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "oms.orders"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me"),
			ExpiryHours: jwtExpiry,
		},
		Pricing: PricingConfig{
			FreeDeliveryKeyword: getEnv("FREE_DELIVERY_KEYWORD", "moist curl"),
			DeliveryThreshold:   threshold,
			DeliveryFee:         fee,
		},
		Import: ImportConfig{
			DefaultCountry:   getEnv("IMPORT_DEFAULT_COUNTRY", "Sri Lanka"),
			WebAgentName:     getEnv("WEB_AGENT_NAME", "Web Orders"),
			WebAgentEmail:    getEnv("WEB_AGENT_EMAIL", "weborders@oms.local"),
			WebAgentPassword: getEnv("WEB_AGENT_PASSWORD", "123456"),
		},
	}, nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
