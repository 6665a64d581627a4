package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	RetryDelay      time.Duration
	MigrationsPath  string
}

type HTTPConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
}

type KafkaConfig struct {
	Enabled              bool
	BrokerURL            string
	AccountEventsTopic   string
	DepositRequestsTopic string
	ConsumerGroup        string
}

type OutboxConfig struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
	BatchSize    int
}

type Config struct {
	DB     DBConfig
	HTTP   HTTPConfig
	Kafka  KafkaConfig
	Outbox OutboxConfig

	GRPCHealthPort int
	PinHashCost    int
	LogLevel       string
}

var defaults = map[string]any{
	"DB_HOST":              "localhost",
	"DB_PORT":              5432,
	"DB_USER":              "bank",
	"DB_PASSWORD":          "bank",
	"DB_NAME":              "bank_db",
	"DB_SSLMODE":           "disable",
	"DB_MAX_OPEN_CONNS":    25,
	"DB_MAX_IDLE_CONNS":    5,
	"DB_CONN_MAX_LIFETIME": 5 * time.Minute,
	"DB_CONNECT_RETRIES":   10,
	"DB_RETRY_DELAY":       5 * time.Second,
	"MIGRATIONS_PATH":      "file://migrations",

	"HTTP_PORT":             8080,
	"HTTP_READ_TIMEOUT":     10 * time.Second,
	"HTTP_WRITE_TIMEOUT":    10 * time.Second,
	"HTTP_REQUEST_TIMEOUT":  30 * time.Second,
	"HTTP_SHUTDOWN_TIMEOUT": 15 * time.Second,
	"CORS_ALLOWED_ORIGINS":  "*",

	"KAFKA_ENABLED":                false,
	"KAFKA_BROKER_URL":             "localhost:9092",
	"KAFKA_ACCOUNT_EVENTS_TOPIC":   "account_operations",
	"KAFKA_DEPOSIT_REQUESTS_TOPIC": "deposit_requests",
	"KAFKA_CONSUMER_GROUP":         "bank-deposit-requests-group",

	"OUTBOX_POLL_INTERVAL": 1 * time.Second,
	"OUTBOX_POLL_TIMEOUT":  500 * time.Millisecond,
	"OUTBOX_BATCH_SIZE":    10,

	"GRPC_HEALTH_PORT": 9090,
	"PIN_HASH_COST":    10,
	"LOG_LEVEL":        "info",
}

// LoadConfig reads settings from defaults, an optional config.yaml in the
// working directory or ./configs, an optional .env file and the environment,
// in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.DB = DBConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSLMODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		ConnectRetries:  v.GetInt("DB_CONNECT_RETRIES"),
		RetryDelay:      v.GetDuration("DB_RETRY_DELAY"),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
	}

	cfg.HTTP = HTTPConfig{
		Port:               v.GetInt("HTTP_PORT"),
		ReadTimeout:        v.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout:       v.GetDuration("HTTP_WRITE_TIMEOUT"),
		RequestTimeout:     v.GetDuration("HTTP_REQUEST_TIMEOUT"),
		ShutdownTimeout:    v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	cfg.Kafka = KafkaConfig{
		Enabled:              v.GetBool("KAFKA_ENABLED"),
		BrokerURL:            v.GetString("KAFKA_BROKER_URL"),
		AccountEventsTopic:   v.GetString("KAFKA_ACCOUNT_EVENTS_TOPIC"),
		DepositRequestsTopic: v.GetString("KAFKA_DEPOSIT_REQUESTS_TOPIC"),
		ConsumerGroup:        v.GetString("KAFKA_CONSUMER_GROUP"),
	}

	cfg.Outbox = OutboxConfig{
		PollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		PollTimeout:  v.GetDuration("OUTBOX_POLL_TIMEOUT"),
		BatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
	}

	cfg.GRPCHealthPort = v.GetInt("GRPC_HEALTH_PORT")
	cfg.PinHashCost = v.GetInt("PIN_HASH_COST")
	cfg.LogLevel = v.GetString("LOG_LEVEL")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTP.Port)
	}
	if c.DB.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT %d", c.DB.Port)
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("invalid OUTBOX_BATCH_SIZE %d", c.Outbox.BatchSize)
	}
	if c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("invalid OUTBOX_POLL_INTERVAL %s", c.Outbox.PollInterval)
	}
	return nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return splitList(c.Kafka.BrokerURL)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
