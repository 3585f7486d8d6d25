package config

import (
	"strings"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/database"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// KafkaConfig holds Kafka settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	GroupPrefix  string
	EventsTopic  string
	BillingTopic string
}

// ServiceConfig holds all configuration for the subscription service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	StoreDriver        string
	MigrationsDir      string
	DBConfig           database.PostgresConfig
	KafkaConfig        KafkaConfig
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "subscriptions")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_ENABLED", true)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "subscription.events")
	v.SetDefault("KAFKA_BILLING_TOPIC", "billing.events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	return v
}

// FromViper builds a ServiceConfig from an already populated Viper instance.
func FromViper(v *viper.Viper) (*ServiceConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	if driver != StoreDriverMemory {
		driver = StoreDriverPostgres
	}

	return &ServiceConfig{
		Port:          servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:        v.GetString("APP_ENV"),
		StoreDriver:   driver,
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Enabled:      v.GetBool("KAFKA_ENABLED"),
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix:  v.GetString("KAFKA_GROUP_PREFIX"),
			EventsTopic:  v.GetString("KAFKA_EVENTS_TOPIC"),
			BillingTopic: v.GetString("KAFKA_BILLING_TOPIC"),
		},
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}, nil
}

// servicePort normalizes "8080" and ":8080" to ":8080".
func servicePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
