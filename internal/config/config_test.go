package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "subscription.events", cfg.KafkaConfig.EventsTopic)
	assert.Equal(t, "billing.events", cfg.KafkaConfig.BillingTopic)
	assert.Equal(t, "disable", cfg.DBConfig.SSLMode)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("SERVICE_PORT", "9090")
	v.Set("STORE_DRIVER", " MEMORY ")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("KAFKA_ENABLED", false)
	v.Set("CORS_ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.False(t, cfg.KafkaConfig.Enabled)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("APP_ENV", "production")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBConfig.Host)
	assert.Equal(t, "production", cfg.AppEnv)
}

func TestServicePort(t *testing.T) {
	assert.Equal(t, ":8080", servicePort(""))
	assert.Equal(t, ":8081", servicePort("8081"))
	assert.Equal(t, "0.0.0.0:8081", servicePort("0.0.0.0:8081"))
}
