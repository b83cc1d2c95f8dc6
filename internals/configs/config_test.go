package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "91", cfg.WhatsApp.DefaultCountryCode)
	assert.Equal(t, 60*time.Second, cfg.WhatsApp.Timeout)
	assert.Equal(t, 8, cfg.Outbox.MaxAttempts)
	assert.True(t, cfg.Outbox.InlineDispatch)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, 20*time.Second, cfg.SMTP.Timeout)
}

func TestWhatsAppConfig_PendingQueueKey(t *testing.T) {
	w := WhatsAppConfig{QueueKey: "workshop:whatsapp:pending", ClientID: "dr-agarwal-workshop"}
	assert.Equal(t, "workshop:whatsapp:pending:dr-agarwal-workshop", w.PendingQueueKey())

	w.ClientID = ""
	assert.Equal(t, "workshop:whatsapp:pending", w.PendingQueueKey())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "tok")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestParse_NodeEnvFallback(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "development")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n",
		SSLMode: "disable", StatementTimeout: 3 * time.Second,
	}
	assert.Equal(t,
		"postgres://u:p@db:5432/n?sslmode=disable&application_name=workshop&options=-c%20statement_timeout=3000",
		d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("WORKSHOP_TEST_KEY", "v")
	assert.Equal(t, "v", GetEnv("WORKSHOP_TEST_KEY", "d"))
	assert.Equal(t, "d", GetEnv("WORKSHOP_TEST_MISSING", "d"))
	assert.Equal(t, "", GetEnv("WORKSHOP_TEST_MISSING"))
}
