package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// PlaceholderAdminEmail is the address shipped in example env files.
const PlaceholderAdminEmail = "admin@example.com"

// =======================
// CONFIG
// =======================

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
	WhatsApp WhatsAppConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          string        `env:"PORT" envDefault:"3000"`
	Environment   string        `env:"APP_ENV" envDefault:"development"`
	BackendURL    string        `env:"BACKEND_URL"`
	CorsOrigins   []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	BodyLimit     int           `env:"BODY_LIMIT_BYTES" envDefault:"6291456"`
	ReadTimeout   time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout  time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout   time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"90s"`
	RequestBudget time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	URL              string        `env:"DATABASE_URL"`
	Host             string        `env:"DB_HOST" envDefault:"localhost"`
	Port             string        `env:"DB_PORT" envDefault:"5432"`
	User             string        `env:"DB_USER" envDefault:"postgres"`
	Password         string        `env:"DB_PASSWORD"`
	Name             string        `env:"DB_NAME" envDefault:"workshop"`
	SSLMode          string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns     int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns     int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdleTime  time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"60s"`
	ConnMaxLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"10m"`
	StatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"5s"`
	AutoMigrate      bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	SeedContentsFile string        `env:"SEED_CONTENTS_FILE"`
}

type SMTPConfig struct {
	Host       string        `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	Port       int           `env:"EMAIL_PORT" envDefault:"465"`
	User       string        `env:"EMAIL_USER"`
	Password   string        `env:"EMAIL_PASSWORD"`
	From       string        `env:"EMAIL_FROM" envDefault:"\"Dr. Agarwal Workshop\" <noreply@dragarwal.com>"`
	AdminEmail string        `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	Timeout    time.Duration `env:"EMAIL_TIMEOUT" envDefault:"20s"`
}

type AdminConfig struct {
	Password     string `env:"ADMIN_PASSWORD"`
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

type WhatsAppConfig struct {
	ClientID           string        `env:"WHATSAPP_CLIENT_ID" envDefault:"dr-agarwal-workshop"`
	DefaultCountryCode string        `env:"WHATSAPP_DEFAULT_COUNTRY_CODE" envDefault:"91"`
	PhoneNumber        string        `env:"WHATSAPP_PHONE_NUMBER"`
	PhoneNumberID      string        `env:"WHATSAPP_PHONE_NUMBER_ID"`
	AccessToken        string        `env:"WHATSAPP_ACCESS_TOKEN"`
	APIURL             string        `env:"WHATSAPP_API_URL" envDefault:"https://graph.facebook.com/v21.0"`
	Timeout            time.Duration `env:"WHATSAPP_TIMEOUT" envDefault:"60s"`
	QueueSize          int           `env:"WHATSAPP_QUEUE_SIZE" envDefault:"500"`
	MaxAttempts        int           `env:"WHATSAPP_MAX_ATTEMPTS" envDefault:"5"`
	ReconnectInterval  time.Duration `env:"WHATSAPP_RECONNECT_INTERVAL" envDefault:"30s"`
	QueueKey           string        `env:"WHATSAPP_QUEUE_KEY" envDefault:"workshop:whatsapp:pending"`
}

// PendingQueueKey scopes the Redis queue to the client id so two deployments
// sharing a Redis never drain each other's messages.
func (w WhatsAppConfig) PendingQueueKey() string {
	if w.ClientID == "" {
		return w.QueueKey
	}
	return w.QueueKey + ":" + w.ClientID
}

// Enabled reports whether Cloud API credentials are present.
func (w WhatsAppConfig) Enabled() bool {
	return w.PhoneNumberID != "" && w.AccessToken != ""
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"workshop.registrations"`
}

type OutboxConfig struct {
	Schedule       string        `env:"OUTBOX_SCHEDULE" envDefault:"@every 30s"`
	PurgeSchedule  string        `env:"OUTBOX_PURGE_SCHEDULE" envDefault:"15 3 * * *"`
	BatchSize      int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
	MaxAttempts    int           `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"8"`
	BaseDelay      time.Duration `env:"OUTBOX_BASE_DELAY" envDefault:"30s"`
	MaxDelay       time.Duration `env:"OUTBOX_MAX_DELAY" envDefault:"1h"`
	Retention      time.Duration `env:"OUTBOX_RETENTION" envDefault:"720h"`
	InlineDispatch bool          `env:"OUTBOX_INLINE_DISPATCH" envDefault:"true"`
	SendTimeout    time.Duration `env:"OUTBOX_SEND_TIMEOUT" envDefault:"20s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// IsDevelopment is true for APP_ENV=development (or NODE_ENV carried over from older deployments).
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// DSN builds the postgres connection string. DATABASE_URL wins when set.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=workshop&options=-c%%20statement_timeout=%d",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode, d.StatementTimeout.Milliseconds(),
	)
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env (outside managed platforms) and parses the process environment.
func LoadEnv() (*Config, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" && os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn("no .env file found, using system environment")
		} else {
			log.Info(".env file loaded")
		}
	} else {
		log.Info("running on a managed platform, using system environment")
	}

	return Parse()
}

// Parse reads the current process environment into a Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if v := os.Getenv("NODE_ENV"); v != "" && os.Getenv("APP_ENV") == "" {
		cfg.Server.Environment = v
	}

	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		log.Warn("ADMIN_PASSWORD is not set, admin endpoints will reject every request")
	}
	if cfg.Server.BackendURL == "" {
		log.Warn("BACKEND_URL is not set, screenshot links in emails will be relative")
	}
	return cfg, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
