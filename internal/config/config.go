package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// ErrInvalidConfig возвращается, когда значение конфигурации недопустимо
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Переменные окружения с секретами, перекрывающие значения из TOML
const (
	EnvDBPassword      = "DB_PASSWORD"
	EnvStripeSecretKey = "STRIPE_SECRET_KEY"
	EnvJWTSecret       = "SUPABASE_JWT_SECRET"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvSupabaseKey     = "SUPABASE_SERVICE_ROLE_KEY"
)

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Auth         AuthConfig         `toml:"auth"`
	Gateway      GatewayConfig      `toml:"gateway"`
	Notifier     NotifierConfig     `toml:"notifier"`
	Redis        RedisConfig        `toml:"redis"`
	Profiles     ProfilesConfig     `toml:"profiles"`
	RefundPolicy RefundPolicyConfig `toml:"refund_policy"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	// JWTSecret секрет подписи токенов Supabase (HS256)
	JWTSecret string `toml:"jwt_secret"`
	Audience  string `toml:"audience"`
}

type GatewayConfig struct {
	Enabled   bool   `toml:"enabled"`
	SecretKey string `toml:"secret_key"`
	// BaseURL переопределяет адрес API (для stripe-mock)
	BaseURL           string `toml:"base_url"`
	Currency          string `toml:"currency"`
	RefundTimeoutMs   int    `toml:"refund_timeout_ms"`
	MaxNetworkRetries int64  `toml:"max_network_retries"`
}

// RefundTimeout таймаут одного вызова возврата
func (g GatewayConfig) RefundTimeout() time.Duration {
	return time.Duration(g.RefundTimeoutMs) * time.Millisecond
}

type NotifierConfig struct {
	Enabled           bool     `toml:"enabled"`
	Brokers           []string `toml:"brokers"`
	CancellationTopic string   `toml:"cancellation_topic"`
	AlertTopic        string   `toml:"alert_topic"`
	ClientID          string   `toml:"client_id"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// IdempotencyTTL время хранения ответа по Idempotency-Key, в секундах
	IdempotencyTTL int `toml:"idempotency_ttl"`
}

// ProfilesConfig доступ к таблице profiles в Supabase для контактов получателей уведомлений
type ProfilesConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"url"`
	ServiceKey string `toml:"service_key"`
	Timeout    int    `toml:"timeout"`
}

type RefundPolicyConfig struct {
	// Timezone зона, в которой интерпретируются дата и время услуги
	Timezone string `toml:"timezone"`
	// Preset: default {100,50,0}, alternate {100,70,30} или custom
	Preset          string  `toml:"preset"`
	MoreThan24h     float64 `toml:"more_than_24h"`
	Between24hAnd2h float64 `toml:"between_24h_and_2h"`
	LessThan2h      float64 `toml:"less_than_2h"`
}

// Policy возвращает политику возврата, выбранную в конфигурации
func (r RefundPolicyConfig) Policy() (domain.RefundPolicy, error) {
	switch r.Preset {
	case "", domain.PolicyPresetDefault:
		return domain.DefaultRefundPolicy, nil
	case domain.PolicyPresetAlternate:
		return domain.AlternateRefundPolicy, nil
	case domain.PolicyPresetCustom:
		policy := domain.RefundPolicy{
			MoreThan24h:     r.MoreThan24h,
			Between24hAnd2h: r.Between24hAnd2h,
			LessThan2h:      r.LessThan2h,
		}
		if err := policy.Validate(); err != nil {
			return domain.RefundPolicy{}, fmt.Errorf("%w: refund_policy: %v", ErrInvalidConfig, err)
		}
		return policy, nil
	default:
		return domain.RefundPolicy{}, fmt.Errorf("%w: refund_policy.preset %q is unknown", ErrInvalidConfig, r.Preset)
	}
}

// Location возвращает зону услуги
func (r RefundPolicyConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: refund_policy.timezone %q: %v", ErrInvalidConfig, r.Timezone, err)
	}
	return loc, nil
}

// Load читает конфигурацию из TOML файла.
// Секреты из окружения (и .env, если он есть) перекрывают значения файла.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "bikawo-booking-service",
		},
		Gateway: GatewayConfig{
			Currency:          domain.DefaultCurrency,
			RefundTimeoutMs:   10000,
			MaxNetworkRetries: 2,
		},
		Notifier: NotifierConfig{
			CancellationTopic: "booking.cancelled",
			AlertTopic:        "operator.alerts",
			ClientID:          "bikawo-booking-service",
		},
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			IdempotencyTTL: 86400,
		},
		Profiles: ProfilesConfig{Timeout: 3},
		RefundPolicy: RefundPolicyConfig{
			Timezone: domain.DefaultTimezone,
			Preset:   domain.PolicyPresetDefault,
		},
	}
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.Database.Password, EnvDBPassword)
	override(&c.Gateway.SecretKey, EnvStripeSecretKey)
	override(&c.Auth.JWTSecret, EnvJWTSecret)
	override(&c.Redis.Password, EnvRedisPassword)
	override(&c.Profiles.ServiceKey, EnvSupabaseKey)
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required (or "+EnvJWTSecret+")")
	}
	if c.Gateway.Enabled {
		if c.Gateway.SecretKey == "" {
			problems = append(problems, "gateway.secret_key is required when the gateway is enabled (or "+EnvStripeSecretKey+")")
		}
		if c.Gateway.RefundTimeoutMs <= 0 {
			problems = append(problems, "gateway.refund_timeout_ms must be positive")
		}
	}
	if c.Notifier.Enabled && len(c.Notifier.Brokers) == 0 {
		problems = append(problems, "notifier.brokers is required when the notifier is enabled")
	}
	if c.Profiles.Enabled && (c.Profiles.URL == "" || c.Profiles.ServiceKey == "") {
		problems = append(problems, "profiles.url and profiles.service_key are required when profiles are enabled (or "+EnvSupabaseKey+")")
	}
	if c.Redis.Enabled && c.Redis.IdempotencyTTL <= 0 {
		problems = append(problems, "redis.idempotency_ttl must be positive")
	}
	if _, err := c.RefundPolicy.Location(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.RefundPolicy.Policy(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
