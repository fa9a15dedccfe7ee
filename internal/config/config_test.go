package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

const minimalConfig = `
[database]
host = "localhost"
dbname = "bikawo"
user = "bikawo"

[auth]
jwt_secret = "file-secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.Gateway.RefundTimeout())
	assert.Equal(t, "eur", cfg.Gateway.Currency)
	assert.Equal(t, domain.DefaultTimezone, cfg.RefundPolicy.Timezone)

	policy, err := cfg.RefundPolicy.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRefundPolicy, policy)

	loc, err := cfg.RefundPolicy.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv(EnvJWTSecret, "env-secret")
	t.Setenv(EnvStripeSecretKey, "sk_test_env")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[gateway]
enabled = true
`))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sk_test_env", cfg.Gateway.SecretKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{name: "gateway without key", extra: "[gateway]\nenabled = true\n"},
		{name: "notifier without brokers", extra: "[notifier]\nenabled = true\n"},
		{name: "unknown timezone", extra: "[refund_policy]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "unknown preset", extra: "[refund_policy]\npreset = \"generous\"\n"},
		{name: "custom out of range", extra: "[refund_policy]\npreset = \"custom\"\nmore_than_24h = 120.0\n"},
		{name: "custom nan", extra: "[refund_policy]\npreset = \"custom\"\nmore_than_24h = nan\nbetween_24h_and_2h = 50.0\n"},
		{name: "custom inf", extra: "[refund_policy]\npreset = \"custom\"\nless_than_2h = inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvStripeSecretKey, "")
			_, err := Load(writeConfig(t, minimalConfig+tt.extra))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRefundPolicyConfig_Presets(t *testing.T) {
	alt, err := RefundPolicyConfig{Preset: domain.PolicyPresetAlternate}.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.AlternateRefundPolicy, alt)

	custom, err := RefundPolicyConfig{
		Preset:          domain.PolicyPresetCustom,
		MoreThan24h:     90,
		Between24hAnd2h: 40,
		LessThan2h:      10,
	}.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.RefundPolicy{MoreThan24h: 90, Between24hAnd2h: 40, LessThan2h: 10}, custom)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "bikawo", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/bikawo?sslmode=disable", d.DSN())
}
