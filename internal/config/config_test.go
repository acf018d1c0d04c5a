package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "APP_TIMEZONE", "SLA_RESPONSE_WINDOW", "SLA_TICK_INTERVAL", "REDIS_URL", "CALENDAR_API_URL", "MAIL_HOST", "ENV"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 24*time.Hour, cfg.SLA.Window)
	assert.Equal(t, 5*time.Minute, cfg.SLA.TickInterval)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("SLA_RESPONSE_WINDOW", "4h")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://crm.ligue.fr, ,https://admin.ligue.fr")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr())
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 4*time.Hour, cfg.SLA.Window)
	assert.Equal(t, []string{"https://crm.ligue.fr", "https://admin.ligue.fr"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 2525, cfg.Mail.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"APP_TIMEZONE":        "Mars/Olympus",
		"MAIL_PORT":           "smtp",
		"SLA_RESPONSE_WINDOW": "a day",
		"SLA_TICK_INTERVAL":   "-1m",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestHTTPAddr(t *testing.T) {
	assert.Equal(t, ":8080", HTTPConfig{}.Addr())
	assert.Equal(t, ":3000", HTTPConfig{Port: "3000"}.Addr())
	assert.Equal(t, ":3000", HTTPConfig{Port: ":3000"}.Addr())
}

func TestDefaultStatusVocabulary(t *testing.T) {
	vocab, err := LoadStatusVocabulary("")

	require.NoError(t, err)
	assert.Equal(t, []string{"Gagné", "Won"}, vocab[entity.RoleWon])
	assert.Equal(t, []string{"Opt-in"}, vocab[entity.RoleOptIn])
	assert.Len(t, vocab, 6)
}

func TestStatusVocabularyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  won: [Signé]\n  lost: [Abandon]\n"), 0o600))

	vocab, err := LoadStatusVocabulary(path)

	require.NoError(t, err)
	roles := entity.ResolveStatusRoles(nil, vocab)
	assert.Equal(t, entity.RoleWon, roles.RoleOf("SIGNÉ"))
	assert.Equal(t, entity.RoleOther, roles.RoleOf("Gagné"))
}

func TestStatusVocabularyErrors(t *testing.T) {
	_, err := ParseStatusVocabulary([]byte("roles:\n  archived: [Archivé]\n"))
	assert.ErrorContains(t, err, "unknown role")

	_, err = ParseStatusVocabulary([]byte("roles:\n  won: []\n"))
	assert.ErrorContains(t, err, "no labels")

	_, err = ParseStatusVocabulary([]byte("roles:\n  won: [\"Closed\"]\n  lost: [\"closed\"]\n"))
	assert.ErrorContains(t, err, "both")

	_, err = ParseStatusVocabulary([]byte("roles:\n  won: [\"Gagné\"]\n  lost: [\"GAGNE\u0301\"]\n"))
	assert.ErrorContains(t, err, "both", "decomposed accent folds to the same label")

	_, err = ParseStatusVocabulary([]byte("roles: [won"))
	assert.Error(t, err)

	_, err = LoadStatusVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
