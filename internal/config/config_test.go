package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DB_TYPE", "VOCABULARY_LANGUAGES", "SCORE_STORE", "RELOAD_INTERVAL", "DUE_LIMIT", "GUEST_USER_IDS"} {
		t.Setenv(key, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, []string{"Latein", "Englisch"}, cfg.Languages)
	assert.Equal(t, time.Hour, cfg.ReloadInterval)
	assert.Equal(t, 10000, cfg.DueLimit)
	assert.Empty(t, cfg.GuestUserIDs)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/vocab")
	t.Setenv("VOCABULARY_LANGUAGES", "Latein, Griechisch ,")
	t.Setenv("SCORE_STORE", "sheet")
	t.Setenv("RELOAD_INTERVAL", "15m")
	t.Setenv("DUE_LIMIT", "25")
	t.Setenv("GUEST_USER_IDS", "11, 22")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, []string{"Latein", "Griechisch"}, cfg.Languages)
	assert.Equal(t, "sheet", cfg.ScoreStore)
	assert.Equal(t, 15*time.Minute, cfg.ReloadInterval)
	assert.Equal(t, 25, cfg.DueLimit)
	assert.True(t, cfg.GuestUserIDs[22])
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"RELOAD_INTERVAL": "soon",
		"DUE_LIMIT":       "-1",
		"GUEST_USER_IDS":  "abc",
		"DB_TYPE":         "oracle",
		"SCORE_STORE":     "cloud",

		"NOTIFICATION_START_HOUR": "25",
		"NOTIFICATION_END_HOUR":   "2", // before the default start hour
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("DB_TYPE", "sqlite")
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_Reminders(t *testing.T) {
	t.Setenv("ENABLE_SCHEDULER", "false")
	t.Setenv("NOTIFICATION_START_HOUR", "8")
	t.Setenv("NOTIFICATION_END_HOUR", "21")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.RemindersEnabled)
	assert.Equal(t, 8, cfg.ReminderStartHour)
	assert.Equal(t, 21, cfg.ReminderEndHour)
}

func TestFromEnv_PostgresNeedsURL(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VOCABULARY_FILE=/tmp/words.xlsx\n"), 0644))
	t.Setenv("VOCABULARY_FILE", "")
	os.Unsetenv("VOCABULARY_FILE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/words.xlsx", cfg.VocabularyFile)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
