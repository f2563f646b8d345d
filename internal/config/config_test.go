package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"PORT", "TZ", "SECRET_KEY", "LOG_MODE", "DB_DRIVER", "DB_PATH", "DATABASE_URL",
	"STORAGE_BACKEND", "LEVELDB_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"COOKIE_SECURE", "REMINDERS_ENABLED", "REMINDER_INTERVAL", "REMINDER_LEAD",
	"TELEGRAM_BOT_TOKEN",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Database.Driver != "sqlite" || cfg.Storage.Backend != StorageDatabase {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.Reminders.Interval != 5*time.Minute || cfg.Reminders.Lead != 30*time.Minute {
		t.Fatalf("unexpected reminder defaults: %#v", cfg.Reminders)
	}
	if cfg.DatabaseTarget() != filepath.Join("data", "medminder.db") {
		t.Fatalf("DatabaseTarget() = %q", cfg.DatabaseTarget())
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "medminder.yaml")
	content := []byte(`
port: "9090"
secret_key: "from-file-secret-from-file-secret-0"
storage:
  backend: leveldb
  leveldb_path: /var/lib/medminder/meds
reminders:
  enabled: false
  interval: 10m
  lead: 45m
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("REMINDER_LEAD", "15m")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("Port = %q, want env override 7070", cfg.Port)
	}
	if cfg.Storage.Backend != StorageLevelDB || cfg.Storage.LevelDBPath != "/var/lib/medminder/meds" {
		t.Fatalf("storage = %#v", cfg.Storage)
	}
	if cfg.Reminders.Enabled || cfg.Reminders.Interval != 10*time.Minute || cfg.Reminders.Lead != 15*time.Minute {
		t.Fatalf("reminders = %#v", cfg.Reminders)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected COOKIE_SECURE to enable secure cookies")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("REDIS_DB", "zero")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric REDIS_DB")
	}

	t.Setenv("REDIS_DB", "")
	t.Setenv("REMINDER_INTERVAL", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed REMINDER_INTERVAL")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateSecretKey(t *testing.T) {
	cfg := Default()

	cfg.SecretKey = ""
	if err := cfg.Validate(); !errors.Is(err, ErrSecretKeyMissing) {
		t.Fatalf("expected ErrSecretKeyMissing, got %v", err)
	}
	cfg.SecretKey = "change_me_in_production"
	if err := cfg.Validate(); !errors.Is(err, ErrSecretKeyInsecure) {
		t.Fatalf("expected ErrSecretKeyInsecure, got %v", err)
	}
	cfg.SecretKey = "too-short-secret"
	if err := cfg.Validate(); !errors.Is(err, ErrSecretKeyShort) {
		t.Fatalf("expected ErrSecretKeyShort, got %v", err)
	}
	cfg.SecretKey = validSecret
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
}

func TestValidateDriversAndBackends(t *testing.T) {
	cfg := Default()
	cfg.SecretKey = validSecret

	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected postgres without DATABASE_URL to fail")
	}
	cfg.Database.URL = "postgres://medminder@localhost/medminder"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.DatabaseTarget() != cfg.Database.URL {
		t.Fatalf("DatabaseTarget() = %q, want DATABASE_URL", cfg.DatabaseTarget())
	}

	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}

	cfg.Database.Driver = "sqlite"
	cfg.Storage.Backend = "s3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unsupported storage backend to fail")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus"
	if cfg.Location() != time.UTC {
		t.Fatalf("Location() = %v, want UTC", cfg.Location())
	}
}

func TestTelegramEnabled(t *testing.T) {
	cfg := Default()
	if cfg.TelegramEnabled() {
		t.Fatal("expected telegram disabled without token")
	}
	cfg.Reminders.TelegramBotToken = "token"
	if !cfg.TelegramEnabled() {
		t.Fatal("expected telegram enabled with a bot token")
	}
}
