// Package config resolves runtime settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageDatabase = "database"
	StorageLevelDB  = "leveldb"
	StorageRedis    = "redis"
	StorageMemory   = "memory"

	insecureSecretPlaceholder = "change_me_in_production"
	minSecretKeyLength        = 32
)

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses the insecure placeholder")
	ErrSecretKeyShort    = errors.New("SECRET_KEY must be at least 32 bytes")
)

type Config struct {
	Port         string         `yaml:"port"`
	Timezone     string         `yaml:"timezone"`
	SecretKey    string         `yaml:"secret_key"`
	CookieSecure bool           `yaml:"cookie_secure"`
	LogMode      string         `yaml:"log_mode"`
	Database     DatabaseConfig `yaml:"database"`
	Storage      StorageConfig  `yaml:"storage"`
	Reminders    ReminderConfig `yaml:"reminders"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"`
	LevelDBPath   string `yaml:"leveldb_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type ReminderConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Interval         time.Duration `yaml:"interval"`
	Lead             time.Duration `yaml:"lead"`
	TelegramBotToken string        `yaml:"telegram_bot_token"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		Timezone: "UTC",
		LogMode:  "dev",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join("data", "medminder.db"),
		},
		Storage: StorageConfig{
			Backend:     StorageDatabase,
			LevelDBPath: filepath.Join("data", "medications.leveldb"),
			RedisAddr:   "localhost:6379",
		},
		Reminders: ReminderConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
			Lead:     30 * time.Minute,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Timezone, "TZ")
	setString(&cfg.SecretKey, "SECRET_KEY")
	setString(&cfg.LogMode, "LOG_MODE")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Storage.LevelDBPath, "LEVELDB_PATH")
	setString(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Storage.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Reminders.TelegramBotToken, "TELEGRAM_BOT_TOKEN")

	if err := setBool(&cfg.CookieSecure, "COOKIE_SECURE"); err != nil {
		return err
	}
	if err := setBool(&cfg.Reminders.Enabled, "REMINDERS_ENABLED"); err != nil {
		return err
	}
	if err := setInt(&cfg.Storage.RedisDB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Reminders.Interval, "REMINDER_INTERVAL"); err != nil {
		return err
	}
	return setDuration(&cfg.Reminders.Lead, "REMINDER_LEAD")
}

// Validate checks the settings the server cannot start without.
func (cfg Config) Validate() error {
	secret := strings.TrimSpace(cfg.SecretKey)
	switch {
	case secret == "":
		return ErrSecretKeyMissing
	case secret == insecureSecretPlaceholder:
		return ErrSecretKeyInsecure
	case len(secret) < minSecretKeyLength:
		return ErrSecretKeyShort
	}

	switch strings.ToLower(cfg.Database.Driver) {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.Database.URL) == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	switch strings.ToLower(cfg.Storage.Backend) {
	case StorageDatabase, StorageLevelDB, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Reminders.Interval <= 0 || cfg.Reminders.Lead <= 0 {
		return errors.New("reminder interval and lead must be positive")
	}
	return nil
}

// DatabaseTarget is the path or DSN handed to the database driver.
func (cfg Config) DatabaseTarget() string {
	if strings.EqualFold(cfg.Database.Driver, "postgres") {
		return cfg.Database.URL
	}
	return cfg.Database.Path
}

func (cfg Config) TelegramEnabled() bool {
	return cfg.Reminders.TelegramBotToken != ""
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return time.UTC
	}
	return location
}

func setString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func setBool(target *bool, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*target = parsed
	return nil
}

func setInt(target *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*target = parsed
	return nil
}

func setDuration(target *time.Duration, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*target = parsed
	return nil
}
