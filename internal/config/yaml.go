package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	JWT     JWTConfig     `yaml:"jwt"`
	Email   EmailConfig   `yaml:"email"`
	Jobs    JobsConfig    `yaml:"jobs"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects the document store backend. Driver is one of
// "memory", "mongo" or "postgres".
type StorageConfig struct {
	Driver        string         `yaml:"driver"`
	SnapshotPath  string         `yaml:"snapshot_path"`
	MongoURI      string         `yaml:"mongo_uri"`
	MongoDatabase string         `yaml:"mongo_database"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"-"`
	// ExpiryRaw holds the YAML form, e.g. "24h".
	ExpiryRaw string `yaml:"expiry"`
}

type EmailConfig struct {
	ResendAPIKey     string `yaml:"resend_api_key"`
	MailerSendAPIKey string `yaml:"mailersend_api_key"`
	FromEmail        string `yaml:"from_email"`
	FromName         string `yaml:"from_name"`
}

type JobsConfig struct {
	ReconcileInterval time.Duration `yaml:"-"`
	ReminderInterval  time.Duration `yaml:"-"`

	ReconcileIntervalRaw string `yaml:"reconcile_interval"`
	ReminderIntervalRaw  string `yaml:"reminder_interval"`
}

type AuthConfig struct {
	SuperAdminEmails []string `yaml:"super_admin_emails"`
}

var AppConfig *Config

func LoadConfig() error {
	// Try to find config file in different locations
	configPaths := []string{
		"secret/app.yaml",
		"app.yaml",
		"config/app.yaml",
		"./app.yaml",
	}

	var configPath string
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath == "" {
		return fmt.Errorf("config file not found in any of the expected locations: %v", configPaths)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", configPath, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %v", err)
	}

	setDefaults(config)

	AppConfig = config
	return nil
}

func setDefaults(config *Config) {
	// Server defaults
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	// Storage defaults
	if config.Storage.Driver == "" {
		config.Storage.Driver = "memory"
	}
	if config.Storage.SnapshotPath == "" {
		config.Storage.SnapshotPath = "data/communishare.json"
	}
	if config.Storage.MongoURI == "" {
		config.Storage.MongoURI = "mongodb://localhost:27017"
	}
	if config.Storage.MongoDatabase == "" {
		config.Storage.MongoDatabase = "communishare"
	}
	if config.Storage.Postgres.Host == "" {
		config.Storage.Postgres.Host = "localhost"
	}
	if config.Storage.Postgres.Port == 0 {
		config.Storage.Postgres.Port = 5432
	}
	if config.Storage.Postgres.User == "" {
		config.Storage.Postgres.User = "communishare_user"
	}
	if config.Storage.Postgres.Password == "" {
		config.Storage.Postgres.Password = "communishare_password"
	}
	if config.Storage.Postgres.Name == "" {
		config.Storage.Postgres.Name = "communishare_db"
	}
	if config.Storage.Postgres.SSLMode == "" {
		config.Storage.Postgres.SSLMode = "disable"
	}

	// JWT defaults
	if config.JWT.Secret == "" {
		config.JWT.Secret = "communishare-super-secret-jwt-key-change-in-production"
	}
	if config.JWT.ExpiryRaw == "" {
		config.JWT.ExpiryRaw = "24h"
	}
	config.JWT.Expiry = parseDuration(config.JWT.ExpiryRaw, 24*time.Hour)

	// Email defaults
	if config.Email.FromEmail == "" {
		config.Email.FromEmail = "noreply@communishare.app"
	}
	if config.Email.FromName == "" {
		config.Email.FromName = "CommuniShare"
	}

	// Job defaults
	if config.Jobs.ReconcileIntervalRaw == "" {
		config.Jobs.ReconcileIntervalRaw = "10m"
	}
	if config.Jobs.ReminderIntervalRaw == "" {
		config.Jobs.ReminderIntervalRaw = "1h"
	}
	config.Jobs.ReconcileInterval = parseDuration(config.Jobs.ReconcileIntervalRaw, 10*time.Minute)
	config.Jobs.ReminderInterval = parseDuration(config.Jobs.ReminderIntervalRaw, time.Hour)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func GetConfig() *Config {
	if AppConfig == nil {
		// Try to load config if not already loaded
		if err := LoadConfig(); err != nil {
			// If loading fails, create a default config
			config := &Config{}
			setDefaults(config)
			AppConfig = config
		}
	}
	return AppConfig
}
