package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// ConfigPathEnvVar points to an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "configs/config.yaml"}

type AppConfig struct {
	Name        string `koanf:"name"`
	Env         string `koanf:"env"`
	Port        string `koanf:"port"`
	FrontendURL string `koanf:"frontend_url"`
	BaseURL     string `koanf:"base_url"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"sslmode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	StatementTimeMs int           `koanf:"statement_timeout_ms"`
}

type JWTConfig struct {
	Secret        string        `koanf:"secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
	ResetTokenTTL time.Duration `koanf:"reset_token_ttl"`
}

type GoogleConfig struct {
	ClientID string `koanf:"client_id"`
}

type MailConfig struct {
	Provider       string `koanf:"provider"` // sendgrid | console
	SendgridAPIKey string `koanf:"sendgrid_api_key"`
	FromName       string `koanf:"from_name"`
	FromEmail      string `koanf:"from_email"`
}

type StorageConfig struct {
	Provider      string `koanf:"provider"` // local | oss
	LocalDir      string `koanf:"local_dir"`
	PublicPath    string `koanf:"public_path"`
	MaxUploadMB   int    `koanf:"max_upload_mb"`
	OSSEndpoint   string `koanf:"oss_endpoint"`
	OSSAccessKey  string `koanf:"oss_access_key"`
	OSSSecretKey  string `koanf:"oss_secret_key"`
	OSSBucket     string `koanf:"oss_bucket"`
	OSSPublicBase string `koanf:"oss_public_base"`
	Prefix        string `koanf:"prefix"`
}

type OpenAIConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

type ZoomConfig struct {
	APIBaseURL string `koanf:"api_base_url"`
	OAuthURL   string `koanf:"oauth_url"`
	RatePerSec int    `koanf:"rate_per_sec"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"` // json | console
	PersistMin string `koanf:"persist_min"`
}

type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

type SecurityConfig struct {
	SuperAdminEmail    string `koanf:"superadmin_email"`
	SuperAdminPassword string `koanf:"superadmin_password"`
	BlacklistTTLDays   int    `koanf:"blacklist_ttl_days"`
}

type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Google   GoogleConfig   `koanf:"google"`
	Mail     MailConfig     `koanf:"mail"`
	Storage  StorageConfig  `koanf:"storage"`
	OpenAI   OpenAIConfig   `koanf:"openai"`
	Zoom     ZoomConfig     `koanf:"zoom"`
	Log      LogConfig      `koanf:"log"`
	CORS     CORSConfig     `koanf:"cors"`
	Security SecurityConfig `koanf:"security"`
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:        "AcademyKit",
			Env:         "development",
			Port:        "3000",
			FrontendURL: "http://localhost:5173",
			BaseURL:     "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "academykit",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxIdleTime: 60 * time.Second,
			ConnMaxLifetime: 10 * time.Minute,
			StatementTimeMs: 5000,
		},
		JWT: JWTConfig{
			AccessTTL:     24 * time.Hour,
			RefreshTTL:    7 * 24 * time.Hour,
			ResetTokenTTL: 15 * time.Minute,
		},
		Mail: MailConfig{
			Provider:  "console",
			FromName:  "AcademyKit",
			FromEmail: "no-reply@academykit.local",
		},
		Storage: StorageConfig{
			Provider:    "local",
			LocalDir:    "./uploads",
			PublicPath:  "/uploads",
			MaxUploadMB: 50,
			Prefix:      "academykit",
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Zoom: ZoomConfig{
			APIBaseURL: "https://api.zoom.us/v2",
			OAuthURL:   "https://zoom.us/oauth/token",
			RatePerSec: 10,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			PersistMin: "warn",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Security: SecurityConfig{
			SuperAdminEmail:  "superadmin@academykit.local",
			BlacklistTTLDays: 7,
		},
	}
}

// envMappings keeps the flat env names used by deployments.
var envMappings = map[string]string{
	"app_name":             "app.name",
	"app_env":              "app.env",
	"port":                 "app.port",
	"frontend_url":         "app.frontend_url",
	"base_url":             "app.base_url",
	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_sslmode":           "database.sslmode",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_statement_timeout": "database.statement_timeout_ms",
	"jwt_secret":           "jwt.secret",
	"jwt_refresh_secret":   "jwt.refresh_secret",
	"jwt_access_ttl":       "jwt.access_ttl",
	"jwt_refresh_ttl":      "jwt.refresh_ttl",
	"reset_token_ttl":      "jwt.reset_token_ttl",
	"google_client_id":     "google.client_id",
	"mail_provider":        "mail.provider",
	"sendgrid_api_key":     "mail.sendgrid_api_key",
	"mail_from_name":       "mail.from_name",
	"mail_from_email":      "mail.from_email",
	"storage_provider":     "storage.provider",
	"storage_local_dir":    "storage.local_dir",
	"storage_max_upload":   "storage.max_upload_mb",
	"ali_oss_endpoint":     "storage.oss_endpoint",
	"ali_oss_access_key":   "storage.oss_access_key",
	"ali_oss_secret_key":   "storage.oss_secret_key",
	"ali_oss_bucket":       "storage.oss_bucket",
	"ali_oss_public_base":  "storage.oss_public_base",
	"openai_api_key":       "openai.api_key",
	"openai_base_url":      "openai.base_url",
	"openai_model":         "openai.model",
	"zoom_api_base_url":    "zoom.api_base_url",
	"zoom_oauth_url":       "zoom.oauth_url",
	"log_level":            "log.level",
	"log_format":           "log.format",
	"log_persist_min":      "log.persist_min",
	"cors_allow_origins":   "cors.allow_origins",
	"superadmin_email":     "security.superadmin_email",
	"superadmin_password":  "security.superadmin_password",
	"token_blacklist_ttl":  "security.blacklist_ttl_days",
}

// sliceConfigPaths are comma separated when they come from env.
var sliceConfigPaths = []string{"cors.allow_origins"}

func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

// LoadEnv reads .env outside production. Missing file is not an error.
func LoadEnv() {
	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		log.Info().Msg("[CONFIG] production mode, using system env")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("[CONFIG] no .env file found, using system env")
		return
	}
	log.Info().Msg("[CONFIG] .env loaded")
}

// Load layers defaults, optional YAML file and env vars into a Config.
func Load() (*Config, error) {
	LoadEnv()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.IsProduction() {
		if cfg.JWT.Secret == "" {
			cfg.JWT.Secret = "academykit-dev-access"
			log.Warn().Msg("[CONFIG] JWT_SECRET not set, using development secret")
		}
		if cfg.JWT.RefreshSecret == "" {
			cfg.JWT.RefreshSecret = "academykit-dev-refresh"
		}
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if strings.TrimSpace(c.JWT.Secret) == "" {
			return fmt.Errorf("jwt.secret (JWT_SECRET) is required")
		}
		if strings.TrimSpace(c.JWT.RefreshSecret) == "" {
			return fmt.Errorf("jwt.refresh_secret (JWT_REFRESH_SECRET) is required")
		}
	}
	switch c.Mail.Provider {
	case "console", "sendgrid":
	default:
		return fmt.Errorf("mail.provider must be console or sendgrid, got %q", c.Mail.Provider)
	}
	switch c.Storage.Provider {
	case "local", "oss":
	default:
		return fmt.Errorf("storage.provider must be local or oss, got %q", c.Storage.Provider)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("jwt ttl values must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.App.Env, "production") }

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=academykit&options=-c%%20statement_timeout=%d",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode, d.StatementTimeMs,
	)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
