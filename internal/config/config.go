package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Provider ProviderConfig `yaml:"provider"`
	Auth     AuthConfig     `yaml:"auth"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port       int           `yaml:"port"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ProviderConfig points at the upstream skin-analysis API.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig controls Google sign-in verification. Credentials are checked
// by introspection against TokenInfoURL rather than local signature checks.
type AuthConfig struct {
	TokenInfoURL string        `yaml:"tokeninfo_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CameraConfig tunes the capture session. The presence heuristic constants
// were chosen empirically; treat the defaults as the reference behavior.
type CameraConfig struct {
	Device            string  `yaml:"device"`
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	FallbackWidth     int     `yaml:"fallback_width"`
	FallbackHeight    int     `yaml:"fallback_height"`
	SampleRate        int     `yaml:"sample_rate"` // presence ticks per second
	SampleSize        int     `yaml:"sample_size"` // center crop edge, pixels
	PresenceThreshold float64 `yaml:"presence_threshold"`
	DebounceTicks     int     `yaml:"debounce_ticks"`
	JPEGQuality       int     `yaml:"jpeg_quality"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	SetDefaults(cfg)

	return cfg, nil
}

// SetDefaults fills in zero-valued fields. Exported so binaries without a
// config file can start from an empty Config.
func SetDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Auth.TokenInfoURL == "" {
		cfg.Auth.TokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	}
	if cfg.Auth.Timeout == 0 {
		cfg.Auth.Timeout = 10 * time.Second
	}
	if cfg.Camera.Width == 0 {
		cfg.Camera.Width = 1280
	}
	if cfg.Camera.Height == 0 {
		cfg.Camera.Height = 720
	}
	if cfg.Camera.FallbackWidth == 0 {
		cfg.Camera.FallbackWidth = 640
	}
	if cfg.Camera.FallbackHeight == 0 {
		cfg.Camera.FallbackHeight = 480
	}
	if cfg.Camera.SampleRate == 0 {
		cfg.Camera.SampleRate = 30
	}
	if cfg.Camera.SampleSize == 0 {
		cfg.Camera.SampleSize = 100
	}
	if cfg.Camera.PresenceThreshold == 0 {
		cfg.Camera.PresenceThreshold = 0.15
	}
	if cfg.Camera.DebounceTicks == 0 {
		cfg.Camera.DebounceTicks = 1
	}
	if cfg.Camera.JPEGQuality == 0 {
		cfg.Camera.JPEGQuality = 92
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FW_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FW_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FW_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FW_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FW_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FW_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FW_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("FW_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("FW_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("FW_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("FW_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("FW_PROVIDER_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("FW_PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("FW_AUTH_TOKENINFO_URL"); v != "" {
		cfg.Auth.TokenInfoURL = v
	}
	if v := os.Getenv("FW_CAMERA_DEVICE"); v != "" {
		cfg.Camera.Device = v
	}
}
