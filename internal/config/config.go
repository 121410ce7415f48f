package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Board backends
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
	ModeS3     = "s3"
)

// Auth gates
const (
	AuthDemo    = "demo"
	AuthSession = "session"
)

const (
	defaultAPIBase = "http://localhost:8000"
	defaultTimeout = 30
)

// S3 describes the bucket used in s3 mode
type S3 struct {
	Endpoint        string `json:"endpoint,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	Key             string `json:"key,omitempty"`
	Region          string `json:"region,omitempty"`
	AccessKey       string `json:"access_key,omitempty"`
	SecretKey       string `json:"secret_key,omitempty"`
	UsePathStyle    bool   `json:"use_path_style,omitempty"`
	DisableChecksum bool   `json:"disable_checksum,omitempty"`
}

// Config holds the unified application configuration
type Config struct {
	APIBase        string
	Username       string
	Password       string
	Mode           string
	Auth           string
	Dir            string
	TimeoutSeconds int
	S3             S3
}

// Settings represents the config file structure
type Settings struct {
	APIBase        string `json:"api_base,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Auth           string `json:"auth,omitempty"`
	Dir            string `json:"dir,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	S3             S3     `json:"s3,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	APIBase  string
	Username string
	Mode     string
	Dir      string
}

var globalConfig *Config

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	defaultDir, err := GetDefaultDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBase:        defaultAPIBase,
		Mode:           ModeRemote,
		Auth:           AuthDemo,
		Dir:            defaultDir,
		TimeoutSeconds: defaultTimeout,
	}

	if configPath, err := getConfigPath(); err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			applySettings(cfg, fileConfig)
		}
	}

	applyEnv(cfg)

	if flags.APIBase != "" {
		cfg.APIBase = flags.APIBase
	}
	if flags.Username != "" {
		cfg.Username = flags.Username
	}
	if flags.Mode != "" {
		cfg.Mode = flags.Mode
	}
	if flags.Dir != "" {
		cfg.Dir = expandPath(flags.Dir)
	}

	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	cfg.Mode = strings.ToLower(cfg.Mode)
	cfg.Auth = strings.ToLower(cfg.Auth)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

func applySettings(cfg *Config, s *Settings) {
	if s.APIBase != "" {
		cfg.APIBase = s.APIBase
	}
	if s.Username != "" {
		cfg.Username = s.Username
	}
	if s.Password != "" {
		cfg.Password = s.Password
	}
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.Auth != "" {
		cfg.Auth = s.Auth
	}
	if s.Dir != "" {
		cfg.Dir = expandPath(s.Dir)
	}
	if s.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = s.TimeoutSeconds
	}
	cfg.S3 = s.S3
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KANBAN_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("KANBAN_USER"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("KANBAN_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("KANBAN_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("KANBAN_AUTH"); v != "" {
		cfg.Auth = v
	}
	if v := os.Getenv("KANBAN_DIR"); v != "" {
		cfg.Dir = expandPath(v)
	}
	if v := os.Getenv("KANBAN_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}

	if v := os.Getenv("KANBAN_S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("KANBAN_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("KANBAN_S3_KEY"); v != "" {
		cfg.S3.Key = v
	}
	if v := os.Getenv("KANBAN_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("KANBAN_S3_ACCESS_KEY"); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("KANBAN_S3_SECRET_KEY"); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := os.Getenv("KANBAN_S3_PATH_STYLE"); v != "" {
		cfg.S3.UsePathStyle = parseBool(v)
	}
	if v := os.Getenv("KANBAN_S3_DISABLE_CHECKSUM"); v != "" {
		cfg.S3.DisableChecksum = parseBool(v)
	}
}

// Validate rejects unknown modes and incomplete s3 settings
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRemote, ModeLocal:
	case ModeS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("mode %q requires an S3 bucket", ModeS3)
		}
	default:
		return fmt.Errorf("unknown mode %q (want %s, %s or %s)", c.Mode, ModeRemote, ModeLocal, ModeS3)
	}

	switch c.Auth {
	case AuthDemo, AuthSession:
	default:
		return fmt.Errorf("unknown auth %q (want %s or %s)", c.Auth, AuthDemo, AuthSession)
	}
	return nil
}

// Get returns the loaded config
func Get() *Config {
	return globalConfig
}

// Timeout returns the per-request timeout for the board API
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetDefaultDir returns the default data directory path
func GetDefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "kanban"), nil
}

// BoardDir returns where the local board snapshot lives
func (c *Config) BoardDir() string {
	return filepath.Join(c.Dir, "board")
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kanban", "config.json"), nil
}

func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	settings := Settings{
		APIBase:        defaultAPIBase,
		Mode:           ModeRemote,
		Auth:           AuthDemo,
		Dir:            "~/kanban",
		TimeoutSeconds: defaultTimeout,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
