package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string `yaml:"listen_addr"`
	Port              string `yaml:"port"`
	DatabasePath      string `yaml:"database_path"`
	SessionSecret     string `yaml:"session_secret"`
	SessionMaxAge     int    `yaml:"session_max_age"`
	GinMode           string `yaml:"gin_mode"`
	SiteName          string `yaml:"site_name"`
	SuperUserName     string `yaml:"super_user_name"`
	SuperUserPassword string `yaml:"super_user_password"`
}

const (
	defaultPort          = "8080"
	defaultDatabasePath  = "inkwell.db"
	defaultSessionSecret = "inkwell-dev-secret"
	defaultSessionMaxAge = 7 * 24 * 60 * 60
	defaultGinMode       = "release"
	defaultSiteName      = "Inkwell"
)

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	cfg := AppConfig{}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg
}

// LoadFile 先读取 YAML 配置文件，再用环境变量覆盖其中的字段。
// path 为空时等价于 Load。
func LoadFile(path string) (AppConfig, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Load(), nil
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config file %s: %w", trimmed, err)
	}
	if cfg.SessionMaxAge < 0 {
		return AppConfig{}, errors.New("session_max_age must not be negative")
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.SiteName, "SITE_NAME")
	setString(&cfg.SuperUserName, "SUPER_USER_NAME")
	setString(&cfg.SuperUserPassword, "SUPER_USER_PASSWORD")

	if raw := strings.TrimSpace(os.Getenv("SESSION_MAX_AGE")); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
			cfg.SessionMaxAge = seconds
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = defaultSessionSecret
	}
	if cfg.SessionMaxAge == 0 {
		cfg.SessionMaxAge = defaultSessionMaxAge
	}
	if cfg.GinMode == "" {
		cfg.GinMode = defaultGinMode
	}
	if cfg.SiteName == "" {
		cfg.SiteName = defaultSiteName
	}
}

func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}
