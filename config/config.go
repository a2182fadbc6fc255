package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/qr"
	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG data home.
const AppName = "qrgen"

// DefaultConfigFile is read from the working directory when QRGEN_CONFIG is unset.
const DefaultConfigFile = ".qrgen.yaml"

type Config struct {
	Port            int     `yaml:"port"`
	LogLevel        string  `yaml:"log_level"`
	AuthUser        string  `yaml:"auth_user"`
	AuthPass        string  `yaml:"auth_pass"`
	HistoryBackend  string  `yaml:"history_backend"`
	HistoryPath     string  `yaml:"history_path"`
	DatabaseURL     string  `yaml:"database_url"`
	CacheSize       int     `yaml:"cache_size"`
	ModuleSize      int     `yaml:"module_size"`
	ErrorCorrection string  `yaml:"error_correction"`
	Foreground      string  `yaml:"foreground"`
	Background      string  `yaml:"background"`
	LogoRatio       float64 `yaml:"logo_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            8080,
		LogLevel:        "INFO",
		AuthUser:        "admin",
		AuthPass:        "password",
		HistoryBackend:  constant.BackendJSON,
		HistoryPath:     filepath.Join(xdg.DataHome, AppName, "qr_history.json"),
		DatabaseURL:     filepath.Join(xdg.DataHome, AppName, "history.db"),
		CacheSize:       256,
		ModuleSize:      qr.DefaultModuleSize,
		ErrorCorrection: "H",
		Foreground:      "black",
		Background:      "white",
		LogoRatio:       qr.DefaultLogoRatio,
	}
}

// LoadConfig layers defaults, the optional YAML file and environment variables,
// in that order.
func LoadConfig() (Config, error) {
	cfg := Default()

	path, explicit := os.LookupEnv("QRGEN_CONFIG")
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return cfg, err
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.AuthUser = getEnv("AUTH_USER", c.AuthUser)
	c.AuthPass = getEnv("AUTH_PASS", c.AuthPass)
	c.HistoryBackend = getEnv("HISTORY_BACKEND", c.HistoryBackend)
	c.HistoryPath = getEnv("HISTORY_PATH", c.HistoryPath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.ErrorCorrection = getEnv("QR_ERROR_CORRECTION", c.ErrorCorrection)
	c.Foreground = getEnv("QR_FOREGROUND", c.Foreground)
	c.Background = getEnv("QR_BACKGROUND", c.Background)

	var err error
	if c.Port, err = getEnvInt("PORT", c.Port); err != nil {
		return err
	}
	if c.CacheSize, err = getEnvInt("CACHE_SIZE", c.CacheSize); err != nil {
		return err
	}
	if c.ModuleSize, err = getEnvInt("QR_MODULE_SIZE", c.ModuleSize); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("QR_LOGO_RATIO"); ok {
		ratio, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("QR_LOGO_RATIO: %w", err)
		}
		c.LogoRatio = ratio
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.HistoryBackend {
	case constant.BackendJSON:
		if c.HistoryPath == "" {
			return errors.New("history_path is required for the json backend")
		}
	case constant.BackendSQLite:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown history backend %q", c.HistoryBackend)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size %d must not be negative", c.CacheSize)
	}
	if c.LogoRatio <= 0 || c.LogoRatio > 1 {
		return fmt.Errorf("logo_ratio %.2f must be in (0, 1]", c.LogoRatio)
	}
	_, err := c.Style()
	return err
}

// Style builds the default rendering style. Module size is bounded to [1, 100].
func (c Config) Style() (qr.Style, error) {
	if c.ModuleSize < 1 || c.ModuleSize > 100 {
		return qr.Style{}, fmt.Errorf("module_size %d must be between 1 and 100", c.ModuleSize)
	}
	level, err := qr.ParseLevel(c.ErrorCorrection)
	if err != nil {
		return qr.Style{}, err
	}
	fg, err := qr.ParseColor(c.Foreground)
	if err != nil {
		return qr.Style{}, err
	}
	bg, err := qr.ParseColor(c.Background)
	if err != nil {
		return qr.Style{}, err
	}
	return qr.Style{
		Level:      level,
		Foreground: fg,
		Background: bg,
		ModuleSize: c.ModuleSize,
	}, nil
}

// HistoryLocation is the path of the active backend.
func (c Config) HistoryLocation() string {
	if c.HistoryBackend == constant.BackendSQLite {
		return c.DatabaseURL
	}
	return c.HistoryPath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
