package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "taskplan"
	configFile = "config.yaml"
	envPrefix  = "TASKPLAN"

	DefaultCalendar = "Tasks"
	DefaultListen   = "127.0.0.1:8080"
)

type Config struct {
	Calendar  string `yaml:"calendar" mapstructure:"calendar"`
	Database  string `yaml:"database" mapstructure:"database"`
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	Listen    string `yaml:"listen" mapstructure:"listen"`
}

// Dir returns the application directory, $XDG_CONFIG_HOME/taskplan or
// ~/.config/taskplan.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, xdgAppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return PathIn(dir), nil
}

// PathIn returns the config file location inside dir.
func PathIn(dir string) string {
	return filepath.Join(dir, configFile)
}

// Defaults returns the configuration used when no file exists.
func Defaults(dir string) *Config {
	return &Config{
		Calendar:  DefaultCalendar,
		Database:  filepath.Join(dir, "taskplan.db"),
		LogLevel:  "info",
		LogFormat: "text",
		Listen:    DefaultListen,
	}
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path over the defaults. A missing file is not an error.
// TASKPLAN_<KEY> environment variables override both.
func LoadFrom(path string) (*Config, error) {
	def := Defaults(filepath.Dir(path))

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("calendar", def.Calendar)
	v.SetDefault("database", def.Database)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("listen", def.Listen)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return err
	}
	return encoder.Close()
}
