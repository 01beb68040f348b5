package config

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the merged runtime configuration. File values override the
// defaults; keys missing from the file keep their default.
type Config struct {
	ReportSize     int     `mapstructure:"report_size"`
	ReportDir      string  `mapstructure:"report_dir"`
	LogDir         string  `mapstructure:"log_dir"`
	ErrorThreshold float64 `mapstructure:"error_threshold"`
	LogFile        string  `mapstructure:"log_file"`
}

// Load reads the JSON config at path and merges it over the defaults.
// The file must exist; an empty file means pure defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)

	if len(bytes.TrimSpace(content)) == 0 {
		log.Info("provided config file is empty, applying default configuration")
	} else if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("unable to decode config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report_size", 1000)
	v.SetDefault("report_dir", "./reports")
	v.SetDefault("log_dir", "./log")
	v.SetDefault("error_threshold", 0.1)
}

func (c *Config) validate() error {
	if c.ReportSize <= 0 {
		return fmt.Errorf("report_size must be positive, got %d", c.ReportSize)
	}
	if c.ErrorThreshold < 0 {
		return fmt.Errorf("error_threshold must be non-negative, got %g", c.ErrorThreshold)
	}
	return nil
}
