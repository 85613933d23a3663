// Package config loads process configuration with viper from a YAML file
// and REMIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "REMIND"

var (
	config *Config
	path   string
	mu     sync.Mutex
)

// Config represents the configuration implementation.
type Config struct {
	AppName     string
	Environment string
	Host        string
	Port        int
	// ReadTimeout and WriteTimeout bound each HTTP request. WriteTimeout
	// covers a whole synchronous reminder dispatch.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger      *Logger
	Data        *Data
	Email       *Email
	Reminder    *Reminder
	Viper       *viper.Viper
}

// IsProd reports whether the service runs in production mode.
func (c *Config) IsProd() bool {
	switch strings.ToLower(c.Environment) {
	case "release", "prod", "production":
		return true
	}
	return false
}

// SetPath sets the file read by GetConfig. An empty path searches the
// default locations.
func SetPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
	config = nil
}

// GetConfig returns the process configuration, loading it on first use.
func GetConfig() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if config != nil {
		return config, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	config = cfg
	return cfg, nil
}

// LoadConfig loads the configuration from configPath. Without a path the
// file config.yaml is searched in the working directory, $HOME/.remind,
// /etc/remind and next to the executable; a missing file is not an error
// in that case and settings come from the environment and defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.remind")
		v.AddConfigPath("/etc/remind")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v), nil
}

// bindLegacyEnv keeps the variable names used by earlier deployments.
func bindLegacyEnv(v *viper.Viper) error {
	if err := v.BindEnv("data.mongodb.uri", envPrefix+"_DATA_MONGODB_URI", "MONGODB_URI"); err != nil {
		return err
	}
	return v.BindEnv("email.sendgrid.key", envPrefix+"_EMAIL_SENDGRID_KEY", "SENDGRID_API_KEY")
}

func fromViper(v *viper.Viper) *Config {
	reminder := getReminderConfig(v)
	return &Config{
		AppName:      getStringOrDefault(v, "app_name", "remind"),
		Environment:  getStringOrDefault(v, "environment", "debug"),
		Host:         getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:         getIntOrDefault(v, "server.port", 3000),
		ReadTimeout:  getDurationOrDefault(v, "server.read_timeout", 15*time.Second),
		WriteTimeout: writeTimeout(getDurationOrDefault(v, "server.write_timeout", 5*time.Minute), reminder),
		Logger:       getLoggerConfig(v),
		Data:         getDataConfig(v),
		Email:        getEmailConfig(v),
		Reminder:     reminder,
		Viper:        v,
	}
}

// writeTimeout keeps the server write timeout above the time a single
// reminder send may take, so a dispatch response is never cut off by a
// slow provider. Zero disables the timeout.
func writeTimeout(configured time.Duration, r *Reminder) time.Duration {
	if configured <= 0 {
		return 0
	}
	if floor := 2 * r.SendTimeout; configured < floor {
		return floor
	}
	return configured
}

// Watch rebuilds the configuration whenever the loaded file changes and
// passes it to callback. It is a no-op when no file was read.
func Watch(cfg *Config, callback func(*Config)) {
	if cfg == nil || cfg.Viper == nil || cfg.Viper.ConfigFileUsed() == "" {
		return
	}
	v := cfg.Viper
	v.OnConfigChange(func(e fsnotify.Event) {
		next := fromViper(v)
		mu.Lock()
		if config == cfg {
			config = next
		}
		mu.Unlock()
		callback(next)
	})
	v.WatchConfig()
}
