package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/stackgen-labs/stackgen/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys for the port allocator. All overridable via
// config.yaml or STACKGEN_* environment variables.
const (
	KeyPortMin         = "ports.min"
	KeyPortMax         = "ports.max"
	KeyPortStride      = "ports.stride"
	KeyPortTLSOffset   = "ports.tls_offset"
	KeyPortMaxAttempts = "ports.max_attempts"
)

// Dir returns the path to the StackGen config directory (~/.stackgen/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stackgen/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	// Keys are nested (ports.min), env vars are flat (STACKGEN_PORTS_MIN).
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyPortMin, 8100)
	viper.SetDefault(KeyPortMax, 8499)
	viper.SetDefault(KeyPortStride, 2)
	viper.SetDefault(KeyPortTLSOffset, 1000)
	viper.SetDefault(KeyPortMaxAttempts, 64)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetInt returns an integer config value by key.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
