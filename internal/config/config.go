package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/alsobought-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Export layout
	BuyerColumn    string   `mapstructure:"buyer_column" yaml:"buyer_column"`
	ItemColumns    []string `mapstructure:"item_columns" yaml:"item_columns"`
	QuantityColumn string   `mapstructure:"quantity_column" yaml:"quantity_column"`

	// Recommendation parameters
	TopItems       int    `mapstructure:"top_items" yaml:"top_items"`
	TopK           int    `mapstructure:"top_k" yaml:"top_k"`
	MinBuyerOrders int    `mapstructure:"min_buyer_orders" yaml:"min_buyer_orders"`
	MissingBuyer   string `mapstructure:"missing_buyer" yaml:"missing_buyer"`
	BareUsernames  bool   `mapstructure:"bare_usernames" yaml:"bare_usernames"`

	// Web UI
	HTTPAddr            string `mapstructure:"http_addr" yaml:"http_addr"`
	HTTPReadTimeoutSec  int    `mapstructure:"http_read_timeout_sec" yaml:"http_read_timeout_sec"`
	HTTPWriteTimeoutSec int    `mapstructure:"http_write_timeout_sec" yaml:"http_write_timeout_sec"`
	HTTPShutdownSec     int    `mapstructure:"http_shutdown_sec" yaml:"http_shutdown_sec"`
	MaxUploadMB         int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	CacheSize           int    `mapstructure:"cache_size" yaml:"cache_size"`
	CacheTTLMin         int    `mapstructure:"cache_ttl_min" yaml:"cache_ttl_min"`

	// Logging
	LogEnv   string `mapstructure:"log_env" yaml:"log_env"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns ~/.alsobought.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".alsobought"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.alsobought/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ALSOBOUGHT")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Default returns the built-in configuration, ignoring files and env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("buyer_column", "Buyer")
	v.SetDefault("item_columns", []string{"Item Name", "SKU"})
	v.SetDefault("quantity_column", "Quantity")
	v.SetDefault("top_items", 50)
	v.SetDefault("top_k", 10)
	v.SetDefault("min_buyer_orders", 2)
	v.SetDefault("missing_buyer", "drop")
	v.SetDefault("bare_usernames", false)
	// HTTP defaults
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("http_read_timeout_sec", 30)
	v.SetDefault("http_write_timeout_sec", 60)
	v.SetDefault("http_shutdown_sec", 10)
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("cache_size", 16)
	v.SetDefault("cache_ttl_min", 60)
	v.SetDefault("log_env", "dev")
	v.SetDefault("log_level", "info")
}
