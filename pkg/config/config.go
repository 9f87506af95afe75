package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures runtime settings for the item service.
type Config struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	ServiceName    string        `mapstructure:"service_name"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads configuration from defaults, an optional config file, and
// ITEMD_-prefixed environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("ITEMD")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("service_name", "itemd")
	v.SetDefault("request_timeout", "60s")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}
