package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CLIConfig drives reviewctl.
type CLIConfig struct {
	APIURL   string
	WebURL   string
	Token    string
	Timeout  time.Duration
	Redis    RedisConfig
	ScopeKey bool
}

// LoadCLI reads ~/.config/reviewctl/config.yaml (or path when set) and
// REVIEWCTL_* variables.
func LoadCLI(path string) (*CLIConfig, *viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "reviewctl"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("REVIEWCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("apiurl", "http://127.0.0.1:8080/api")
	v.SetDefault("weburl", "http://127.0.0.1:3000")
	v.SetDefault("timeout", "15s")
	v.SetDefault("scopekey", false)
	v.SetDefault("token", "")
	v.SetDefault("redis.addr", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg, decodeHooks); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, v, nil
}
