package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/AnuragSem/MMORTS-DISCORD-BOT/internal/storage"

	"gopkg.in/yaml.v3"
)

type DiscordConfig struct {
	Token       string `yaml:"token"`
	ClientID    string `yaml:"client_id"`
	Permissions int64  `yaml:"-"`
}

type StorageConfig struct {
	// Driver is "file" or "postgres". The file driver keeps events.json,
	// config.json and tips.json under Dir, matching older deployments.
	Driver   string                 `yaml:"driver"`
	Dir      string                 `yaml:"dir"`
	Postgres storage.PostgresConfig `yaml:"postgres"`
}

type HealthConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Storage StorageConfig `yaml:"storage"`
	Health  HealthConfig  `yaml:"health"`
}

func Load() (*Config, error) {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Replace environment variables in the YAML content
	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token is not set")
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "data"
	}
	if cfg.Health.Addr == "" {
		cfg.Health.Addr = ":8080"
	}

	return &cfg, nil
}
