// Package conf loads the application configuration from an optional YAML
// file plus GOALKEEP_ environment overrides.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage/postgres"
)

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	// Backend is "postgres" or "memory". Memory is the database-less dev
	// mode; nothing survives a restart.
	Backend string `conf:"backend" yaml:"backend" json:"backend"`

	Postgres postgres.Config `conf:"postgres" yaml:"postgres" json:"postgres"`
}

// IsolationConfig toggles the optional second defense layer.
type IsolationConfig struct {
	// SessionMirror mirrors the bound tenant scope into the storage session
	// before scoped reads. The tenant filter always runs regardless.
	SessionMirror bool `conf:"session_mirror" yaml:"session_mirror" json:"session_mirror"`
}

type Config struct {
	Log       log.Config      `conf:"log" yaml:"log" json:"log"`
	Store     StoreConfig     `conf:"store" yaml:"store" json:"store"`
	Auth      biz.AuthConfig  `conf:"auth" yaml:"auth" json:"auth"`
	Isolation IsolationConfig `conf:"isolation" yaml:"isolation" json:"isolation"`
}

// Load reads goalkeep.yml from the working directory or /etc/goalkeep when
// present, then applies GOALKEEP_-prefixed environment overrides. A missing
// file is not an error; every setting has a usable default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("goalkeep")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/goalkeep")

	v.SetEnvPrefix("GOALKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.postgres.max_conns", 10)
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("isolation.session_mirror", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("conf: read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	}); err != nil {
		return nil, fmt.Errorf("conf: unmarshal: %w", err)
	}

	return &config, nil
}
