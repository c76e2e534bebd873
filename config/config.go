package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/lanshare/control"
	"github.com/sagarc03/lanshare/database"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for lanshare.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Database database.Config `mapstructure:"database"`
	Catalog  CatalogConfig   `mapstructure:"catalog"`
	Control  ControlConfig   `mapstructure:"control"`
	Manifest string          `mapstructure:"manifest"`
	Log      LogConfig       `mapstructure:"log"`
}

// ServerConfig holds the file server listener configuration.
type ServerConfig struct {
	// Host is the bind address; empty binds every interface.
	Host string `mapstructure:"host" validate:"omitempty,ip"`
	// Port 0 asks the OS for an ephemeral port.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`
	// IdleTimeout is the per-read/per-write connection timeout in seconds.
	IdleTimeout int `mapstructure:"idle_timeout" validate:"min=1"`
}

// AuthConfig holds the optional Basic credentials. Both or neither must be set.
type AuthConfig struct {
	Username string `mapstructure:"username" validate:"required_with=Password"`
	Password string `mapstructure:"password" validate:"required_with=Username"`
}

// CatalogConfig controls persistence of shared paths.
type CatalogConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ControlConfig holds the loopback control API configuration.
type ControlConfig struct {
	Enabled   bool               `mapstructure:"enabled"`
	Addr      string             `mapstructure:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`
	TokenHash string             `mapstructure:"token_hash"`
	CORS      control.CORSConfig `mapstructure:"cors"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	// Format selects colored text (tint) or JSON lines.
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"username":     "auth.username",
	"password":     "auth.password",
	"db-type":      "database.type",
	"db-dsn":       "database.dsn",
	"control":      "control.enabled",
	"control-addr": "control.addr",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.idle_timeout", 30)

	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "lanshare.db")
	v.SetDefault("database.tables.shares", "lanshare_shares")

	v.SetDefault("catalog.enabled", true)
	v.SetDefault("manifest", "")

	v.SetDefault("control.enabled", false)
	v.SetDefault("control.addr", "127.0.0.1:8081")
	v.SetDefault("control.token_hash", "")
	v.SetDefault("control.cors.enabled", false)
	v.SetDefault("control.cors.allowed_origins", []string{"*"})
	v.SetDefault("control.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE"})
	v.SetDefault("control.cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("control.cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("lanshare")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	v.SetEnvPrefix("LANSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
