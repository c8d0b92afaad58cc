package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thushan/ollafree/internal/adapter/balancer"
	"github.com/thushan/ollafree/internal/env"
)

const (
	EnvPrefix     = "OLLAFREE"
	EnvConfigFile = "OLLAFREE_CONFIG_FILE"

	StrategyShuffle    = balancer.DefaultOrdererShuffle
	StrategySequential = balancer.DefaultOrdererSequential

	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultNumPredict  = 128
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Metadata: MetadataConfig{
			Dir: "",
		},
		Client: ClientConfig{
			ConnectionTimeout:   10 * time.Second,
			ResponseTimeout:     5 * time.Minute, // public servers can be slow to first token
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
		},
		Dispatch: DispatchConfig{
			Strategy: StrategyShuffle,
		},
		Generation: GenerationConfig{
			Temperature: DefaultTemperature,
			TopP:        DefaultTopP,
			NumPredict:  DefaultNumPredict,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Theme:      "default",
			LogDir:     "./logs",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			FileOutput: false,
		},
	}
}

// FlagBindings maps config keys to the command line flags that override them.
var FlagBindings = map[string]string{
	"metadata.dir":      "metadata",
	"dispatch.strategy": "strategy",
	"logging.level":     "log-level",
}

// Load reads configuration from path (or the usual search locations when
// path is empty) and overlays OLLAFREE_* environment variables.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with flags layered on top: a flag named in
// FlagBindings wins over the environment and the file, but only when it
// was set on the command line.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	setDefaults(v, config)

	if flags != nil {
		for key, name := range FlagBindings {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.ollafree")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = env.GetEnvOrDefault(EnvConfigFile, "")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		// no config file is fine, defaults and env still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Filename = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// never appear in a config file.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("metadata.dir", c.Metadata.Dir)

	v.SetDefault("client.connection_timeout", c.Client.ConnectionTimeout)
	v.SetDefault("client.response_timeout", c.Client.ResponseTimeout)
	v.SetDefault("client.idle_conn_timeout", c.Client.IdleConnTimeout)
	v.SetDefault("client.max_idle_conns", c.Client.MaxIdleConns)
	v.SetDefault("client.max_idle_conns_per_host", c.Client.MaxIdleConnsPerHost)

	v.SetDefault("dispatch.strategy", c.Dispatch.Strategy)

	v.SetDefault("generation.temperature", c.Generation.Temperature)
	v.SetDefault("generation.top_p", c.Generation.TopP)
	v.SetDefault("generation.num_predict", c.Generation.NumPredict)

	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.theme", c.Logging.Theme)
	v.SetDefault("logging.log_dir", c.Logging.LogDir)
	v.SetDefault("logging.max_size", c.Logging.MaxSize)
	v.SetDefault("logging.max_backups", c.Logging.MaxBackups)
	v.SetDefault("logging.max_age", c.Logging.MaxAge)
	v.SetDefault("logging.file_output", c.Logging.FileOutput)
}

// Validate rejects values the dispatcher or HTTP client cannot work with
func (c *Config) Validate() error {
	if strategies := balancer.NewFactory().GetAvailableStrategies(); !slices.Contains(strategies, c.Dispatch.Strategy) {
		return &ValidationError{Field: "dispatch.strategy", Value: c.Dispatch.Strategy, Reason: "must be one of " + strings.Join(strategies, ", ")}
	}
	if c.Client.ConnectionTimeout < 0 {
		return &ValidationError{Field: "client.connection_timeout", Value: c.Client.ConnectionTimeout, Reason: "must not be negative"}
	}
	if c.Client.ResponseTimeout < 0 {
		return &ValidationError{Field: "client.response_timeout", Value: c.Client.ResponseTimeout, Reason: "must not be negative"}
	}
	if c.Generation.NumPredict == 0 {
		return &ValidationError{Field: "generation.num_predict", Value: c.Generation.NumPredict, Reason: "must not be zero"}
	}
	return nil
}

type ValidationError struct {
	Value  interface{}
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}
