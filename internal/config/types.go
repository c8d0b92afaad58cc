package config

import (
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Filename   string           `yaml:"-" mapstructure:"-"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Metadata   MetadataConfig   `yaml:"metadata" mapstructure:"metadata"`
	Client     ClientConfig     `yaml:"client" mapstructure:"client"`
	Dispatch   DispatchConfig   `yaml:"dispatch" mapstructure:"dispatch"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
}

// MetadataConfig controls where model/server metadata is read from
type MetadataConfig struct {
	// Dir overrides the bundled metadata with an on-disk directory of
	// *.json files. Empty means use the bundled data.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ClientConfig tunes the shared HTTP client used for every Ollama server
type ClientConfig struct {
	ConnectionTimeout   time.Duration `yaml:"connection_timeout" mapstructure:"connection_timeout"`
	ResponseTimeout     time.Duration `yaml:"response_timeout" mapstructure:"response_timeout"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
}

// DispatchConfig selects how candidate servers are ordered
type DispatchConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// GenerationConfig holds defaults for options the caller leaves unset
type GenerationConfig struct {
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64 `yaml:"top_p" mapstructure:"top_p"`
	NumPredict  int     `yaml:"num_predict" mapstructure:"num_predict"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Theme      string `yaml:"theme" mapstructure:"theme"`
	LogDir     string `yaml:"log_dir" mapstructure:"log_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	FileOutput bool   `yaml:"file_output" mapstructure:"file_output"`
}
