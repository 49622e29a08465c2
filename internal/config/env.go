package config

import "os"

// envBinding maps an environment variable onto a config field.
type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, value string)
}

var envBindings = []envBinding{
	{"TASKPAD_STORAGE", "storage_backend", func(c *Config, v string) { c.StorageBackend = v }},
	{"TASKPAD_STORAGE_PATH", "storage_path", func(c *Config, v string) { c.StoragePath = v }},
	{"TASKPAD_STORAGE_KEY", "storage_key", func(c *Config, v string) { c.StorageKey = v }},
	{"TASKPAD_LOG_DIR", "log_dir", func(c *Config, v string) { c.LogDir = v }},
	{"TASKPAD_LOG_LEVEL", "log_level", func(c *Config, v string) { c.LogLevel = v }},
	{"TASKPAD_LOG_FORMAT", "log_format", func(c *Config, v string) { c.LogFormat = v }},
	{"TASKPAD_LOG_TIMESTAMPS", "log_timestamps", func(c *Config, v string) { c.LogTimestamps = boolFromString(v) }},
	{"TASKPAD_LOG_CALLER", "log_caller", func(c *Config, v string) { c.LogCaller = boolFromString(v) }},
}

// loadFromEnv overrides config from environment variables. Empty
// variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		b.apply(cfg, v)
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}
