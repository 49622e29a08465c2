// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultStorageBackend = "file"
	DefaultStorageKey     = "tasks"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the full configuration for taskpad.
type Config struct {
	// Storage
	StorageBackend string `toml:"storage_backend"`
	StoragePath    string `toml:"storage_path"` // empty means the backend default under ~/.taskpad
	StorageKey     string `toml:"storage_key"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Config files that were read, lowest priority first (computed)
	Files []string `toml:"-"`

	// Working directory relative paths are resolved against (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage_backend",
		"storage_path",
		"storage_key",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Get returns the string form of a field by its TOML name.
func (c *Config) Get(field string) string {
	switch field {
	case "storage_backend":
		return c.StorageBackend
	case "storage_path":
		return c.StoragePath
	case "storage_key":
		return c.StorageKey
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return boolString(c.LogTimestamps)
	case "log_caller":
		return boolString(c.LogCaller)
	}
	return ""
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
