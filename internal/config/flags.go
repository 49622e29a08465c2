package config

import "flag"

// flagFields maps flag names to the config fields they set.
var flagFields = map[string]string{
	"storage":      "storage_backend",
	"storage-path": "storage_path",
	"key":          "storage_key",
	"log-dir":      "log_dir",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

// parseFlags defines the global config flags on fs, parses args and marks
// explicitly set flags as flag-sourced.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskpad", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Storage backend (file|sqlite|memory)")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Path to the store file")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Store key holding the task list")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
