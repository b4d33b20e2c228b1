package config

// RuntimeType carries process-level settings read from the environment.
// The durable session configuration lives in the YAML document handled by
// Store instead.
type RuntimeType struct {
	ConfigPath   string `env:"CONFIG_PATH" envDefault:"config.yaml"`
	SessionDir   string `env:"SESSION_DIR" envDefault:"sessions"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Phone        string `env:"TG_PHONE"`
	CheckUpdates bool   `env:"CHECK_UPDATES" envDefault:"true"`
}
