// Package config provides configuration structures and loading for dumpmigrate.
package config

// Config represents the complete application configuration.
type Config struct {
	Input       InputConfig    `yaml:"input" mapstructure:"input"`
	Output      OutputConfig   `yaml:"output" mapstructure:"output"`
	Destination DatabaseConfig `yaml:"destination" mapstructure:"destination"`
	Import      ImportConfig   `yaml:"import" mapstructure:"import"`
	Logging     LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// InputConfig describes the dump file being scanned.
type InputConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	Schema       string `yaml:"schema" mapstructure:"schema"`                 // schema in [schema].[Table], default dbo
	Escape       string `yaml:"escape" mapstructure:"escape"`                 // backslash or sql
	MaxLineBytes int    `yaml:"max_line_bytes" mapstructure:"max_line_bytes"` // longest physical line accepted
}

// OutputConfig describes where the JSON handoff file is written.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Indent int    `yaml:"indent" mapstructure:"indent"`
}

// DatabaseConfig represents the destination database connection configuration.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql or pgx
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// ImportConfig controls how parsed records are loaded into the destination.
type ImportConfig struct {
	Entities                []string `yaml:"entities" mapstructure:"entities"` // empty means all
	DisableForeignKeyChecks bool     `yaml:"disable_foreign_key_checks" mapstructure:"disable_foreign_key_checks"`
	UseLock                 bool     `yaml:"use_lock" mapstructure:"use_lock"`
	LockTimeout             int      `yaml:"lock_timeout" mapstructure:"lock_timeout"` // seconds
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// Default values shared with the CLI.
const (
	DefaultInputPath    = "restore_utf8.sql"
	DefaultOutputPath   = "migration_data.json"
	DefaultSchema       = "dbo"
	DefaultMaxLineBytes = 16 * 1024 * 1024
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path:         DefaultInputPath,
			Schema:       DefaultSchema,
			Escape:       "backslash",
			MaxLineBytes: DefaultMaxLineBytes,
		},
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Indent: 4,
		},
		Destination: DatabaseConfig{
			Driver:             "mysql",
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Import: ImportConfig{
			DisableForeignKeyChecks: false,
			UseLock:                 true,
			LockTimeout:             1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// HasDestination reports whether a destination database is configured.
func (c *Config) HasDestination() bool {
	return c.Destination.Host != "" && c.Destination.Database != ""
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, inputPath, outputPath string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if inputPath != "" {
		c.Input.Path = inputPath
	}
	if outputPath != "" {
		c.Output.Path = outputPath
	}
}
