package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// KnownEntities lists the entity keys accepted by import.entities.
// Keep in sync with dump.Entities (config sits below dump in the import graph).
var KnownEntities = []string{
	"categories",
	"subcategories",
	"products",
	"product_images",
	"clients",
	"employees",
	"company_settings",
	"sales",
	"sale_details",
}

// Validate checks the parsing-related configuration. Destination settings
// are only checked by ValidateDestination, since parse never connects.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateInput()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateImport()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateDestination runs Validate plus the destination database checks.
func (c *Config) ValidateDestination() error {
	var errors ValidationErrors

	if err := c.Validate(); err != nil {
		errors = append(errors, err.(ValidationErrors)...)
	}
	errors = append(errors, c.validateDatabase("destination", &c.Destination)...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateInput() ValidationErrors {
	var errors ValidationErrors

	if c.Input.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "input.path",
			Message: "path is required",
		})
	}

	if c.Input.Schema == "" || strings.ContainsAny(c.Input.Schema, "[]") {
		errors = append(errors, ValidationError{
			Field:   "input.schema",
			Message: "schema must be a bare name without brackets",
		})
	}

	validEscapes := map[string]bool{"backslash": true, "sql": true, "": true}
	if !validEscapes[c.Input.Escape] {
		errors = append(errors, ValidationError{
			Field:   "input.escape",
			Message: "escape must be 'backslash' or 'sql'",
		})
	}

	if c.Input.MaxLineBytes < 0 {
		errors = append(errors, ValidationError{
			Field:   "input.max_line_bytes",
			Message: "max_line_bytes cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		errors = append(errors, ValidationError{
			Field:   "output.indent",
			Message: "indent must be between 0 and 16",
		})
	}

	return errors
}

func (c *Config) validateImport() ValidationErrors {
	var errors ValidationErrors

	known := make(map[string]bool, len(KnownEntities))
	for _, e := range KnownEntities {
		known[e] = true
	}
	for i, e := range c.Import.Entities {
		if !known[e] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("import.entities[%d]", i),
				Message: fmt.Sprintf("unknown entity %q", e),
			})
		}
	}

	if c.Import.LockTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "import.lock_timeout",
			Message: "lock_timeout cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	validDrivers := map[string]bool{"mysql": true, "pgx": true}
	if !validDrivers[db.Driver] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".driver",
			Message: "driver must be 'mysql' or 'pgx'",
		})
	}

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
