package cmd

import (
	"fmt"
	"io"

	"github.com/dbsmedya/dumpmigrate/internal/config"
	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
	"github.com/dbsmedya/dumpmigrate/internal/report"
)

// loadConfig reads the config file, applies CLI overrides and validates the
// result. With optional set a missing file yields the defaults.
func loadConfig(optional bool) (*config.Config, error) {
	configFile := GetConfigFile()

	var (
		cfg *config.Config
		err error
	)
	if optional {
		cfg, err = config.LoadOptional(configFile)
	} else {
		cfg, err = config.Load(configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.InputPath, overrides.OutputPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger initializes the logger from cfg.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// newScanner builds a dump scanner from the input settings.
func newScanner(cfg *config.Config, log *logger.Logger) (*dump.Scanner, error) {
	escape, err := dump.ParseEscapeMode(cfg.Input.Escape)
	if err != nil {
		return nil, err
	}
	return dump.NewScanner(dump.Options{
		Schema:       cfg.Input.Schema,
		Escape:       escape,
		MaxLineBytes: cfg.Input.MaxLineBytes,
		Logger:       log,
	}), nil
}

// loadResult returns the records to work with: the JSON handoff file at
// fromJSON when set, otherwise a fresh scan of the input dump.
func loadResult(cfg *config.Config, log *logger.Logger, fromJSON string) (*dump.Result, string, error) {
	if fromJSON != "" {
		result, err := dump.ReadFile(fromJSON)
		if err != nil {
			return nil, "", err
		}
		return result, fromJSON, nil
	}

	scanner, err := newScanner(cfg, log)
	if err != nil {
		return nil, "", err
	}
	result, err := scanner.ParseFile(cfg.Input.Path)
	if err != nil {
		return nil, "", err
	}
	return result, cfg.Input.Path, nil
}

// selectedEntities resolves import.entities. An empty list selects every
// entity.
func selectedEntities(cfg *config.Config) ([]dump.Entity, error) {
	if len(cfg.Import.Entities) == 0 {
		return dump.Entities, nil
	}

	want := make(map[dump.Entity]bool, len(cfg.Import.Entities))
	for _, name := range cfg.Import.Entities {
		e, err := dump.ParseEntity(name)
		if err != nil {
			return nil, err
		}
		want[e] = true
	}

	// keep dependency order regardless of how the list was written
	var out []dump.Entity
	for _, e := range dump.Entities {
		if want[e] {
			out = append(out, e)
		}
	}
	return out, nil
}

// newPrinter returns a summary printer writing to w.
func newPrinter(w io.Writer) *report.Printer {
	return report.New(w, !GetCLIOverrides().NoColor)
}
