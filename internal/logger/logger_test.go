package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dbsmedya/dumpmigrate/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string // String representation of zapcore.Level
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test-log.json")

	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{
			name: "json format info level",
			cfg:  &config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name: "text format debug level",
			cfg:  &config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"},
		},
		{
			name: "file output",
			cfg:  &config.LoggingConfig{Level: "warn", Format: "json", Output: logFile},
		},
		{
			name: "stderr output",
			cfg:  &config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil logger without error")
			}
			_ = logger.Sync()
		})
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil {
		t.Fatal("NewDefault() returned nil")
	}

	logger.Info("test message")
	_ = logger.Sync()
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Warnw("discarded", "key", "value")
	logger.WithEntity("products").Info("also discarded")
}

func captureLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &config.LoggingConfig{Level: level, Format: "json"}
	return NewWithWriter(cfg, &buf), &buf
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	logger, buf := captureLogger("warn")

	logger.Info("hidden info")
	logger.Warn("visible warning")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden info") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "visible warning") {
		t.Error("warn message should be written")
	}
}

func TestContextHelpers(t *testing.T) {
	logger, buf := captureLogger("info")

	contextual := logger.WithEntity("products").WithLine(42).WithRun("run-1")
	if contextual == logger {
		t.Error("context helpers should return a new logger instance")
	}

	contextual.Info("with context")
	_ = contextual.Sync()

	out := buf.String()
	for _, want := range []string{`"entity":"products"`, `"line":42`, `"run":"run-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got %s", want, out)
		}
	}
}

func TestWithFields(t *testing.T) {
	logger, buf := captureLogger("info")

	fields := map[string]interface{}{
		"custom_field": "value",
		"number":       123,
	}

	logger.WithFields(fields).Info("test with fields")
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, `"custom_field":"value"`) {
		t.Errorf("expected custom_field in output, got %s", out)
	}
	if !strings.Contains(out, `"number":123`) {
		t.Errorf("expected number in output, got %s", out)
	}
}

func TestBuildEncoder(t *testing.T) {
	if buildEncoder("json") == nil {
		t.Error("buildEncoder('json') returned nil")
	}
	if buildEncoder("text") == nil {
		t.Error("buildEncoder('text') returned nil")
	}
	if buildEncoder("unknown") == nil {
		t.Error("buildEncoder('unknown') returned nil")
	}
}

func TestBuildWriters(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", ""} {
		if buildWriters(output) == nil {
			t.Errorf("buildWriters(%q) returned nil", output)
		}
	}

	tmpFile := filepath.Join(t.TempDir(), "test-logger-output.log")
	if buildWriters(tmpFile) == nil {
		t.Error("buildWriters(file) returned nil")
	}
}

func TestLoggingOutput(t *testing.T) {
	tmpFile, err := os.CreateTemp(t.TempDir(), "logger-test-*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	_ = tmpFile.Close()

	cfg := &config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: tmpFile.Name(),
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("test info message")
	logger.Warn("test warn message")
	logger.WithEntity("sale_details").Info("message with entity context")

	_ = logger.Sync()

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "test info message") {
		t.Error("Log file should contain 'test info message'")
	}
	if !strings.Contains(contentStr, "test warn message") {
		t.Error("Log file should contain 'test warn message'")
	}
	if !strings.Contains(contentStr, "sale_details") {
		t.Error("Log file should contain entity context 'sale_details'")
	}
}
