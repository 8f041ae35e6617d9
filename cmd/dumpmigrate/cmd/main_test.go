package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	// Execute() calls os.Exit(1) on error, so only its presence is checked
	assert.NotNil(t, Execute)
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, Commit, "Commit should not be empty")
}

func TestCLIFlagsVariables(t *testing.T) {
	// cfgFile defaults to "dumpmigrate.yaml" via init()
	assert.Equal(t, "dumpmigrate.yaml", cfgFile, "cfgFile should default to dumpmigrate.yaml")
	assert.Equal(t, "", logLevel)
	assert.Equal(t, "", logFormat)
	assert.Equal(t, "", inputPath)
	assert.Equal(t, "", outputPath)
	assert.Equal(t, false, noColor)
}

func TestCLIOverrideStruct(t *testing.T) {
	overrides := CLIOverrides{
		LogLevel:   "debug",
		LogFormat:  "json",
		InputPath:  "dump.sql",
		OutputPath: "out.json",
		NoColor:    true,
	}

	assert.Equal(t, "debug", overrides.LogLevel)
	assert.Equal(t, "json", overrides.LogFormat)
	assert.Equal(t, "dump.sql", overrides.InputPath)
	assert.Equal(t, "out.json", overrides.OutputPath)
	assert.True(t, overrides.NoColor)
}

func TestAllCommandsRegistered(t *testing.T) {
	want := []string{"check", "entities", "import", "parse", "validate", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "%s command should be added to root command", name)
	}
}
