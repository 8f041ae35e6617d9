package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dumpmigrate/internal/config"
)

func TestImportCommandStructure(t *testing.T) {
	assert.NotNil(t, importCmd)
	assert.Equal(t, "import", importCmd.Use)
	assert.NotEmpty(t, importCmd.Short)
	assert.Contains(t, importCmd.Long, "child-first")
	assert.Contains(t, importCmd.Long, "parent-first")
	assert.Contains(t, importCmd.Long, "dumpmigrate import")
	assert.NotNil(t, importCmd.RunE)
}

func TestImportCommandFlags(t *testing.T) {
	flags := importCmd.Flags()

	tests := []struct {
		name     string
		defValue string
	}{
		{"from-json", ""},
		{"verify", "false"},
		{"verify-method", "count"},
		{"force", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should exist", tt.name)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRunImport_RequiresDestination(t *testing.T) {
	resetFlags(t)

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	writeConfig(t, cfg)

	err := runImport(importCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination.host")
	assert.Contains(t, err.Error(), "destination.database")
}

func TestRunImport_RejectsVerifyMethodBeforeConnecting(t *testing.T) {
	resetFlags(t)

	writeConfig(t, destinationConfig())
	importVerify = true
	importVerifyMethod = "md5"

	err := runImport(importCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported verification method: md5")
}

func TestRunImport_MissingHandoffFile(t *testing.T) {
	resetFlags(t)

	writeConfig(t, destinationConfig())
	importFromJSON = "/nonexistent/migration_data.json"

	err := runImport(importCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/migration_data.json")
}
