package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dumpmigrate/internal/config"
	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
)

func TestCheckCommandStructure(t *testing.T) {
	assert.NotNil(t, checkCmd)
	assert.Equal(t, "check", checkCmd.Use)
	assert.NotEmpty(t, checkCmd.Short)
	assert.Contains(t, checkCmd.Long, "--against")
	assert.Contains(t, checkCmd.Long, "--dump")
	assert.NotNil(t, checkCmd.RunE)

	method := checkCmd.Flags().Lookup("method")
	require.NotNil(t, method)
	assert.Equal(t, "count", method.DefValue)
}

func TestExpectedRecords(t *testing.T) {
	resetFlags(t)

	cfg := config.DefaultConfig()
	cfg.Input.Path = writeDump(t)
	log := logger.NewNop()

	handoff := filepath.Join(t.TempDir(), "migration_data.json")
	seeded := dump.NewResult()
	name := "Bebidas"
	seeded.Add(dump.Category{ID: 1, Name: &name, IsActive: true})
	require.NoError(t, seeded.WriteFile(handoff, 0))

	t.Run("counts only", func(t *testing.T) {
		checkAgainst, checkDump = "", false
		got, err := expectedRecords(cfg, log)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("against handoff file", func(t *testing.T) {
		checkAgainst, checkDump = handoff, false
		got, err := expectedRecords(cfg, log)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Total())
	})

	t.Run("fresh scan", func(t *testing.T) {
		checkAgainst, checkDump = "", true
		got, err := expectedRecords(cfg, log)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Count(dump.Categories))
	})

	t.Run("both sources", func(t *testing.T) {
		checkAgainst, checkDump = handoff, true
		_, err := expectedRecords(cfg, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestRunCheck_RequiresDestination(t *testing.T) {
	resetFlags(t)

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	writeConfig(t, cfg)

	err := runCheck(checkCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination.host")
}
