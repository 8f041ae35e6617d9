package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/dumpmigrate/internal/config"
)

const testDump = `USE [Tienda]
GO
INSERT [dbo].[Categorias] ([Id], [Nombre], [Activo]) VALUES (1, N'Bebidas', 1)
INSERT [dbo].[Categorias] ([Id], [Nombre], [Activo]) VALUES (2, N'Snacks', 0)
INSERT [dbo].[ProductoImagenes] ([Id], [ProductoId], [Url])
VALUES (1, 10,
N'https://img/10-a.jpg')
INSERT [dbo].[Auditoria] ([Id]) VALUES (1)
`

// resetFlags restores every package-level flag variable when t ends and
// silences logging for the test.
func resetFlags(t *testing.T) {
	t.Helper()

	saved := struct {
		cfgFile, logLevel, logFormat, inputPath, outputPath string
		noColor, parseStdout, parseQuiet                    bool
		importFromJSON, importVerifyMethod                  string
		importVerify, importForce                           bool
		checkAgainst, checkMethod                           string
		checkDump, validateSkipConnect                      bool
	}{
		cfgFile, logLevel, logFormat, inputPath, outputPath,
		noColor, parseStdout, parseQuiet,
		importFromJSON, importVerifyMethod,
		importVerify, importForce,
		checkAgainst, checkMethod,
		checkDump, validateSkipConnect,
	}

	t.Cleanup(func() {
		cfgFile, logLevel, logFormat = saved.cfgFile, saved.logLevel, saved.logFormat
		inputPath, outputPath = saved.inputPath, saved.outputPath
		noColor, parseStdout, parseQuiet = saved.noColor, saved.parseStdout, saved.parseQuiet
		importFromJSON, importVerifyMethod = saved.importFromJSON, saved.importVerifyMethod
		importVerify, importForce = saved.importVerify, saved.importForce
		checkAgainst, checkMethod = saved.checkAgainst, saved.checkMethod
		checkDump, validateSkipConnect = saved.checkDump, saved.validateSkipConnect
	})

	logLevel = "error"
	noColor = true
}

// writeDump stores testDump in a temp directory and returns its path.
func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restore_utf8.sql")
	require.NoError(t, os.WriteFile(path, []byte(testDump), 0644))
	return path
}

// writeConfig marshals cfg into a temp YAML file and points --config at it.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dumpmigrate.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	cfgFile = path
	return path
}

// destinationConfig returns defaults with a reachable-looking destination.
func destinationConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Destination.Host = "127.0.0.1"
	cfg.Destination.User = "migrator"
	cfg.Destination.Password = "secret"
	cfg.Destination.Database = "tienda"
	return cfg
}
