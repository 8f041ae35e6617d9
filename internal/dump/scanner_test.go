package dump

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dumpmigrate/internal/config"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
)

const productColumns = "([Id], [Nombre], [CategoriaId], [Stock], [Precio], [Fecha], [Activo], [Descripcion], [SubcategoriaId], [ImagenUrl], [Costo], [VideoUrl])"

const sampleDump = `USE [Tienda]
GO
SET IDENTITY_INSERT [dbo].[Categorias] ON
INSERT [dbo].[Categorias] ([Id], [Nombre], [Activo]) VALUES (1, N'Beverages', 1)
INSERT [dbo].[Categorias] ([Id], [Nombre], [Activo]) VALUES (2, N'Snacks', 0)
SET IDENTITY_INSERT [dbo].[Categorias] OFF
GO

INSERT [dbo].[Productos] ` + productColumns + ` VALUES (10, N'Orange Juice', 1, 25, CAST(19.99 AS Decimal(10, 2)), CAST(N'2024-01-01T10:30:00' AS DateTime), 1, N'Fresh, cold', NULL, N'https://img/1.jpg?w=1&h=2', CAST(12.50 AS Decimal(10, 2)), NULL)
INSERT [dbo].[ProductoImagenes] ([Id], [ProductoId], [Url]) VALUES (1, 10, N'https://img/10-a.jpg')
INSERT [dbo].[ProductoImagenes] ([Id], [ProductoId], [Url]) VALUES (2, 10, N'https://img/10-b.jpg')
`

func parseString(t *testing.T, s *Scanner, input string) *Result {
	t.Helper()
	r, err := s.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return r
}

func TestParseSample(t *testing.T) {
	r := parseString(t, NewScanner(Options{}), sampleDump)

	cats := RecordsOf[Category](r, Categories)
	require.Len(t, cats, 2)
	assert.Equal(t, Category{ID: 1, Name: strp("Beverages"), IsActive: true}, cats[0])
	assert.Equal(t, Category{ID: 2, Name: strp("Snacks"), IsActive: false}, cats[1])

	products := RecordsOf[Product](r, Products)
	require.Len(t, products, 1)
	assert.Equal(t, "Fresh, cold", *products[0].Description)
	assert.Equal(t, "https://img/1.jpg?w=1&h=2", *products[0].ImageURL)
	assert.InDelta(t, 19.99, products[0].Price, 1e-9)

	assert.Equal(t, 2, r.Count(ProductImages))
	assert.Equal(t, 0, r.Count(Sales))
	assert.Equal(t, 5, r.Total())

	assert.Equal(t, 5, r.Stats.Statements)
	assert.Equal(t, 11, r.Stats.Lines)
	assert.Zero(t, r.Stats.FailedTotal())
	assert.Zero(t, r.Stats.Unknown)
	assert.Zero(t, r.Stats.Unterminated)
}

func TestParseMultiLineMatchesSingleLine(t *testing.T) {
	single := "INSERT [dbo].[Productos] " + productColumns + " VALUES (10, N'Orange Juice', 1, 25, CAST(19.99 AS Decimal(10, 2)), CAST(N'2024-01-01T10:30:00' AS DateTime), 1, N'Fresh', NULL, N'https://img/1.jpg', CAST(12.50 AS Decimal(10, 2)), NULL)\n"
	multi := "INSERT [dbo].[Productos] " + productColumns + "\n" +
		"VALUES (10, N'Orange Juice', 1, 25,\n" +
		"   CAST(19.99 AS Decimal(10, 2)), CAST(N'2024-01-01T10:30:00' AS DateTime), 1,\n" +
		"\n" +
		"   N'Fresh', NULL, N'https://img/1.jpg', CAST(12.50 AS Decimal(10, 2)), NULL)\n"

	s := NewScanner(Options{})
	a := parseString(t, s, single)
	b := parseString(t, s, multi)

	require.Equal(t, 1, a.Count(Products))
	assert.Equal(t, a.Records(Products), b.Records(Products))
}

func TestParseDropsShortProductTuple(t *testing.T) {
	input := "INSERT [dbo].[Productos] ([Id]) VALUES (10, N'Short', 1, 25, 1.00, NULL, 1, NULL, NULL, NULL, 1.00)\n"

	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	r := parseString(t, NewScanner(Options{Logger: log}), input)

	assert.Equal(t, 0, r.Count(Products))
	assert.Equal(t, 1, r.Stats.Failed[Products])
	assert.Equal(t, 1, r.Stats.Statements)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Skipping record"`)
	assert.Contains(t, out, `"entity":"products"`)
	assert.Contains(t, out, `"line":1`)
	assert.Contains(t, out, "too few values")
}

func TestParseFailureDoesNotStopScan(t *testing.T) {
	input := strings.Join([]string{
		"INSERT [dbo].[Categorias] ([Id]) VALUES (N'bad', N'A', 1)",
		"INSERT [dbo].[Categorias] ([Id]) VALUES (2, N'B', 1)",
	}, "\n")

	r := parseString(t, NewScanner(Options{}), input)
	cats := RecordsOf[Category](r, Categories)
	require.Len(t, cats, 1)
	assert.Equal(t, 2, cats[0].ID)
	assert.Equal(t, 1, r.Stats.Failed[Categories])
}

func TestParseUnknownTable(t *testing.T) {
	input := "INSERT [dbo].[Usuarios] ([Id], [Login]) VALUES (1, N'admin')\n" +
		"INSERT [dbo].[Categorias] ([Id]) VALUES (1, N'A', 1)\n"

	r := parseString(t, NewScanner(Options{}), input)
	assert.Equal(t, 1, r.Stats.Unknown)
	assert.Equal(t, 2, r.Stats.Statements)
	assert.Equal(t, 1, r.Total())
}

func TestParseUnterminatedAtEOF(t *testing.T) {
	input := "INSERT [dbo].[Categorias] ([Id]) VALUES (1, N'A', 1)\n" +
		"INSERT [dbo].[Categorias] ([Id]) VALUES (2, N'B',\n"

	r := parseString(t, NewScanner(Options{}), input)
	assert.Equal(t, 1, r.Count(Categories))
	assert.Equal(t, 1, r.Stats.Unterminated)
	assert.Equal(t, 1, r.Stats.Statements)
}

func TestParseInsertAbandonsOpenStatement(t *testing.T) {
	input := "INSERT [dbo].[Categorias] ([Id]) VALUES (1, N'A',\n" +
		"INSERT [dbo].[Categorias] ([Id]) VALUES (2, N'B', 1)\n"

	r := parseString(t, NewScanner(Options{}), input)
	cats := RecordsOf[Category](r, Categories)
	require.Len(t, cats, 1)
	assert.Equal(t, 2, cats[0].ID)
	assert.Equal(t, 1, r.Stats.Unterminated)
}

func TestParseMalformedStatement(t *testing.T) {
	input := "INSERT [dbo].[Categorias] ([Id]) VALUES x (1)\n"

	r := parseString(t, NewScanner(Options{}), input)
	assert.Equal(t, 1, r.Stats.Malformed)
	assert.Equal(t, 0, r.Total())
}

func TestParseIgnoresNonInsertLines(t *testing.T) {
	input := "SET ANSI_NULLS ON\nGO\nCREATE TABLE [dbo].[Categorias] ([Id] int)\nGO\n"

	r := parseString(t, NewScanner(Options{}), input)
	assert.Equal(t, 0, r.Stats.Statements)
	assert.Equal(t, 4, r.Stats.Lines)
	assert.Equal(t, 0, r.Total())
}

func TestParseEmptyInput(t *testing.T) {
	r := parseString(t, NewScanner(Options{}), "")
	assert.Equal(t, 0, r.Total())
	assert.Equal(t, Entities, r.Entities())
}

func TestParseCustomSchema(t *testing.T) {
	input := "INSERT [tienda].[Categorias] ([Id]) VALUES (1, N'A', 1)\n" +
		"INSERT [dbo].[Categorias] ([Id]) VALUES (2, N'B', 1)\n"

	r := parseString(t, NewScanner(Options{Schema: "tienda"}), input)
	cats := RecordsOf[Category](r, Categories)
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].ID)
	assert.Equal(t, 1, r.Stats.Unknown)
}

func TestParseSQLEscape(t *testing.T) {
	input := `INSERT [dbo].[Clientes] ([Id]) VALUES (1, N'O''Brien', NULL, NULL, N'C:\dir\', NULL, NULL)` + "\n"

	r := parseString(t, NewScanner(Options{Escape: EscapeSQL}), input)
	clients := RecordsOf[Client](r, Clients)
	require.Len(t, clients, 1)
	assert.Equal(t, "O'Brien", *clients[0].Name)
	assert.Equal(t, `C:\dir\`, *clients[0].Address)
}

func TestParseLineTooLong(t *testing.T) {
	input := "INSERT [dbo].[Categorias] ([Id]) VALUES (1, N'" + strings.Repeat("x", 256) + "', 1)\n"

	_, err := NewScanner(Options{MaxLineBytes: 64}).Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestParseReadError(t *testing.T) {
	_, err := NewScanner(Options{}).Parse(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore_utf8.sql")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0644))

	r, err := NewScanner(Options{}).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Total())
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewScanner(Options{}).ParseFile(filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
