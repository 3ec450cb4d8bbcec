package entrypoint

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/seed"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "catalog.db"),
		},
		Catalog:     config.Catalog{SortNameFormat: config.DefaultSortNameFormat, PageSize: config.DefaultPageSize},
		OpenLibrary: config.OpenLibrary{BaseURL: "http://127.0.0.1:1"},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Database.Ping())
	assert.NotNil(t, app.ISBNImporter)
	assert.NotNil(t, app.TitleImporter)
	assert.NotNil(t, app.BulkEditor)

	fixture, err := seed.Parse(strings.NewReader(`
books:
  - title: Emma
    credits:
      - name: Jane Austen
`))
	require.NoError(t, err)

	report, err := app.Seeder().Seed(fixture)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	total, err := app.Books.CountBooks(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestNewApp_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := NewApp(cfg)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDecodeSecret(t *testing.T) {
	assert.Nil(t, decodeSecret(""))
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decodeSecret("deadbeef"))
	assert.Equal(t, []byte("not hex!"), decodeSecret("not hex!"))
}
