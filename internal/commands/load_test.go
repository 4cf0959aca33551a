package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebook-dev/tradebook/internal/config"
	"github.com/tradebook-dev/tradebook/internal/loadlog"
	"github.com/tradebook-dev/tradebook/internal/model"
	"github.com/tradebook-dev/tradebook/internal/store"
)

// testEnv lays out a temp downloads dir, database path, and config file.
type testEnv struct {
	downloads  string
	dbPath     string
	configPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		downloads:  filepath.Join(root, "downloads"),
		dbPath:     filepath.Join(root, "data", "trades.db"),
		configPath: filepath.Join(root, "tradebook.yaml"),
	}
	require.NoError(t, os.MkdirAll(env.downloads, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(env.dbPath), 0o755))

	cfg := config.Default()
	cfg.DownloadsDir = env.downloads
	cfg.Database = env.dbPath
	require.NoError(t, config.Save(env.configPath, cfg))
	return env
}

func (e testEnv) placeExport(t *testing.T, accountNumber string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/realized_gain_loss.csv")
	require.NoError(t, err)

	path := filepath.Join(e.downloads, "Realized_Gain_Loss_Account_"+accountNumber+".csv")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (e testEnv) storedCount(t *testing.T) int {
	t.Helper()
	db, err := store.Open(e.dbPath)
	require.NoError(t, err)
	defer db.Close()

	txns, err := db.Transactions("")
	require.NoError(t, err)
	return len(txns)
}

func TestLoad_NoExportsIsANoOp(t *testing.T) {
	env := newTestEnv(t)

	err := runLoad(loadOptions{configPath: env.configPath})
	require.NoError(t, err)

	_, err = os.Stat(env.dbPath)
	assert.True(t, os.IsNotExist(err), "no database should be created when nothing was loaded")
}

func TestLoad_ScansConfiguredAccounts(t *testing.T) {
	env := newTestEnv(t)
	path := env.placeExport(t, "X69469547")

	err := runLoad(loadOptions{configPath: env.configPath})
	require.NoError(t, err)

	// Fixture has 5 rows, one malformed.
	assert.Equal(t, 4, env.storedCount(t))
	assert.FileExists(t, path, "without --delete the export stays put")

	entries, err := loadlog.Read(filepath.Dir(env.dbPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "X69469547", entries[0].AccountNumber)
	assert.Equal(t, model.AccountSingle, entries[0].AccountType)
	assert.Equal(t, 4, entries[0].RowsParsed)
	assert.Equal(t, 4, entries[0].RowsInserted)
	assert.False(t, entries[0].Deleted)
}

func TestLoad_DeleteAfterSuccessfulLoad(t *testing.T) {
	env := newTestEnv(t)
	path := env.placeExport(t, "X96392103")

	err := runLoad(loadOptions{configPath: env.configPath, deleteAfter: true})
	require.NoError(t, err)

	assert.NoFileExists(t, path)
	assert.Equal(t, 4, env.storedCount(t))

	entries, err := loadlog.Read(filepath.Dir(env.dbPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Deleted)
}

func TestLoad_FailedLoadKeepsFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.downloads, "Realized_Gain_Loss_Account_X69469547.csv")
	// Unterminated quote makes the whole file unreadable as CSV.
	require.NoError(t, os.WriteFile(path, []byte("h1,h2\n\"broken,row\n"), 0o644))

	err := runLoad(loadOptions{configPath: env.configPath, deleteAfter: true})
	require.Error(t, err)
	assert.FileExists(t, path, "a failed load must not delete the source file")
}

func TestLoad_SecondRunInsertsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.placeExport(t, "X69469547")

	require.NoError(t, runLoad(loadOptions{configPath: env.configPath}))
	require.NoError(t, runLoad(loadOptions{configPath: env.configPath}))

	assert.Equal(t, 4, env.storedCount(t))

	entries, err := loadlog.Read(filepath.Dir(env.dbPath))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].RowsInserted)
	assert.Equal(t, 0, entries[1].RowsInserted, "re-loading the same export is idempotent")
}

func TestLoad_SingleFileMode(t *testing.T) {
	env := newTestEnv(t)
	path := env.placeExport(t, "X11111111")

	err := runLoad(loadOptions{
		configPath:  env.configPath,
		file:        path,
		accountType: "single",
		dbPath:      env.dbPath,
	})
	require.NoError(t, err)

	db, err := store.Open(env.dbPath)
	require.NoError(t, err)
	defer db.Close()

	// Account number derived from the file name.
	txns, err := db.Transactions("X11111111")
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestLoad_SingleFileRejectsBadAccountType(t *testing.T) {
	env := newTestEnv(t)
	path := env.placeExport(t, "X11111111")

	err := runLoad(loadOptions{
		configPath:  env.configPath,
		file:        path,
		accountType: "margin",
	})
	assert.ErrorContains(t, err, "margin")
}

func TestLoad_MissingConfigUsesDefaults(t *testing.T) {
	// No config file at all: defaults point at ~/Downloads, which very
	// likely has no exports; the command must still succeed.
	err := runLoad(loadOptions{configPath: filepath.Join(t.TempDir(), "absent.yaml")})
	require.NoError(t, err)
}
