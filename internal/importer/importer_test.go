package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebook-dev/tradebook/internal/model"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()
	accounts := []Account{
		{Number: "X69469547", Type: model.AccountSingle},
		{Number: "X96392103", Type: model.AccountJoint},
	}

	// Nothing downloaded yet.
	files, err := Scan(dir, accounts)
	require.NoError(t, err)
	assert.Empty(t, files)

	// Only the single account's export is present.
	path := filepath.Join(dir, "Realized_Gain_Loss_Account_X69469547.csv")
	require.NoError(t, os.WriteFile(path, []byte("header\n"), 0o644))

	files, err = Scan(dir, accounts)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "X69469547", files[0].AccountNumber)
	assert.Equal(t, model.AccountSingle, files[0].AccountType)
	assert.Equal(t, path, files[0].Path)
	assert.Equal(t, int64(7), files[0].Size)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Realized_Gain_Loss_Account_X96392103.csv", ExportFileName("X96392103"))
}

func TestAccountNumberFromPath(t *testing.T) {
	cases := map[string]string{
		"Realized_Gain_Loss_Account_X69469547.csv":            "X69469547",
		"/home/u/Downloads/Realized_Gain_Loss_Account_X1.CSV": "X1",
		"export_x96392103.csv":                                "X96392103",
	}
	for in, want := range cases {
		assert.Equal(t, want, AccountNumberFromPath(in), "input %q", in)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	require.NotNil(t, r.Get("fidelity"))
	assert.Equal(t, "fidelity", r.Get("FIDELITY").Format())
	assert.Nil(t, r.Get("chase"))

	assert.Panics(t, func() { r.Register(NewFidelityParser()) })
}
