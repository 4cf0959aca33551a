package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tradebook-dev/tradebook/internal/config"
	"github.com/tradebook-dev/tradebook/internal/id"
	"github.com/tradebook-dev/tradebook/internal/importer"
	"github.com/tradebook-dev/tradebook/internal/loadlog"
	"github.com/tradebook-dev/tradebook/internal/model"
	"github.com/tradebook-dev/tradebook/internal/store"
)

type loadOptions struct {
	configPath    string
	file          string
	accountNumber string
	accountType   string
	dbPath        string
	deleteAfter   bool
}

func newLoadCommand() *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load realized gain/loss exports into the trade database",
		Long: `Load realized gain/loss exports into the trade database.

Without --file, every configured account's export is looked up in the
downloads directory; files that exist are loaded and the rest are skipped.
With --delete, each source file is removed after its rows were committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultFile, "config file path")
	cmd.Flags().StringVar(&opts.file, "file", "", "load a single export file instead of scanning downloads")
	cmd.Flags().StringVar(&opts.accountNumber, "account-number", "", "account number (default: derived from the file name)")
	cmd.Flags().StringVar(&opts.accountType, "account-type", string(model.AccountJoint), "account type for --file loads (single|joint)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "trade database path (default: from config)")
	cmd.Flags().BoolVarP(&opts.deleteAfter, "delete", "d", false, "delete each export after a successful load")

	return cmd
}

func runLoad(opts loadOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = cfg.Database
	}
	if dbPath, err = config.ExpandHome(dbPath); err != nil {
		return err
	}

	files, err := exportFiles(opts, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Info("no export files found, nothing to load")
		return nil
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	deleteAfter := opts.deleteAfter || cfg.DeleteAfterLoad
	parser := importer.DefaultRegistry().Get("fidelity")
	gen := id.NewGenerator()

	var entries []loadlog.Entry
	for _, f := range files {
		entry, err := loadOne(db, parser, gen, f, deleteAfter)
		if err != nil {
			// Keep the audit trail for the files that did load.
			_ = loadlog.Append(filepath.Dir(dbPath), entries)
			return fmt.Errorf("loading %s: %w", f.Path, err)
		}
		entries = append(entries, entry)
	}

	if err := loadlog.Append(filepath.Dir(dbPath), entries); err != nil {
		return fmt.Errorf("writing load log: %w", err)
	}
	return nil
}

// loadConfig reads the config file, falling back to defaults when no file
// exists so a bare `tradebook load` still knows the standard accounts.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func exportFiles(opts loadOptions, cfg *config.Config) ([]importer.ExportFile, error) {
	if opts.file != "" {
		accountType := model.AccountType(opts.accountType)
		if !accountType.Valid() {
			return nil, fmt.Errorf("unknown account type %q", opts.accountType)
		}
		number := opts.accountNumber
		if number == "" {
			number = importer.AccountNumberFromPath(opts.file)
		}
		info, err := os.Stat(opts.file)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", opts.file, err)
		}
		return []importer.ExportFile{{
			AccountNumber: number,
			AccountType:   accountType,
			Path:          opts.file,
			Size:          info.Size(),
		}}, nil
	}

	downloadsDir, err := config.ExpandHome(cfg.DownloadsDir)
	if err != nil {
		return nil, err
	}
	var accounts []importer.Account
	for _, a := range cfg.Accounts {
		accounts = append(accounts, importer.Account{Number: a.Number, Type: a.Type})
	}
	return importer.Scan(downloadsDir, accounts)
}

// loadOne parses, inserts, and (only after a clean commit) deletes one
// export file.
func loadOne(db *store.Store, parser importer.Parser, gen *id.Generator, f importer.ExportFile, deleteAfter bool) (loadlog.Entry, error) {
	entry := loadlog.Entry{
		Timestamp:     time.Now().UTC(),
		File:          filepath.Base(f.Path),
		AccountNumber: f.AccountNumber,
		AccountType:   f.AccountType,
	}

	src, err := os.Open(f.Path)
	if err != nil {
		return entry, fmt.Errorf("opening export: %w", err)
	}
	txns, err := parser.Parse(src, f.AccountNumber)
	src.Close()
	if err != nil {
		return entry, err
	}
	entry.RowsParsed = len(txns)

	id.Assign(gen, txns)

	inserted, err := db.InsertTransactions(txns, f.AccountType)
	if err != nil {
		return entry, err
	}
	entry.RowsInserted = inserted
	log.Info("loaded export", "file", entry.File, "account", f.AccountNumber, "parsed", entry.RowsParsed, "inserted", inserted)

	if deleteAfter {
		if err := os.Remove(f.Path); err != nil {
			return entry, fmt.Errorf("removing export: %w", err)
		}
		entry.Deleted = true
		log.Info("removed export", "file", entry.File)
	}
	return entry, nil
}
