package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tradebook-dev/tradebook/internal/config"
)

func newInitCommand() *cobra.Command {
	var downloadsDir string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default tradebook.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, downloadsDir, dbPath)
		},
	}

	cmd.Flags().StringVar(&downloadsDir, "downloads", "", "directory the broker exports download into")
	cmd.Flags().StringVar(&dbPath, "db", "", "trade database path")

	return cmd
}

func runInit(dir, downloadsDir, dbPath string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, config.DefaultFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.Default()
	if downloadsDir != "" {
		cfg.DownloadsDir = downloadsDir
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized tradebook config at %s\n", path)
	return nil
}
