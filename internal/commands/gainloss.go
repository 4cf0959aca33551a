package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tradebook-dev/tradebook/internal/config"
	"github.com/tradebook-dev/tradebook/internal/gainloss"
	"github.com/tradebook-dev/tradebook/internal/importer"
	"github.com/tradebook-dev/tradebook/internal/model"
	"github.com/tradebook-dev/tradebook/internal/store"
)

type gainLossOptions struct {
	configPath    string
	file          string
	dbPath        string
	accountNumber string
	symbols       string
}

func newGainLossCommand() *cobra.Command {
	var opts gainLossOptions

	cmd := &cobra.Command{
		Use:   "gainloss",
		Short: "Report short and long-term realized gain/loss",
		Long: `Report short and long-term realized gain/loss.

Reads either a broker CSV export (--file) or the trade database. With
--symbols, a per-symbol breakdown precedes the summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGainLoss(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultFile, "config file path")
	cmd.Flags().StringVar(&opts.file, "file", "", "realized gain/loss CSV export")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "trade database path (default: from config)")
	cmd.Flags().StringVar(&opts.accountNumber, "account-number", "", "restrict database reads to one account")
	cmd.Flags().StringVar(&opts.symbols, "symbols", "", "comma-separated symbols to break down")
	cmd.MarkFlagsMutuallyExclusive("file", "db")

	return cmd
}

func runGainLoss(out io.Writer, opts gainLossOptions) error {
	txns, err := gainLossSource(opts)
	if err != nil {
		return err
	}

	if symbols := gainloss.SplitSymbols(opts.symbols); len(symbols) > 0 {
		bySymbol := gainloss.BySymbol(txns, symbols)

		keys := make([]string, 0, len(bySymbol))
		for sym := range bySymbol {
			keys = append(keys, sym)
		}
		sort.Strings(keys)

		table := tablewriter.NewTable(out,
			tablewriter.WithHeader([]string{"Symbol", "Short Term", "Long Term", "Total"}),
		)
		for _, sym := range keys {
			s := bySymbol[sym]
			table.Append([]string{sym, s.ShortTerm.StringFixed(2), s.LongTerm.StringFixed(2), s.Total().StringFixed(2)})
		}
		table.Render()
	}

	s := gainloss.Summarize(txns)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "short term gain/loss: %s\n", s.ShortTerm.StringFixed(2))
	fmt.Fprintf(out, " long term gain/loss: %s\n", s.LongTerm.StringFixed(2))
	fmt.Fprintf(out, "     total gain/loss: %s\n", s.Total().StringFixed(2))
	return nil
}

func gainLossSource(opts gainLossOptions) ([]model.Transaction, error) {
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()

		number := opts.accountNumber
		if number == "" {
			number = importer.AccountNumberFromPath(opts.file)
		}
		return importer.DefaultRegistry().Get("fidelity").Parse(f, number)
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		cfg, err := loadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		dbPath = cfg.Database
	}
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Transactions(opts.accountNumber)
}
