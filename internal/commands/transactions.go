package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tradebook-dev/tradebook/internal/importer"
)

func newTransactionsCommand() *cobra.Command {
	var file string
	var accountNumber string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Parse a realized gain/loss export and list its transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransactions(file, accountNumber)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "realized gain/loss CSV export (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&accountNumber, "account-number", "", "account number (default: derived from the file name)")

	return cmd
}

func runTransactions(file, accountNumber string) error {
	if accountNumber == "" {
		accountNumber = importer.AccountNumberFromPath(file)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	txns, err := importer.DefaultRegistry().Get("fidelity").Parse(f, accountNumber)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	const dateFormat = "2006-01-02"
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Class", "Qty", "Acquired", "Sold", "Cost", "Proceeds", "ST G/L", "LT G/L"}),
	)
	for _, t := range txns {
		table.Append([]string{
			t.Holding.Symbol(),
			string(t.Holding.Class()),
			t.Quantity.String(),
			t.AcquiredDate.Format(dateFormat),
			t.SoldDate.Format(dateFormat),
			t.Cost.StringFixed(2),
			t.Proceeds.StringFixed(2),
			t.ShortTermGainLoss.StringFixed(2),
			t.LongTermGainLoss.StringFixed(2),
		})
	}
	table.Render()

	fmt.Printf("%d transactions in account %s\n", len(txns), accountNumber)
	return nil
}
