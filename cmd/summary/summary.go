// Package summary implements the command that prints ledger totals.
package summary

import (
	"context"
	"fmt"

	"finlog/cmd/root"
	"finlog/internal/currencyutils"
	"finlog/internal/service"

	"github.com/spf13/cobra"
)

// Cmd is the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total income, total expense and net balance",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := root.OpenStore()
		if err != nil {
			root.Exit(err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close ledger store")
			}
		}()

		tax, err := root.LoadTaxonomy()
		if err != nil {
			root.Exit(err)
		}

		// Queries don't need the extraction oracle.
		svc := service.New(nil, store, tax)
		s, err := svc.GetSummary(context.Background())
		if err != nil {
			root.Exit(err)
		}

		fmt.Println("Expense Summary:")
		fmt.Printf("  Total Income:  %s\n", currencyutils.FormatAmount(s.TotalIncome, "INR"))
		fmt.Printf("  Total Expense: %s\n", currencyutils.FormatAmount(s.TotalExpense, "INR"))
		fmt.Printf("  Balance:       %s\n", currencyutils.FormatAmount(s.NetBalance, "INR"))
	},
}
