// Package breakdown implements the command that prints the month-by-category view.
package breakdown

import (
	"context"
	"fmt"

	"finlog/cmd/root"
	"finlog/internal/currencyutils"
	"finlog/internal/service"

	"github.com/spf13/cobra"
)

// Cmd is the breakdown command
var Cmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show monthly totals broken down by category",
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

		svc := service.New(nil, store, tax)
		groups, err := svc.GetBreakdown(context.Background())
		if err != nil {
			root.Exit(err)
		}

		if len(groups) == 0 {
			fmt.Println("Your ledger is empty. No breakdown available.")
			return
		}

		fmt.Println("Monthly Financial Breakdown")
		for _, g := range groups {
			fmt.Printf("\n--- %s ---\n", g.Month)
			fmt.Printf("Income: %s\n", currencyutils.FormatAmount(g.Income, "INR"))
			if len(g.ByCategory) == 0 {
				fmt.Println("No expenses recorded for this month.")
			} else {
				fmt.Println("Expenses by category:")
				for _, ct := range g.ByCategory {
					fmt.Printf("  - %s: %s\n", ct.Category, currencyutils.FormatAmount(ct.Total, "INR"))
				}
			}
			fmt.Printf("Total Monthly Expense: %s\n", currencyutils.FormatAmount(g.Expense, "INR"))
			fmt.Printf("Monthly Balance: %s\n", currencyutils.FormatAmount(g.Income.Sub(g.Expense), "INR"))
		}
	},
}
