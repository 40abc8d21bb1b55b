// Package logentry implements the command that records one money statement.
package logentry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finlog/cmd/root"
	"finlog/internal/currencyutils"
	"finlog/internal/extractor"
	"finlog/internal/ledgererror"
	"finlog/internal/service"

	"github.com/spf13/cobra"
)

// Cmd is the log command
var Cmd = &cobra.Command{
	Use:   "log [text]",
	Short: "Record a money statement in the ledger",
	Long: `Sends the statement to the extraction model, validates the result and
appends a canonical entry to the ledger. Example:

  finlog log "Bought diapers ₹300"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rawText := strings.TrimSpace(strings.Join(args, " "))
		if rawText == "" {
			root.Exit(fmt.Errorf("nothing to log: empty statement"))
		}

		tax, err := root.LoadTaxonomy()
		if err != nil {
			root.Exit(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(root.Cfg.AI.TimeoutSeconds)*time.Second)
		defer cancel()

		ext, err := extractor.NewGeminiExtractor(ctx, root.Cfg.AI.APIKey, root.Cfg.AI.Model, tax)
		if err != nil {
			root.Exit(err)
		}
		defer func() {
			if err := ext.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close extractor")
			}
		}()

		store, err := root.OpenStore()
		if err != nil {
			root.Exit(err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close ledger store")
			}
		}()

		svc := service.New(ext, store, tax)
		entry, err := svc.LogEntry(ctx, rawText)
		if err != nil {
			var rejection *ledgererror.RejectionError
			var extraction *ledgererror.ExtractionError
			switch {
			case errors.As(err, &rejection):
				fmt.Printf("Could not log that: %s\n", rejectionMessage(rejection))
			case errors.As(err, &extraction):
				fmt.Println("Sorry, I couldn't understand that message. Please try again with details like 'Bought snacks ₹150'.")
				root.Log.WithError(err).Warn("Extraction failed")
			default:
				root.Exit(err)
			}
			return
		}

		fmt.Printf("Logged your %s: %s of %s (%s)\n",
			entry.Type, entry.Description,
			currencyutils.FormatAmount(entry.Amount, "INR"), entry.Category)
	},
}

func rejectionMessage(r *ledgererror.RejectionError) string {
	switch r.Reason {
	case ledgererror.InvalidAmount:
		return "I couldn't find a valid amount in your message."
	case ledgererror.ZeroAmount:
		return "a zero amount carries no ledger meaning."
	case ledgererror.EmptyDescription:
		return "the entry needs a description."
	default:
		return string(r.Reason)
	}
}
