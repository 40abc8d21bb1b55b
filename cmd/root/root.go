// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"finlog/internal/config"
	"finlog/internal/currencyutils"
	"finlog/internal/extractor"
	"finlog/internal/ledger"
	"finlog/internal/normalizer"
	"finlog/internal/service"
	"finlog/internal/taxonomy"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the application configuration, populated before any command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finlog",
		Short: "A natural-language personal finance ledger.",
		Long: `finlog turns free-form statements like "Bought snacks ₹120" into
structured ledger entries and answers summary and breakdown queries
over the append-only ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finlog!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			var err error
			Cfg, err = config.Initialize()
			if err != nil {
				return err
			}

			Log = config.ConfigureLogging(Cfg)

			// Set the configured logger for all packages
			currencyutils.SetLogger(Log)
			taxonomy.SetLogger(Log)
			extractor.SetLogger(Log)
			normalizer.SetLogger(Log)
			ledger.SetLogger(Log)
			service.SetLogger(Log)

			return nil
		},
	}

	// StorePath overrides the configured ledger location when set
	StorePath string

	// StoreBackend overrides the configured store backend when set
	StoreBackend string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&StorePath, "ledger", "l", "", "Ledger file path (overrides config)")
	Cmd.PersistentFlags().StringVarP(&StoreBackend, "backend", "b", "", "Ledger backend: csv or sqlite (overrides config)")
}

// OpenStore opens the configured ledger store, honoring command-line
// overrides.
func OpenStore() (ledger.Store, error) {
	backend := Cfg.Store.Backend
	if StoreBackend != "" {
		backend = StoreBackend
	}
	path := Cfg.Store.Path
	if StorePath != "" {
		path = StorePath
	}

	switch backend {
	case config.StoreBackendSQLite:
		return ledger.OpenSQLiteStore(path)
	case config.StoreBackendCSV:
		return ledger.OpenCSVStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

// LoadTaxonomy returns the configured taxonomy snapshot, or the built-in
// default when no file is configured.
func LoadTaxonomy() (taxonomy.Taxonomy, error) {
	if Cfg.Taxonomy.File == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(Cfg.Taxonomy.File)
}

// Exit prints the error and exits non-zero. Commands use it for failures
// that are not user-input rejections.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
