// Command smartcatalog extracts catalog entries from PDF catalogs, imports
// reference catalogs into SQLite, and matches structured queries against
// them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/smartcatalog/config"
)

// app carries what every subcommand shares
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "smartcatalog",
		Short: "Extract and match catalog entries",
		Long: `Extract catalog entries from grid-style PDF catalogs and match
structured queries against reference catalogs.

Examples:
  smartcatalog extract catalog.pdf --pages 4-9 -o entries.json
  smartcatalog import requirements.xlsx --db catalog.sqlite
  smartcatalog match queries.yaml --db catalog.sqlite --top 5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "human-readable debug logging")

	root.AddCommand(newExtractCmd(a), newImportCmd(a), newMatchCmd(a))
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	var err error
	if a.verbose {
		a.log, err = zap.NewDevelopment()
	} else {
		a.log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(a.log)

	a.cfg, err = config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.log.Debug("configuration loaded", zap.String("path", a.configPath))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
