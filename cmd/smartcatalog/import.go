package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/smartcatalog/htmldoc"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/store"
	"github.com/tsawler/smartcatalog/xlsx"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		dbPath string
		brands []string
	)

	cmd := &cobra.Command{
		Use:   "import <catalog.xlsx|catalog.html>...",
		Short: "Import reference catalogs into a SQLite database",
		Long: `Read reference rows from XLSX workbooks or HTML tables and upsert
them into the items table. A row already stored under the same code keeps
every field the new row leaves empty.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			known := append(append([]string(nil), a.cfg.Brands...), brands...)

			db, err := store.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, path := range args {
				rows, err := readReferenceRows(path, known)
				if err != nil {
					return err
				}
				n, err := db.Upsert(cmd.Context(), rows)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.log.Info("import: rows stored",
					zap.String("file", path), zap.String("db", dbPath), zap.Int("rows", n))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "catalog.sqlite", "SQLite database")
	cmd.Flags().StringSliceVar(&brands, "brand", nil, "known brand names, in addition to the configured ones")
	return cmd
}

// readReferenceRows reads a reference catalog, choosing the reader by file
// extension.
func readReferenceRows(path string, brands []string) ([]model.ReferenceRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsx.ReadReferenceRows(path, brands)
	case ".html", ".htm":
		return htmldoc.ReadReferenceRows(path, brands)
	default:
		return nil, fmt.Errorf("%s: unsupported reference format (want .xlsx or .html)", path)
	}
}
