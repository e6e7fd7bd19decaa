package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diewo77/go-gestion/internal/importer"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/spf13/cobra"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a legacy export of clients, projects, transactions and archives",
		Long: `Import a YAML or JSON export of the legacy document store.

Legacy ids and structured ids are kept. Records already present are
skipped, so the same file can be imported twice. Amounts given as
numeric strings are accepted; non-numeric amounts are stored as null
and count as zero.

Example:
  gestion import export.json
  gestion import --dry-run export.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			exp, err := importer.Decode(f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if dryRun {
				return enc.Encode(map[string]int{
					"clients":      len(exp.Clients),
					"projects":     len(exp.Projects),
					"transactions": len(exp.Transactions),
					"archives":     len(exp.Archives),
				})
			}

			dbConn, err := openDatabase(opts)
			if err != nil {
				return err
			}
			rep, err := importer.New(store.New(dbConn), opts.log).Import(cmd.Context(), exp)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return enc.Encode(rep)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decode the file and print counts without writing")
	return cmd
}
