package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmarsh/chessperf/internal/export"
)

func newExportCmd() *cobra.Command {
	var identityOnly bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "export-identities",
		Short: "Export identified players (and their aliases) as UTF-8 JSON text",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartReadOnlyTransaction()
			defer txn.EndReadOnlyTransaction()

			var out []byte
			if identityOnly {
				out, err = export.ExportIdentityOnly(txn)
			} else {
				out, err = export.Export(txn)
			}
			if err != nil {
				return fmt.Errorf("export identities: %w", err)
			}

			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(append(out, '\n'))
				return err
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}
	cmd.Flags().BoolVar(&identityOnly, "identity-only", false, "omit alias tuples, exporting only each identity's canonical tuple")
	cmd.Flags().StringVar(&outPath, "out", "-", "output file, or - for stdout")
	return cmd
}

func newImportIdentitiesCmd() *cobra.Command {
	var mirror bool

	cmd := &cobra.Command{
		Use:   "import-identities <file>",
		Short: "Apply or mirror an identity export file against the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			groups, err := export.ParseGroups(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			op := export.Apply
			if mirror {
				op = export.Mirror
			}

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)

			applied, importErr := export.Import(txn, groups, op)
			if importErr != nil {
				err = importErr
				return err
			}
			fmt.Printf("applied %d of %d identity groups\n", applied, len(groups))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mirror, "mirror", false, "only merge tuples that already exist on file, instead of creating new ones")
	return cmd
}
