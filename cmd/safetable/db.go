package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safetable/safetable/internal/registrydb"
	"github.com/safetable/safetable/internal/wiring"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres registry schema",
		Long:  `Applies pending schema migrations to the database named by SAFETABLE_POSTGRES_DSN.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := wiring.OpenDB(cmd.Context(), a.env)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := registrydb.AutoMigrate(db); err != nil {
				return err
			}
			a.log.Info().Msg("schema up to date")
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "import [URI]",
		Short: "Load a registry dataset into Postgres",
		Long: `Reads a registry dataset from a file path, s3://bucket/key or gs://bucket/key
and replaces the Postgres registry tables with it. Without URI, the
SAFETABLE_DATASET_URI location (or the local dataset directory) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := wiring.DatasetURI(a.env)
			if len(args) == 1 {
				uri = args[0]
			}
			ds, err := wiring.LoadDataset(cmd.Context(), a.env, uri)
			if err != nil {
				return err
			}

			db, err := wiring.OpenDB(cmd.Context(), a.env)
			if err != nil {
				return err
			}
			defer db.Close()
			if migrate {
				if err := registrydb.AutoMigrate(db); err != nil {
					return err
				}
			}

			stats, err := registrydb.New(db, a.log).Import(cmd.Context(), ds.Records, ds.Violations)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records and %d violations from %s\n", stats.Records, stats.Violations, uri)
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply schema migrations first")
	return cmd
}
