package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the deck database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(mm *storage.MigrationManager) error {
			if err := mm.Up(); err != nil {
				return err
			}
			return printVersion(cmd, mm)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(mm *storage.MigrationManager) error {
			if err := mm.Down(); err != nil {
				return err
			}
			return printVersion(cmd, mm)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(mm *storage.MigrationManager) error {
			return printVersion(cmd, mm)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func withMigrations(fn func(mm *storage.MigrationManager) error) error {
	if cfg.InMemory() {
		return fmt.Errorf("no deck database configured (storage.db_path is empty)")
	}

	dbCfg := dbConfig(cfg)
	dbCfg.AutoMigrate = false
	db, err := storage.Open(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mm, err := storage.NewMigrationManager(db.Conn())
	if err != nil {
		return err
	}
	return fn(mm)
}

func printVersion(cmd *cobra.Command, mm *storage.MigrationManager) error {
	v, dirty, err := mm.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d", v)
	if dirty {
		fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
