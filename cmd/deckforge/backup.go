package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
)

var backupDir string

var backupCmd = &cobra.Command{
	Use:   "backup [name]",
	Short: "Copy the deck database into the backup directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.InMemory() {
			return fmt.Errorf("no deck database configured (storage.db_path is empty)")
		}

		db, err := storage.Open(dbConfig(cfg))
		if err != nil {
			return err
		}
		defer db.Close()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		path, err := db.Backup(cmd.Context(), resolveBackupDir(), name)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := storage.ListBackups(resolveBackupDir())
		if err != nil {
			return err
		}
		printBackups(cmd.OutOrStdout(), backups)
		return nil
	},
}

func init() {
	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	backupCmd.AddCommand(backupListCmd)
	rootCmd.AddCommand(backupCmd)
}

func resolveBackupDir() string {
	if backupDir != "" {
		return backupDir
	}
	if cfg.Storage.BackupDir != "" {
		return cfg.Storage.BackupDir
	}
	return storage.BackupDir(cfg.Storage.DBPath)
}
