package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage config file backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available config backups, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		store := buildConfigStore()
		backups, err := store.Backups()
		if err != nil {
			logrus.WithError(err).Fatal("can not list backups")
		}
		if len(backups) == 0 {
			fmt.Println("no backups found")
			return
		}
		for _, b := range backups {
			fmt.Println(b)
		}
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Restore the config from a backup file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		store := buildConfigStore()
		if _, err := store.Restore(args[0]); err != nil {
			logrus.WithError(err).Fatal("can not restore backup")
		}
		fmt.Printf("configuration restored from %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
}
