package main

import (
	"github.com/bethropolis/xparse-ignore/internal/app"
	"github.com/bethropolis/xparse-ignore/internal/config"
	"github.com/spf13/cobra"
)

// backupMain copies the kept files of SOURCE into --to.
func backupMain(command *cobra.Command, arguments []string) error {
	if printVersion(command) {
		return nil
	}
	if err := configuration.Finalize(); err != nil {
		return err
	}

	application := app.New(configuration)
	return application.RunBackup(command.Context(), arguments[0])
}

// backupCommand is the backup command.
var backupCommand = &cobra.Command{
	Use:   "backup SOURCE --to DEST",
	Short: "Copy the kept files of SOURCE into DEST",
	Long: `backup walks SOURCE with the same rules as the listing command and copies
every kept regular file to the same relative path below DEST. Files whose copy
in DEST already has identical content are skipped.`,
	Args:         cobra.ExactArgs(1),
	RunE:         backupMain,
	SilenceUsage: true,
}

func init() {
	flags := backupCommand.Flags()
	flags.SortFlags = false
	config.BindBackupFlags(flags, configuration)
	_ = backupCommand.MarkFlagRequired("to")
}
