package cmd

import (
	"fmt"
	"strings"

	"github.com/kayz/promptsmith/internal/migrate"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateBackup bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import settings, styles and prompt log from an old install",
	Long: `Import an install of the old single-folder tool: config.json, the Styles
folder, prompt_log.txt and autosave_prompt.txt. Default templates are added
when no template exists yet.

Example:
  promptsmith migrate --from ~/old-prompt-tool --backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := migrate.Run(migrateFrom, appConfig, migrate.Options{Backup: migrateBackup})

		heading("Migration report")
		if rep.BackupDir != "" {
			fmt.Printf("  Backup:           %s\n", rep.BackupDir)
		}
		fmt.Printf("  Settings:         %s\n", yesNo(rep.SettingsMigrated))
		fmt.Printf("  Style files:      %d\n", rep.StyleFiles)
		fmt.Printf("  History items:    %d\n", rep.HistoryItems)
		fmt.Printf("  Audit log copied: %s\n", yesNo(rep.AuditCopied))
		fmt.Printf("  Templates added:  %d\n", rep.TemplatesSeeded)
		if len(rep.FilesCopied) > 0 {
			fmt.Printf("  Files copied:     %s\n", strings.Join(rep.FilesCopied, ", "))
		}

		if err != nil {
			return err
		}
		successf("Migration completed")
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Folder of the old install (required)")
	migrateCmd.Flags().BoolVar(&migrateBackup, "backup", true, "Copy the old install under backups/ first")
	_ = migrateCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(migrateCmd)
}
