package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/promptsmith/internal/autosave"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appConfig.Path())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and resolved paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return err
		}
		heading("Config (" + appConfig.Path() + ")")
		fmt.Print(string(data))

		fmt.Println()
		heading("Resolved paths")
		table := newTable("What", "Path")
		table.AppendBulk([][]string{
			{"styles", appConfig.StylesPath()},
			{"templates", appConfig.TemplatesPath()},
			{"history", appConfig.HistoryPath()},
			{"audit log", appConfig.AuditPath()},
			{"archive", appConfig.ArchivePath()},
			{"settings", appConfig.SettingsPath()},
			{"autosave", appConfig.AutosavePath()},
			{"log file", appConfig.LogPath()},
		})
		table.Render()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.Path()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if s := appConfig.Autosave.Schedule; s != "" {
			if err := autosave.ValidateSchedule(s); err != nil {
				return err
			}
		}
		for _, dir := range []string{appConfig.StylesPath(), appConfig.DataPath()} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create folder %s: %w", dir, err)
			}
		}
		if err := appConfig.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		successf("Config written to %s", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
