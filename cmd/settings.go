package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/kayz/promptsmith/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the remembered session settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings and the selection they restore",
	RunE:  runSettingsShow,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(appConfig.SettingsPath())
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := settings.NewStore(appConfig.SettingsPath()).Reset(); err != nil {
			return err
		}
		successf("Settings reset to defaults")
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme <name>",
	Short: "Set the theme: " + strings.Join(settings.Themes, ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		theme := strings.ToLower(args[0])
		if !slices.Contains(settings.Themes, theme) {
			return fmt.Errorf("unknown theme %q (want one of %s)", args[0], strings.Join(settings.Themes, ", "))
		}
		return updateSettings(func(rec *settings.Record) { rec.Theme = theme })
	},
}

var settingsIntervalCmd = &cobra.Command{
	Use:   "interval <milliseconds>",
	Short: "Set the autosave interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid interval: %s", args[0])
		}
		return updateSettings(func(rec *settings.Record) { rec.AutoSaveInterval = ms })
	},
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store := settings.NewStore(appConfig.SettingsPath())
	rec, err := store.Load()
	if err != nil {
		warnf("%v (showing defaults)", err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	heading("Settings (" + store.Path() + ")")
	fmt.Println(string(out))

	fmt.Println()
	heading("Restored prompt")
	fmt.Println(promptbuild.Assemble(app.SelectionFromRecord(rec)))
	return nil
}

func updateSettings(fn func(rec *settings.Record)) error {
	store := settings.NewStore(appConfig.SettingsPath())
	rec, err := store.Load()
	if err != nil {
		warnf("%v (starting from defaults)", err)
	}
	fn(&rec)
	if err := store.Save(rec); err != nil {
		return err
	}
	successf("Settings saved")
	return nil
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsIntervalCmd)
	rootCmd.AddCommand(settingsCmd)
}
