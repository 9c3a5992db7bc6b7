package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/config"
	"github.com/kayz/promptsmith/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptsmith",
	Short: "Assemble image-generation prompts from text, styles and flags",
	Long: `promptsmith builds prompts for image-generation tools.

It combines free text with a style picked from per-category style lists and
a set of toggles (no people, vector clauses, draft, stylize, chaos, model
mode, aspect ratio, quality, seed, weird, repeat), checks the result and keeps
a history of committed prompts.

Data lives next to the executable unless PROMPTSMITH_HOME or --config says
otherwise.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		// Parse and set log level; the flag wins over the config file
		levelName := cfg.Logging.Level
		if cmd.Flags().Changed("log") {
			levelName = logLevel
		}
		level, err := logger.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if path := cfg.LogPath(); path != "" {
			if err := logger.SetFile(path); err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: .promptsmith.yaml beside the executable)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// openSession opens the application session and reports load problems
// without failing the command.
func openSession() (*app.Session, error) {
	s, err := app.Open(appConfig, app.Options{})
	if err != nil {
		return nil, err
	}
	for _, w := range s.Warnings() {
		warnf("%v", w)
	}
	return s, nil
}

func warnf(format string, args ...any) {
	color.New(color.FgHiYellow).Fprintf(os.Stderr, "⚠️  "+format+"\n", args...)
}

func successf(format string, args ...any) {
	color.New(color.FgHiGreen).Printf("✅ "+format+"\n", args...)
}

func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
