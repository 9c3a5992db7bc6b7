package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kayz/promptsmith/internal/autosave"
	"github.com/kayz/promptsmith/internal/logger"
	"github.com/spf13/cobra"
)

var (
	autosaveOnce     bool
	autosaveSchedule string
)

var autosaveCmd = &cobra.Command{
	Use:   "autosave",
	Short: "Periodically write the current prompt and settings",
	Long: `Run in the foreground and, on every tick, re-read the settings record and
overwrite the autosave file with the remembered prompt. Settings saved by other
commands in the meantime are picked up, never overwritten.

The schedule comes from --schedule, then autosave.schedule in the config,
then the auto_save_interval (milliseconds) stored in the settings.

SIGHUP reloads the settings and the style catalog. SIGINT and SIGTERM save once more and exit.`,
	RunE: runAutosave,
}

func runAutosave(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	schedule := autosaveSchedule
	if schedule == "" {
		schedule = session.AutosaveSchedule()
	}

	scheduler := autosave.NewScheduler(30 * time.Second)
	job, err := scheduler.AddJob("autosave", schedule, session.Autosave)
	if err != nil {
		return err
	}

	if autosaveOnce {
		if err := scheduler.RunNow(job.ID); err != nil {
			return err
		}
		successf("Saved to %s", appConfig.AutosavePath())
		return nil
	}

	scheduler.Start()
	logger.Info("[AUTOSAVE] Writing %s on schedule %s", appConfig.AutosavePath(), job.Schedule)
	if next := scheduler.Next(job.ID); !next.IsZero() {
		logger.Info("[AUTOSAVE] Next run at %s", next.Format(time.RFC3339))
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		if err := session.Reload(); err != nil {
			logger.Warn("[AUTOSAVE] Reload settings: %v", err)
			continue
		}
		logger.Info("[AUTOSAVE] Settings and style catalog reloaded")
	}

	logger.Info("[AUTOSAVE] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("[AUTOSAVE] %v", err)
	}
	if err := session.Autosave(shutdownCtx); err != nil {
		return err
	}
	logger.Info("[AUTOSAVE] Stopped")
	return nil
}

func init() {
	autosaveCmd.Flags().BoolVar(&autosaveOnce, "once", false, "Save once and exit")
	autosaveCmd.Flags().StringVar(&autosaveSchedule, "schedule", "", `Cron expression or descriptor, e.g. "@every 30s"`)
	rootCmd.AddCommand(autosaveCmd)
}
