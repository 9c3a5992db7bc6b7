package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyYes    bool
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search and export committed prompts",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent prompts",
	RunE:  runHistoryList,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search prompts and styles in history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(c app.Components) error {
			items := c.History.Search(args[0])
			if historyLimit > 0 && len(items) > historyLimit {
				items = items[:historyLimit]
			}
			printHistory(items)
			return nil
		})
	},
}

var historyCopyCmd = &cobra.Command{
	Use:   "copy <n>",
	Short: "Copy the n-th most recent prompt to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid index: %s", args[0])
		}
		return withHistory(func(c app.Components) error {
			items := c.History.Recent(n)
			if len(items) < n {
				return fmt.Errorf("history has only %d item(s)", len(items))
			}
			if err := clipboard.WriteAll(items[n-1].Prompt); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			successf("Copied to clipboard")
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the history (the audit log is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyYes && !confirm("Clear all prompt history?") {
			fmt.Println("Cancelled")
			return nil
		}
		return withHistory(func(c app.Components) error {
			if err := c.History.Clear(); err != nil {
				return err
			}
			successf("History cleared")
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the history as JSON or text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := historyFormat
		if !cmd.Flags().Changed("format") {
			format = formatFromExt(args[0])
		}
		return withHistory(func(c app.Components) error {
			if err := c.History.Export(args[0], format); err != nil {
				return err
			}
			successf("History exported to %s", args[0])
			return nil
		})
	},
}

var historyAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the append-only audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := history.ReadAudit(appConfig.AuditPath())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			printEmpty("audit entries")
			return nil
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[len(entries)-historyLimit:]
		}
		for _, e := range entries {
			if e.Timestamp == "" {
				fmt.Println(e.Prompt)
				continue
			}
			fmt.Printf("[%s] %s\n", e.Timestamp, e.Prompt)
		}
		return nil
	},
}

var historyArchiveCmd = &cobra.Command{
	Use:   "archive [term]",
	Short: "Search the long-term SQLite archive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		return withHistory(func(c app.Components) error {
			if c.Archive == nil {
				return errors.New("archive is disabled; set archive.enabled in the config")
			}
			found, err := c.Archive.Search(term, historyLimit)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				printEmpty("archived prompts")
				return nil
			}
			table := newTable("When", "Style", "Prompt")
			for _, p := range found {
				table.Append([]string{p.CreatedAt.Local().Format("2006-01-02 15:04"), p.StyleUsed, truncate(p.Prompt, 72)})
			}
			table.Render()
			return nil
		})
	},
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withHistory(func(c app.Components) error {
		printHistory(c.History.Recent(historyLimit))
		return nil
	})
}

func printHistory(items []history.Item) {
	if len(items) == 0 {
		printEmpty("history")
		return
	}
	table := newTable("#", "When", "Style", "Prompt")
	for i, item := range items {
		table.Append([]string{strconv.Itoa(i + 1), item.Timestamp, item.StyleUsed, truncate(item.Prompt, 72)})
	}
	table.Render()
}

func formatFromExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return string(history.FormatJSON)
	}
	return string(history.FormatText)
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func withHistory(fn func(c app.Components) error) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Do(fn)
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", history.DefaultRecent, "Maximum number of entries")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
	historyExportCmd.Flags().StringVarP(&historyFormat, "format", "f", "json", "Export format: json or text (default from the file extension)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyCopyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyAuditCmd)
	historyCmd.AddCommand(historyArchiveCmd)
	rootCmd.AddCommand(historyCmd)
}
