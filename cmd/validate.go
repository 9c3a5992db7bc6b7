package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [prompt...]",
	Short: "Check a prompt for common problems",
	Long: `Check a prompt for common problems: empty text, excessive length, too
many parameters and missing commas. Reads stdin when no prompt is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			prompt = strings.TrimRight(string(data), "\r\n")
		}

		issues := promptbuild.Validate(prompt)
		if len(issues) == 0 {
			successf("No issues found")
			return nil
		}
		printIssues(issues)
		if validateStrict {
			return fmt.Errorf("%d issue(s) found", len(issues))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with an error when issues are found")
	rootCmd.AddCommand(validateCmd)
}
