package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/logger"
	"github.com/kayz/promptsmith/internal/persist"
	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/spf13/cobra"
)

var (
	buildRequestPath string
	buildOutputPath  string
	buildRestore     bool
	buildCommit      bool
	buildCopy        bool
	buildRemember    bool
	buildRandomStyle bool
	buildTemplate    string
	buildCategory    string
	buildFlags       promptbuild.Request
	buildStylize     int
	buildChaos       int
)

var buildCmd = &cobra.Command{
	Use:   "build [text...]",
	Short: "Assemble a prompt from text, a style and flags",
	Long: `Assemble a prompt and print it with any validation issues.

The selection starts empty, or from the last remembered selection with
--restore, or from a YAML/JSON request file with --request. Flags given on
the command line override both.

Examples:
  promptsmith build a city street --style Cyberpunk --no-people --stylize 500 --mode niji
  promptsmith build --request owl.yaml --commit --copy`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	req := promptbuild.Request{}
	if buildRequestPath != "" {
		loaded, err := promptbuild.LoadRequest(buildRequestPath)
		if err != nil {
			return err
		}
		req = loaded
	}
	overrideRequest(cmd, &req, args)

	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if buildRestore {
		mergeRestored(cmd, &req, app.SelectionFromRecord(session.Record()))
	}

	sel, err := req.Selection()
	if err != nil {
		return err
	}
	session.Update(func(s *promptbuild.Selection) { *s = sel })

	category := buildCategory
	if category == "" {
		category = session.Category()
	}
	session.SelectStyle(category, sel.Style)

	if buildTemplate != "" {
		if strings.TrimSpace(sel.Text) != "" {
			warnf("text already given, template %q not applied", buildTemplate)
		} else if _, ok := session.UseTemplate(buildTemplate); !ok {
			return fmt.Errorf("template not found: %s", buildTemplate)
		}
	}
	if buildRandomStyle {
		category, style, ok := session.RandomStyle()
		if !ok {
			return fmt.Errorf("no styles available in %s", appConfig.StylesPath())
		}
		logger.Info("Random style: %s (%s)", style, category)
	}

	prompt, issues := session.Preview()
	if buildOutputPath != "" {
		if err := persist.WriteFile(buildOutputPath, []byte(prompt)); err != nil {
			return err
		}
	} else {
		fmt.Println(prompt)
	}
	printIssues(issues)

	if buildCommit {
		if _, _, err := session.Commit(); err != nil {
			if persist.IsPersistence(err) {
				warnf("commit partially saved: %v", err)
			} else {
				return err
			}
		} else {
			successf("Saved to history")
		}
	}
	if buildCopy {
		if err := clipboard.WriteAll(prompt); err != nil {
			warnf("copy to clipboard failed: %v", err)
		} else {
			successf("Copied to clipboard")
		}
	}
	if buildRemember {
		if err := session.Remember(); err != nil {
			warnf("remember selection failed: %v", err)
		}
	}
	return nil
}

// overrideRequest copies every flag the user set onto req.
func overrideRequest(cmd *cobra.Command, req *promptbuild.Request, args []string) {
	f := cmd.Flags()
	if len(args) > 0 {
		req.Text = strings.Join(args, " ")
	}
	if f.Changed("style") {
		req.Style = buildFlags.Style
	}
	if f.Changed("no-people") {
		req.NoPeople = buildFlags.NoPeople
	}
	if f.Changed("tshirt") {
		req.TShirtVector = buildFlags.TShirtVector
	}
	if f.Changed("logo") {
		req.LogoVector = buildFlags.LogoVector
	}
	if f.Changed("draft") {
		req.Draft = buildFlags.Draft
	}
	if f.Changed("mode") {
		req.Mode = buildFlags.Mode
	}
	if f.Changed("stylize") {
		v := buildStylize
		req.Stylize = &v
	}
	if f.Changed("chaos") {
		v := buildChaos
		req.Chaos = &v
	}
	if f.Changed("repeat") {
		req.Repeat = buildFlags.Repeat
	}
	if f.Changed("ar") {
		req.Advanced.AspectRatio = buildFlags.Advanced.AspectRatio
	}
	if f.Changed("quality") {
		req.Advanced.Quality = buildFlags.Advanced.Quality
	}
	if f.Changed("seed") {
		req.Advanced.Seed = buildFlags.Advanced.Seed
	}
	if f.Changed("weird") {
		req.Advanced.Weird = buildFlags.Advanced.Weird
	}
}

// mergeRestored fills fields the user did not set from the remembered
// selection. A remembered draft is dropped when the user picked a mode.
func mergeRestored(cmd *cobra.Command, req *promptbuild.Request, sel promptbuild.Selection) {
	f := cmd.Flags()
	modeChosen := req.Mode != ""
	if req.Text == "" {
		req.Text = sel.Text
	}
	if req.Style == "" {
		req.Style = sel.Style
	}
	if !f.Changed("no-people") && !req.NoPeople {
		req.NoPeople = sel.NoPeople
	}
	if !f.Changed("tshirt") && !req.TShirtVector {
		req.TShirtVector = sel.TShirtVector
	}
	if !f.Changed("logo") && !req.LogoVector {
		req.LogoVector = sel.LogoVector
	}
	if !f.Changed("draft") && !req.Draft && !modeChosen {
		req.Draft = sel.Draft()
	}
	if req.Mode == "" {
		req.Mode = sel.Mode().String()
	}
	if req.Stylize == nil {
		if v, ok := sel.Stylize.Value(); ok {
			req.Stylize = &v
		}
	}
	if req.Chaos == nil {
		if v, ok := sel.Chaos.Value(); ok {
			req.Chaos = &v
		}
	}
	if req.Repeat == "" {
		req.Repeat = sel.Repeat.String()
	}
	adv := &req.Advanced
	if adv.AspectRatio == "" {
		adv.AspectRatio = sel.Advanced.AspectRatio
	}
	if adv.Quality == "" {
		adv.Quality = sel.Advanced.Quality
	}
	if adv.Seed == "" {
		adv.Seed = sel.Advanced.Seed
	}
	if !f.Changed("weird") && adv.Weird == 0 {
		adv.Weird = sel.Advanced.Weird
	}
}

func printIssues(issues []string) {
	warn := color.New(color.FgHiYellow)
	for _, issue := range issues {
		warn.Fprintf(os.Stderr, "⚠️  %s\n", issue)
	}
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildRequestPath, "request", "", "Path to YAML or JSON request file")
	f.StringVarP(&buildOutputPath, "output", "o", "", "Write the prompt to a file instead of stdout")
	f.BoolVar(&buildRestore, "restore", false, "Start from the last remembered selection")
	f.BoolVar(&buildCommit, "commit", false, "Append the prompt to history and count the style use")
	f.BoolVar(&buildCopy, "copy", false, "Copy the prompt to the clipboard")
	f.BoolVar(&buildRemember, "remember", false, "Remember this selection for --restore and autosave")
	f.BoolVar(&buildRandomStyle, "random-style", false, "Pick a random style")
	f.StringVarP(&buildTemplate, "template", "t", "", "Use a saved template as the text")
	f.StringVar(&buildCategory, "category", "", "Category the style was picked from")

	f.StringVarP(&buildFlags.Style, "style", "s", "", "Style phrase")
	f.BoolVar(&buildFlags.NoPeople, "no-people", false, "Add the no-people clause")
	f.BoolVar(&buildFlags.TShirtVector, "tshirt", false, "Add the tshirt vector clause")
	f.BoolVar(&buildFlags.LogoVector, "logo", false, "Add the logo vector clause")
	f.BoolVar(&buildFlags.Draft, "draft", false, "Draft mode (forces the standard model)")
	f.StringVar(&buildFlags.Mode, "mode", "", "Model: niji or standard")
	f.IntVar(&buildStylize, "stylize", 0, "Stylize: 0, 250, 500, 750 or 1000")
	f.IntVar(&buildChaos, "chaos", 0, "Chaos: 0, 25, 50 or 100")
	f.StringVar(&buildFlags.Repeat, "repeat", "", "Repeat: none, 3, 6 or 10")
	f.StringVar(&buildFlags.Advanced.AspectRatio, "ar", "", "Aspect ratio, e.g. 16:9 (default 7:4)")
	f.StringVar(&buildFlags.Advanced.Quality, "quality", "", "Quality: 0.25, 0.5, 1 or 2")
	f.StringVar(&buildFlags.Advanced.Seed, "seed", "", "Seed (non-negative integer)")
	f.IntVar(&buildFlags.Advanced.Weird, "weird", 0, "Weird: 0..3000")

	rootCmd.AddCommand(buildCmd)
}
