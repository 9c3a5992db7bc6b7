package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func printEmpty(what string) {
	fmt.Println("🤷‍♂️ No " + what)
}

func heading(text string) {
	color.New(color.Bold, color.FgHiMagenta).Println(text)
}

// truncate shortens s to at most n runes for table cells.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func star(on bool) string {
	if on {
		return "★"
	}
	return ""
}
