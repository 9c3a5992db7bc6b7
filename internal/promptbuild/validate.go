package promptbuild

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxPromptChars = 4000
	MaxFlags       = 10
	flagMarker     = "--"
)

const (
	IssueEmpty        = "Prompt is empty"
	IssueTooLong      = "Prompt is very long (>4000 characters)"
	IssueTooManyFlags = "Too many parameters (might cause issues)"
	IssueNoCommas     = "Consider using commas to separate concepts"
)

// Validate returns every heuristic issue found in prompt. The checks are
// independent; an empty result means the prompt looks fine. Issues are
// advisory and never block a commit.
func Validate(prompt string) []string {
	var issues []string

	if strings.TrimSpace(prompt) == "" {
		issues = append(issues, IssueEmpty)
	}
	if utf8.RuneCountInString(prompt) > MaxPromptChars {
		issues = append(issues, IssueTooLong)
	}
	if strings.Count(prompt, flagMarker) > MaxFlags {
		issues = append(issues, IssueTooManyFlags)
	}
	if !strings.Contains(prompt, ",") && len(strings.Fields(prompt)) > 1 {
		issues = append(issues, IssueNoCommas)
	}

	return issues
}
