// Package promptbuild turns a Selection into the final prompt string and
// checks the result for common problems.
package promptbuild

import (
	"strconv"
	"strings"
)

// Fixed clause texts appended for the vector/people toggles.
const (
	NoPeopleClause     = ", no people, woman, man"
	TShirtVectorClause = ", tshirt vector, black background"
	LogoVectorClause   = ", logo vector, black background"
	DraftFlag          = " --draft"
)

// step contributes one fragment of the prompt, or "" to contribute nothing.
type step func(Selection) string

// steps run in this exact order; the output depends on it.
var steps = []step{
	styleClause,
	toggle(func(s Selection) bool { return s.NoPeople }, NoPeopleClause),
	toggle(func(s Selection) bool { return s.TShirtVector }, TShirtVectorClause),
	toggle(func(s Selection) bool { return s.LogoVector }, LogoVectorClause),
	toggle(Selection.Draft, DraftFlag),
	stylizeFlag,
	chaosFlag,
	modeFlags,
	qualityFlag,
	seedFlag,
	weirdFlag,
	repeatFlag,
}

// Assemble builds the prompt for sel. It is pure: the same Selection always
// yields the same string. Separators are written verbatim even when the free
// text is empty, so a selection without text starts with ", " or " --".
func Assemble(sel Selection) string {
	var out strings.Builder
	out.WriteString(strings.TrimSpace(sel.Text))
	for _, st := range steps {
		out.WriteString(st(sel))
	}
	return out.String()
}

func toggle(on func(Selection) bool, text string) step {
	return func(s Selection) string {
		if on(s) {
			return text
		}
		return ""
	}
}

func styleClause(s Selection) string {
	style := strings.TrimSpace(s.Style)
	if style == "" {
		return ""
	}
	return ", " + style + " style"
}

func stylizeFlag(s Selection) string {
	v, ok := s.Stylize.Value()
	if !ok {
		return ""
	}
	return " --s " + strconv.Itoa(v)
}

func chaosFlag(s Selection) string {
	v, ok := s.Chaos.Value()
	if !ok {
		return ""
	}
	return " --c " + strconv.Itoa(v)
}

func modeFlags(s Selection) string {
	var flag string
	switch s.Mode() {
	case ModeNiji:
		flag = " --niji 6"
	case ModeStandard:
		flag = " --v 7"
	default:
		return ""
	}
	ar := strings.TrimSpace(s.Advanced.AspectRatio)
	if ar == "" {
		ar = DefaultAspectRatio
	}
	return flag + " --ar " + ar
}

func qualityFlag(s Selection) string {
	q := strings.TrimSpace(s.Advanced.Quality)
	if q == "" || q == DefaultQuality {
		return ""
	}
	return " --q " + q
}

func seedFlag(s Selection) string {
	seed := strings.TrimSpace(s.Advanced.Seed)
	if seed == "" {
		return ""
	}
	return " --seed " + seed
}

func weirdFlag(s Selection) string {
	if s.Advanced.Weird <= 0 {
		return ""
	}
	return " --weird " + strconv.Itoa(s.Advanced.Weird)
}

func repeatFlag(s Selection) string {
	if s.Repeat == RepeatNone {
		return ""
	}
	return " --repeat " + s.Repeat.String()
}
